// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

// Options controls the few knobs spec.md's otherwise-pure, argument-free
// pipeline exposes, following the teacher's rewriteOptions struct-of-
// options pattern (message.go).
type Options struct {
	// MaxMIMEDepth bounds multipart/message recursion (spec.md 4.G/5).
	// Zero means "use the default" (20).
	MaxMIMEDepth int
}

// ParseMessage is the component-H message assembler: the library's main
// entry point. It is total — every byte sequence, however adversarial,
// produces a *Message, never an error or a panic (spec.md 6/7/8).
func ParseMessage(raw []byte) *Message {
	return ParseMessageWithOptions(raw, Options{})
}

// ParseMessageWithOptions is ParseMessage with the recursion-depth bound
// overridable.
func ParseMessageWithOptions(raw []byte, opts Options) *Message {
	depth := maxMIMEDepth
	if opts.MaxMIMEDepth > 0 {
		depth = opts.MaxMIMEDepth
	}
	m := parseMessageWithDepth(raw, Span{0, len(raw)}, 0, depth)
	return &m
}

// ParseIMF parses raw as headers only (no MIME body decomposition),
// matching spec.md 6's parse_imf entry point.
func ParseIMF(raw []byte) *HeaderSection {
	hSpan, _, _ := locateHeaderBlock(raw)
	headerText := normaliseHeaderText(hSpan.Slice(raw))
	h := aggregateFields(parseHeaderFields(headerText))
	return &h
}

// parseMessageWithDepth parses the message (top-level or an embedded
// message/rfc822 body) found at span within buf, honouring depthLimit
// for further multipart/message recursion (spec.md 4.G.3 and 4.H).
func parseMessageWithDepth(buf []byte, span Span, depth, depthLimit int) Message {
	sub := span.Slice(buf)
	hSpan, bSpan, _ := locateHeaderBlock(sub)
	absHeader := Span{span.Start + hSpan.Start, span.Start + hSpan.End}
	absBody := Span{span.Start + bSpan.Start, span.Start + bSpan.End}

	headerText := normaliseHeaderText(absHeader.Slice(buf))
	h := aggregateFields(parseHeaderFields(headerText))

	child := decomposeBody(buf, absBody, h, depth, depthLimit)
	child.Header = h

	return Message{
		IMF:         h,
		MIMEHeaders: h,
		Child:       child,
		RawHeaders:  absHeader,
		RawBody:     absBody,
	}
}
