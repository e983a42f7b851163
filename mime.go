// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

import "strings"

// maxMIMEDepth bounds multipart/message recursion so adversarial input
// (deeply nested multiparts) can never overflow the stack, per spec.md
// 4.G and 5. Beyond this depth the remaining structure is flattened into
// a single raw leaf rather than recursed into further.
const maxMIMEDepth = 20

// decomposeBody is the component-G MIME body decomposer: given the
// header section governing a body and that body's absolute span within
// buf, it returns the Part tree. It generalises the teacher's
// copyMessagePart/copyBody boundary-scanning loop (message.go) from
// "copy verbatim" to "build a typed tree", keeping its preamble/parts/
// close-delimiter/epilogue split and its reliance on a declared boundary
// parameter.
func decomposeBody(buf []byte, bodySpan Span, h HeaderSection, depth, depthLimit int) Part {
	ct := h.ContentType
	if ct == nil {
		d := defaultMIMEType()
		ct = &d
	}
	cte := h.ContentTransferEncoding
	if cte == nil {
		d := ParseTransferEncoding("7bit")
		cte = &d
	}

	if ct.Type == "multipart" && depth < depthLimit {
		boundary := ct.Params["boundary"]
		if boundary != "" {
			return decomposeMultipart(buf, bodySpan, *ct, boundary, depth, depthLimit)
		}
		// RFC 2045 5.1.1 requires "boundary"; without it we can't find
		// part delimiters at all, so degrade to text/plain (spec.md 4.G.2.a).
		degraded := defaultMIMEType()
		return leafPart(buf, bodySpan, degraded, *cte)
	}

	if ct.Type == "message" && ct.Subtype == "rfc822" && depth < depthLimit {
		child := parseMessageWithDepth(buf, bodySpan, depth+1, depthLimit)
		return Part{Kind: PartMessage, MIME: *ct, PartSpan: bodySpan, Child: &child}
	}

	// Depth-bomb recovery, or an ordinary leaf: both resolve to a raw
	// leaf carrying whatever media type was declared (spec.md 4.G.4 and
	// the depth-recovery rule of 4.G/7).
	return leafPart(buf, bodySpan, *ct, *cte)
}

// leafPart builds a non-container Part. text/* gets a best-effort
// decoded text projection using the declared charset (default
// us-ascii); every other type keeps only the raw bytes, per spec.md 4.G.4.
func leafPart(buf []byte, bodySpan Span, ct MIMEType, cte EncodingValue) Part {
	body := bodySpan.Slice(buf)
	p := Part{
		MIME: ct, PartSpan: bodySpan,
		Encoding: cte, Body: body, BodySpan: bodySpan,
	}
	if ct.Type == "text" {
		p.Kind = PartText
		charset := ct.Params["charset"]
		if charset == "" {
			charset = "us-ascii"
		}
		p.Text = decodeBytes(body, charset)
	} else {
		p.Kind = PartBinary
	}
	return p
}

// decomposeMultipart implements spec.md 4.G.2: scan for "--boundary" at
// the start of a line, splitting the body into preamble, parts, close
// delimiter, and epilogue.
func decomposeMultipart(buf []byte, bodySpan Span, ct MIMEType, boundary string, depth, depthLimit int) Part {
	delim := "--" + boundary
	body := bodySpan.Slice(buf)

	marks := findBoundaryLines(body, delim)
	part := Part{Kind: PartMultipart, MIME: ct, Boundary: boundary, PartSpan: bodySpan}

	if len(marks) == 0 {
		// No delimiter found at all: nothing to split on, but still
		// return a (childless) multipart rather than failing, per
		// spec.md 4.G.2.f's "truncated multipart: accept partial".
		part.Preamble = Span{bodySpan.Start, bodySpan.End}
		part.Epilogue = Span{bodySpan.End, bodySpan.End}
		return part
	}

	part.Preamble = Span{bodySpan.Start, bodySpan.Start + marks[0].lineStart}

	for i := 0; i < len(marks); i++ {
		if marks[i].closing {
			// Closing delimiter reached; anything after it is epilogue.
			epStart := bodySpan.Start + marks[i].lineEnd
			part.Epilogue = Span{epStart, bodySpan.End}
			return part
		}
		gapStart := marks[i].lineEnd
		gapEnd := len(body)
		if i+1 < len(marks) {
			gapEnd = marks[i+1].lineStart
		}
		childSpan := Span{bodySpan.Start + gapStart, bodySpan.Start + gapEnd}
		part.Children = append(part.Children, parsePartAt(buf, childSpan, depth+1, depthLimit))
	}

	// Ran out of marks without seeing a closing delimiter: truncated
	// multipart, accept whatever was recovered (spec.md 4.G.2.f).
	last := marks[len(marks)-1]
	part.Epilogue = Span{bodySpan.Start + last.lineEnd, bodySpan.Start + last.lineEnd}
	return part
}

// parsePartAt parses one MIME body part (header + blank line + body)
// found between two boundary delimiters, recursing through D (header
// locator) and F (aggregator) exactly as a top-level message does
// (spec.md 4.G.2.d: "a body part is similar to an RFC 822 message").
func parsePartAt(buf []byte, span Span, depth, depthLimit int) Part {
	sub := span.Slice(buf)
	hSpan, bSpan, _ := locateHeaderBlock(sub)
	absHeader := Span{span.Start + hSpan.Start, span.Start + hSpan.End}
	absBody := Span{span.Start + bSpan.Start, span.Start + bSpan.End}

	headerText := normaliseHeaderText(absHeader.Slice(buf))
	fields := parseHeaderFields(headerText)
	h := aggregateFields(fields)

	p := decomposeBody(buf, absBody, h, depth, depthLimit)
	p.Header = h
	p.PartSpan = span
	return p
}

type boundaryMark struct {
	lineStart, lineEnd int // byte offsets within body, spanning the whole delimiter line including its terminator
	closing            bool
}

// findBoundaryLines scans body for every line whose content starts with
// delim, i.e. preceded by start-of-body, "\r\n", or "\n" (spec.md 4.G.2.b).
func findBoundaryLines(body []byte, delim string) []boundaryMark {
	var marks []boundaryMark
	i := 0
	n := len(body)
	for i <= n {
		lineStart := i
		isLineStart := i == 0 || body[i-1] == '\n'
		j := i
		for j < n && body[j] != '\n' {
			j++
		}
		lineEnd := j
		if j < n {
			lineEnd = j + 1 // include the terminator
		}
		if isLineStart && strings.HasPrefix(string(body[lineStart:minInt(j, n)]), delim) {
			rest := string(body[lineStart+len(delim) : minInt(j, n)])
			closing := strings.HasPrefix(rest, "--")
			marks = append(marks, boundaryMark{lineStart: lineStart, lineEnd: lineEnd, closing: closing})
		}
		if j >= n {
			break
		}
		i = lineEnd
	}
	return marks
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
