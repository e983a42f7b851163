// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

import "strings"

// ParseMIMEType parses a Content-Type-style value: "type/subtype
// ;param=value ;param=\"value\"" (spec.md 4.B). Type and subtype are
// lowercased for comparison; params preserves first-seen value on
// duplicate keys and lowercases keys, per spec.md 3 (MIMEType). On
// failure to even find a type/subtype pair, the default text/plain;
// charset=us-ascii (RFC 2045 5.2) is returned with ok=false so callers
// can distinguish "declared but garbled" from "not declared".
func ParseMIMEType(s string) (MIMEType, bool) {
	raw := s
	p := newScanner(s)
	p.skipCFWS()
	typ, ok := p.consumeToken()
	if !ok {
		d := defaultMIMEType()
		d.Raw = raw
		return d, false
	}
	p.skipCFWS()
	if !p.consume('/') {
		d := defaultMIMEType()
		d.Raw = raw
		return d, false
	}
	p.skipCFWS()
	subtype, ok := p.consumeToken()
	if !ok {
		d := defaultMIMEType()
		d.Raw = raw
		return d, false
	}

	m := MIMEType{
		Type:    strings.ToLower(typ),
		Subtype: strings.ToLower(subtype),
		Params:  map[string]string{},
		Raw:     raw,
	}
	p.parseParams(m.Params)
	return m, true
}

// consumeToken consumes an RFC 2045 "token": one or more characters
// excluding SP, CTLs, and tspecials.
func (p *scanner) consumeToken() (string, bool) {
	i := 0
	for i < len(p.s) && isTokenChar(p.s[i]) {
		i++
	}
	if i == 0 {
		return "", false
	}
	tok := p.s[:i]
	p.s = p.s[i:]
	return tok, true
}

func isTokenChar(c byte) bool {
	if c <= 32 || c >= 127 {
		return false
	}
	switch c {
	case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"', '/', '[', ']', '?', '=':
		return false
	}
	return true
}

// parseParams consumes a sequence of ";attribute=value" pairs, as found
// trailing a Content-Type or Content-Disposition value, writing them into
// dst (first occurrence of a key wins, matching spec.md 3's MIMEType
// invariant).
func (p *scanner) parseParams(dst map[string]string) {
	for {
		p.skipCFWS()
		if !p.consume(';') {
			return
		}
		p.skipCFWS()
		key, ok := p.consumeToken()
		if !ok {
			return // trailing ";" with nothing after it; stop rather than loop forever
		}
		key = strings.ToLower(key)
		p.skipCFWS()
		if !p.consume('=') {
			// Bare attribute with no value; record it as present but empty.
			if _, exists := dst[key]; !exists {
				dst[key] = ""
			}
			continue
		}
		p.skipCFWS()
		var val string
		if p.peek() == '"' {
			val, ok = p.consumeQuotedString()
			if !ok {
				return
			}
		} else {
			val, ok = p.consumeToken()
			if !ok {
				return
			}
		}
		if _, exists := dst[key]; !exists {
			dst[key] = val
		}
	}
}

// ParseTransferEncoding matches a Content-Transfer-Encoding value
// case-insensitively against the RFC 2045 enumeration, falling back to
// EncOther with the original spelling retained (spec.md 4.B).
func ParseTransferEncoding(s string) EncodingValue {
	trimmed := strings.TrimSpace(s)
	switch strings.ToLower(trimmed) {
	case "7bit":
		return EncodingValue{Kind: Enc7Bit, Text: trimmed}
	case "8bit":
		return EncodingValue{Kind: Enc8Bit, Text: trimmed}
	case "binary":
		return EncodingValue{Kind: EncBinary, Text: trimmed}
	case "quoted-printable":
		return EncodingValue{Kind: EncQuotedPrintable, Text: trimmed}
	case "base64":
		return EncodingValue{Kind: EncBase64, Text: trimmed}
	default:
		return EncodingValue{Kind: EncOther, Text: trimmed}
	}
}
