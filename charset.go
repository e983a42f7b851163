// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

import (
	"encoding/base64"
	"io"
	"mime/quotedprintable"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// decodeWith runs enc's decoder over raw via golang.org/x/text/transform,
// the same chaining mechanism the teacher composes decode transforms
// with (message.go's headerTransformChain), returning ("", false) rather
// than propagating an error — every caller here is already inside a
// fallback cascade that is total by construction.
func decodeWith(enc encoding.Encoding, raw []byte) (string, bool) {
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// lookupCharset resolves an IANA/MIME charset label to an encoding,
// generalising the teacher's decodeHeaderValue CharsetReader (which only
// special-cased windows-1252) to every label golang.org/x/text knows
// about, falling back to charmap.ISO8859_1 (total over any byte
// sequence, per spec.md 4.E) when the label is unrecognised.
func lookupCharset(label string) encoding.Encoding {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil // caller should treat as us-ascii/utf-8, no transcoding needed
	}
	if strings.EqualFold(label, "us-ascii") || strings.EqualFold(label, "ascii") || strings.EqualFold(label, "utf-8") {
		return nil
	}
	if enc, err := ianaindex.MIME.Encoding(label); err == nil && enc != nil {
		return enc
	}
	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return enc
	}
	switch strings.ToLower(label) {
	case "windows-1252", "cp1252":
		return charmap.Windows1252
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1
	}
	return charmap.ISO8859_1 // total fallback, per spec.md 4.E
}

// decodeBytes decodes raw bytes declared to be in the named charset into a
// Go string, falling back through utf-8 detection then latin-1 (total
// over any input), matching the charset normaliser's cascade in 4.E.
func decodeBytes(raw []byte, declaredCharset string) string {
	if declaredCharset != "" {
		if enc := lookupCharset(declaredCharset); enc != nil {
			if out, ok := decodeWith(enc, raw); ok {
				return out
			}
		} else if utf8.Valid(raw) {
			return string(raw)
		}
	}
	return detectAndDecode(raw)
}

// detectAndDecode is used when no charset was declared (or the declared
// one failed): it sniffs the buffer via golang.org/x/net/html/charset's
// heuristics (the same library wired for whole-header-block detection in
// normaliseHeaderText) and falls back to latin-1, which never fails.
func detectAndDecode(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	if enc, _, ok := charset.DetermineEncoding(raw, ""); ok && enc != nil {
		if out, ok := decodeWith(enc, raw); ok && utf8.ValidString(out) {
			return out
		}
	}
	out, _ := decodeWith(charmap.ISO8859_1, raw)
	return out
}

// normaliseHeaderText is the component-E charset normaliser: it produces a
// text view over the header block bytes. ASCII-only input is returned
// as-is (the common case, no transcoding). Non-ASCII input is decoded as
// UTF-8 if valid, otherwise sniffed via golang.org/x/net/html/charset and,
// failing that, treated as latin-1 (total over any byte sequence).
func normaliseHeaderText(raw []byte) string {
	if isASCII(raw) {
		return string(raw)
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	if enc, _, ok := charset.DetermineEncoding(raw, ""); ok && enc != nil {
		if out, ok := decodeWith(enc, raw); ok {
			return out
		}
	}
	out, _ := decodeWith(charmap.ISO8859_1, raw)
	return out
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// decodeEncodedWordPayload decodes the payload of an RFC 2047 encoded
// word given its charset label and encoding letter ('Q'/'q' or 'B'/'b').
func decodeEncodedWordPayload(charsetLabel string, enc byte, payload string) (string, bool) {
	var raw []byte
	switch enc {
	case 'Q', 'q':
		raw = decodeQEncoding(payload)
	case 'B', 'b':
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// Be permissive about missing padding, which shows up often
			// in the wild.
			decoded, err = base64.RawStdEncoding.DecodeString(payload)
			if err != nil {
				return "", false
			}
		}
		raw = decoded
	default:
		return "", false
	}
	return decodeBytes(raw, charsetLabel), true
}

// decodeQEncoding decodes RFC 2047 "Q" encoding, which is quoted-printable
// with '_' standing in for a space.
func decodeQEncoding(s string) []byte {
	// "=20" rather than a literal space: the quoted-printable reader trims
	// trailing whitespace, which would drop a trailing '_'.
	qp := strings.ReplaceAll(s, "_", "=20")
	out, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(qp)))
	if err != nil && len(out) == 0 {
		return []byte(strings.ReplaceAll(s, "_", " "))
	}
	return out
}
