// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

import "strings"

// locateHeaderBlock is the component-D header block locator: it finds
// the header/body boundary, the first blank line, searched uniformly
// across all four terminator families spec.md 4.D enumerates ("\r\n\r\n",
// "\n\n", "\r\r", and CRLF mixed with the others). Rather than trying
// each family as a fixed string pattern in sequence, this walks the
// buffer one physical line at a time (itself tolerant of any of \r\n,
// \n, or bare \r as a terminator, generalising the teacher's
// messageReader.readLine/trimCRLF) and reports the first zero-length
// line; that single pass finds the earliest boundary regardless of which
// family produced it, which is a strict generalisation of trying the
// families in priority order.
//
// If no blank line is found, the entire input is headers and the body is
// empty, matching spec.md's fallback.
func locateHeaderBlock(raw []byte) (header, body Span, term string) {
	n := len(raw)
	term = "\n"
	termKnown := false
	i := 0
	for i < n {
		lineStart := i
		j := i
		for j < n && raw[j] != '\n' && raw[j] != '\r' {
			j++
		}
		var termLen int
		if j < n {
			if raw[j] == '\r' && j+1 < n && raw[j+1] == '\n' {
				termLen = 2
				if !termKnown {
					term, termKnown = "\r\n", true
				}
			} else {
				termLen = 1
				if !termKnown {
					if raw[j] == '\r' {
						term = "\r"
					} else {
						term = "\n"
					}
					termKnown = true
				}
			}
		}
		lineEnd := j + termLen
		if j == lineStart {
			// Zero-length line: the header/body boundary.
			return Span{0, lineStart}, Span{lineEnd, n}, term
		}
		if termLen == 0 {
			break // last line of the buffer, unterminated: no boundary
		}
		i = lineEnd
	}
	return Span{0, n}, Span{n, n}, term
}

// unfoldHeaderLines splits a decoded header text view into one logical
// line per field, undoing RFC 5322 2.2.3 folding by removing each line
// terminator that is immediately followed by WSP (the WSP itself is kept,
// which is what naturally yields the single separating space expected
// between folded words — spec.md boundary scenario 3).
func unfoldHeaderLines(text string) []string {
	var lines []string
	var cur strings.Builder
	i := 0
	n := len(text)
	haveCur := false
	flush := func() {
		if haveCur {
			lines = append(lines, cur.String())
			cur.Reset()
			haveCur = false
		}
	}
	for i < n {
		lineStart := i
		j := i
		for j < n && text[j] != '\n' && text[j] != '\r' {
			j++
		}
		termLen := 0
		if j < n {
			if text[j] == '\r' && j+1 < n && text[j+1] == '\n' {
				termLen = 2
			} else {
				termLen = 1
			}
		}
		line := text[lineStart:j]
		isContinuation := len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
		if isContinuation && haveCur {
			cur.WriteString(line)
		} else {
			flush()
			cur.WriteString(line)
			haveCur = true
		}
		i = j + termLen
		if termLen == 0 {
			break
		}
	}
	flush()
	return lines
}
