// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// textTransformChain normalises decoded phrase/unstructured text to NFC and
// strips stray control characters (C0 and C1, per unicode.IsControl) that
// sometimes survive a bad encoded-word decode, generalising the teacher's
// headerTransformChain (message.go) from "strip to 7-bit ASCII" (NFD, drop
// nonspacing marks, NFC, drop non-printables) to something lossless: this
// chain never removes a diacritic, only genuinely non-printable control
// bytes. It runs after collapseFWS, which has already turned every tab,
// whether from header whitespace or from decoded encoded-word content,
// into a space.
var textTransformChain = transform.Chain(
	norm.NFC,
	runes.Remove(runes.Predicate(unicode.IsControl)),
)

// ParseUnstructured decodes a field with no internal structure (Subject,
// Comments): the header locator only splices folded continuation lines
// back together (locate.go's unfoldHeaderLines), it does not collapse the
// WSP run at the fold point, so this is where spec.md 4.A's "FWS ...
// collapses to a single space in contexts that demand it" and spec.md
// 4.B's "Folding whitespace is unfolded into single spaces" are actually
// honoured: every run of spaces/tabs becomes exactly one space. What
// remains after that is decoding any RFC 2047 encoded words embedded in
// the text and normalising the result to NFC, the way the teacher's
// headerTransformChain normalises decoded Subject text (message.go) —
// generalised from "strip to 7-bit ASCII" (which would destroy
// information this AST must retain) to "canonically compose", which is
// lossless.
func ParseUnstructured(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		if strings.HasPrefix(s[i:], "=?") {
			p := newScanner(s[i:])
			if word, ok := p.consumeEncodedWord(); ok {
				b.WriteString(word)
				consumed := len(s[i:]) - len(p.s)
				i += consumed
				// Swallow a single run of FWS that separated this
				// encoded word from an immediately following one, per
				// RFC 2047 6.2, so adjacent encoded words aren't split
				// by a spurious space.
				j := i
				for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
					j++
				}
				if j < len(s) && strings.HasPrefix(s[j:], "=?") {
					i = j
				}
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	out, _, err := transform.String(textTransformChain, collapseFWS(b.String()))
	if err != nil {
		return collapseFWS(b.String())
	}
	return out
}

// collapseFWS replaces every maximal run of space/tab with a single space,
// which is what FWS/CFWS "collapses to a single space" (spec.md 4.A) means
// for a field materialised as plain text: a fold point, or even several
// literal WSP bytes in a row, carries no meaning beyond "there is a word
// boundary here".
func collapseFWS(s string) string {
	var b strings.Builder
	inWSP := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' {
			if !inWSP {
				b.WriteByte(' ')
				inWSP = true
			}
			continue
		}
		inWSP = false
		b.WriteByte(c)
	}
	return b.String()
}

// ParsePhrase parses a single RFC 5322 phrase (a run of atoms,
// quoted-strings, and RFC 2047 encoded words), as found in a mailbox's
// display name, joining its words the same way consumePhrase does
// internally. On failure (no word recognised at all) it returns "", false
// rather than a sentinel, since a phrase has no natural fallback text of
// its own — callers composing this parser (spec.md 6) decide what an
// absent display name means for their use case.
func ParsePhrase(s string) (string, bool) {
	p := newScanner(s)
	p.skipCFWS()
	return p.consumePhrase()
}

// ParseEncodedWord decodes a single RFC 2047 "=?charset?enc?payload?="
// token, exposed for downstream composition per spec.md 6. It does not
// accept surrounding whitespace or multiple tokens; ok is false if s is
// not exactly one well-formed encoded word.
func ParseEncodedWord(s string) (string, bool) {
	p := newScanner(s)
	word, ok := p.consumeEncodedWord()
	if !ok || !p.empty() {
		return "", false
	}
	return word, true
}

// ParseKeywords splits a comma-separated Keywords field into its phrases,
// decoding encoded words in each (spec.md: Keywords is an accumulating,
// comma-separated phrase list per RFC 5322 3.6.5).
func ParseKeywords(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, ParseUnstructured(part))
	}
	return out
}
