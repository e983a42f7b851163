// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

import (
	"strings"
	"unicode/utf8"
)

// scanner is a cursor over a decoded header-field value. Its methods are
// the lexical primitives of RFC 5322/2047: each one recognises a prefix
// of s and advances past it, or reports failure and leaves s untouched.
// None of them ever panic; every production is total.
//
// By the time a scanner sees a field value, the header locator (locate.go)
// and section aggregator (section.go) have already unfolded CRLF-based
// line continuations into plain runs of whitespace, so FWS/CFWS here only
// need to deal with in-line whitespace and parenthesised comments, not
// raw CRLFs.
type scanner struct {
	s string
}

func newScanner(s string) *scanner { return &scanner{s: s} }

func (p *scanner) empty() bool { return len(p.s) == 0 }

func (p *scanner) peek() byte {
	if p.empty() {
		return 0
	}
	return p.s[0]
}

func (p *scanner) consume(c byte) bool {
	if p.empty() || p.s[0] != c {
		return false
	}
	p.s = p.s[1:]
	return true
}

func (p *scanner) consumeString(lit string) bool {
	if !strings.HasPrefix(p.s, lit) {
		return false
	}
	p.s = p.s[len(lit):]
	return true
}

// skipWSP consumes zero or more spaces/tabs.
func (p *scanner) skipWSP() {
	i := 0
	for i < len(p.s) && (p.s[i] == ' ' || p.s[i] == '\t') {
		i++
	}
	p.s = p.s[i:]
}

// skipCFWS consumes alternating whitespace and balanced, possibly nested
// comments. It reports false only if a comment is opened but never
// closed, matching RFC 5322's strictness about balanced parens while
// remaining permissive about everything comments contain. Comment bodies
// are returned via comments for callers that want to retain them; every
// current caller discards them.
func (p *scanner) skipCFWS() (comments []string, ok bool) {
	p.skipWSP()
	for p.peek() == '(' {
		c, ok2 := p.consumeComment()
		if !ok2 {
			return comments, false
		}
		if c != "" {
			comments = append(comments, c)
		}
		p.skipWSP()
	}
	return comments, true
}

// consumeComment consumes a "(" ... ")" comment, already positioned at
// the opening paren. Backslash escapes any character; nested comments are
// tracked by depth. The returned text has escapes resolved but encoded
// words left undecoded (callers decode if they care).
func (p *scanner) consumeComment() (text string, ok bool) {
	save := p.s
	if !p.consume('(') {
		return "", false
	}
	depth := 1
	var b strings.Builder
	for {
		if p.empty() {
			p.s = save
			return "", false // unterminated
		}
		c := p.s[0]
		switch {
		case c == '\\' && len(p.s) > 1:
			b.WriteByte(p.s[1])
			p.s = p.s[2:]
			continue
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				p.s = p.s[1:]
				return b.String(), true
			}
		}
		if depth > 0 {
			b.WriteByte(c)
		}
		p.s = p.s[1:]
	}
}

// isAtext reports whether r is RFC 5322 atext. If dot, '.' is also
// accepted (used for dot-atom). If permissive, most of the "specials"
// that a strict grammar forbids are accepted too, matching real-world
// mail in the wild (mirrors the teacher's reference address parser).
func isAtext(r rune, dot, permissive bool) bool {
	switch r {
	case '.':
		return dot
	case '(', ')', '[', ']', ';', '\\', ',':
		return permissive
	case '<', '>', '"', ':', '@':
		return false
	}
	return isVchar(r)
}

func isVchar(r rune) bool {
	return ('!' <= r && r <= '~') || r >= utf8.RuneSelf
}

func isQtext(r rune) bool {
	if r == '\\' || r == '"' {
		return false
	}
	return isVchar(r)
}

// consumeAtom consumes an atom (or, if dot, a dot-atom). permissive
// widens the accepted character set and tolerates leading/trailing/
// doubled dots instead of rejecting them.
func (p *scanner) consumeAtom(dot, permissive bool) (atom string, ok bool) {
	i := 0
	for i < len(p.s) {
		r, size := utf8.DecodeRuneInString(p.s[i:])
		if size == 1 && r == utf8.RuneError || !isAtext(r, dot, permissive) {
			break
		}
		i += size
	}
	if i == 0 {
		return "", false
	}
	atom = p.s[:i]
	if !permissive {
		if strings.HasPrefix(atom, ".") || strings.HasSuffix(atom, ".") || strings.Contains(atom, "..") {
			return "", false
		}
	}
	p.s = p.s[i:]
	return atom, true
}

// consumeQuotedString consumes a "..." quoted-string, already positioned
// at the opening quote, resolving \c escapes. FWS inside is preserved
// verbatim (callers needing unfolded text should collapse it themselves).
func (p *scanner) consumeQuotedString() (text string, ok bool) {
	save := p.s
	if !p.consume('"') {
		return "", false
	}
	var b strings.Builder
	for {
		if p.empty() {
			p.s = save
			return "", false // unterminated
		}
		r, size := utf8.DecodeRuneInString(p.s)
		switch {
		case size == 1 && r == utf8.RuneError:
			p.s = save
			return "", false
		case r == '"':
			p.s = p.s[1:]
			return b.String(), true
		case r == '\\' && len(p.s) > 1:
			r2, size2 := utf8.DecodeRuneInString(p.s[1:])
			b.WriteRune(r2)
			p.s = p.s[1+size2:]
		case isQtext(r) || r == ' ' || r == '\t':
			b.WriteRune(r)
			p.s = p.s[size:]
		default:
			p.s = save
			return "", false
		}
	}
}

// consumeDomainLiteral consumes a "[" ... "]" domain-literal, e.g.
// "[192.0.2.1]", returning the text including the brackets.
func (p *scanner) consumeDomainLiteral() (lit string, ok bool) {
	save := p.s
	if !p.consume('[') {
		return "", false
	}
	var b strings.Builder
	b.WriteByte('[')
	for {
		if p.empty() {
			p.s = save
			return "", false
		}
		c := p.s[0]
		switch {
		case c == ']':
			b.WriteByte(']')
			p.s = p.s[1:]
			return b.String(), true
		case c == '\\' && len(p.s) > 1:
			b.WriteByte(p.s[1])
			p.s = p.s[2:]
		case c == ' ' || c == '\t':
			b.WriteByte(c)
			p.s = p.s[1:]
		case c < 33 || c > 126 || c == '[':
			p.s = save
			return "", false
		default:
			b.WriteByte(c)
			p.s = p.s[1:]
		}
	}
}

// consumeEncodedWord recognises an RFC 2047 "=?charset?enc?payload?=" token
// and returns it decoded to text. It does not itself skip surrounding
// whitespace; callers handle adjacency rules (consecutive encoded words
// separated only by FWS are joined without an inserted space, per RFC 2047
// section 6.2).
func (p *scanner) consumeEncodedWord() (text string, ok bool) {
	if !strings.HasPrefix(p.s, "=?") {
		return "", false
	}
	rest := p.s[2:]
	i1 := strings.IndexByte(rest, '?')
	if i1 < 0 {
		return "", false
	}
	charset := rest[:i1]
	rest = rest[i1+1:]
	if len(rest) < 2 || rest[1] != '?' {
		return "", false
	}
	enc := rest[0]
	rest = rest[2:]
	end := strings.Index(rest, "?=")
	if end < 0 {
		return "", false
	}
	payload := rest[:end]
	decoded, ok := decodeEncodedWordPayload(charset, enc, payload)
	if !ok {
		return "", false
	}
	p.s = rest[end+2:]
	return decoded, true
}

// consumePhrase consumes the RFC 5322 "phrase = 1*word" production,
// word = atom / quoted-string, additionally recognising RFC 2047 encoded
// words in place of an atom (the common extension every real mail client
// relies on for non-ASCII display names and Subject lines). Consecutive
// encoded words are joined without an inserted space (RFC 2047 6.2);
// everything else is joined with a single space, which is also how
// folding whitespace between words collapses per spec.md 4.A.
func (p *scanner) consumePhrase() (text string, ok bool) {
	var words []string
	prevEncoded := false
	for {
		save := p.s
		p.skipWSP()
		if p.empty() {
			p.s = save
			break
		}
		var word string
		var encoded bool
		var wordOK bool
		if p.peek() == '"' {
			word, wordOK = p.consumeQuotedString()
		} else if w, ok2 := p.consumeEncodedWord(); ok2 {
			word, wordOK, encoded = w, true, true
		} else {
			word, wordOK = p.consumeAtom(true, true)
		}
		if !wordOK {
			p.s = save
			break
		}
		if prevEncoded && encoded {
			words[len(words)-1] += word
		} else {
			words = append(words, word)
		}
		prevEncoded = encoded
	}
	if len(words) == 0 {
		return "", false
	}
	return strings.Join(words, " "), true
}
