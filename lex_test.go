// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

import "testing"

func TestScanner_consumeAtom(t *testing.T) {
	for _, tc := range []struct {
		in         string
		dot        bool
		permissive bool
		want       string
		wantOK     bool
	}{
		{"bob", false, false, "bob", true},
		{"bob.smith@x", true, false, "bob.smith", true},
		{".bob@x", true, false, "", false}, // leading dot rejected when strict
		{".bob@x", true, true, ".bob", true},
		{"", false, false, "", false},
		{"<bad>", true, false, "", false},
	} {
		p := newScanner(tc.in)
		got, ok := p.consumeAtom(tc.dot, tc.permissive)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("consumeAtom(%q, dot=%v, perm=%v) = %q, %v; want %q, %v",
				tc.in, tc.dot, tc.permissive, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestScanner_consumeQuotedString(t *testing.T) {
	for _, tc := range []struct {
		in     string
		want   string
		wantOK bool
	}{
		{`"hello"`, "hello", true},
		{`"he said \"hi\""`, `he said "hi"`, true},
		{`"unterminated`, "", false},
		{`"a b"`, "a b", true},
	} {
		p := newScanner(tc.in)
		got, ok := p.consumeQuotedString()
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("consumeQuotedString(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestScanner_consumeComment(t *testing.T) {
	p := newScanner("(a (nested) comment)rest")
	text, ok := p.consumeComment()
	if !ok || text != "a (nested) comment" {
		t.Errorf("consumeComment() = %q, %v; want %q, true", text, ok, "a (nested) comment")
	}
	if p.s != "rest" {
		t.Errorf("remaining = %q; want %q", p.s, "rest")
	}
}

func TestScanner_consumePhrase(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"John Public", "John Public"},
		{`"Bob Smith"`, "Bob Smith"},
		{"=?utf-8?Q?Caf=C3=A9?=", "Café"},
		{"=?utf-8?Q?Caf=C3=A9?= =?utf-8?Q?_Bar?=", "Café Bar"},
	} {
		p := newScanner(tc.in)
		got, ok := p.consumePhrase()
		if !ok {
			t.Errorf("consumePhrase(%q) failed", tc.in)
			continue
		}
		if got != tc.want {
			t.Errorf("consumePhrase(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestConsumeEncodedWord(t *testing.T) {
	for _, tc := range []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"=?utf-8?B?Q2Fmw6k=?=", "Café", true},
		{"=?utf-8?Q?Caf=C3=A9?=", "Café", true},
		{"not encoded", "", false},
		{"=?iso-8859-1?Q?caf=E9?=", "café", true},
	} {
		p := newScanner(tc.in)
		got, ok := p.consumeEncodedWord()
		if ok != tc.wantOK {
			t.Errorf("consumeEncodedWord(%q) ok = %v; want %v", tc.in, ok, tc.wantOK)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("consumeEncodedWord(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
