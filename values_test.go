// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

import "testing"

func TestParseUnstructured_collapsesWhitespace(t *testing.T) {
	for _, tc := range []struct {
		in, want string
	}{
		{"a\tb", "a b"},
		{"a   b", "a b"},
		{"a \t \t b", "a b"},
		{"hello world", "hello world"},
	} {
		if got := ParseUnstructured(tc.in); got != tc.want {
			t.Errorf("ParseUnstructured(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseUnstructured_encodedWord(t *testing.T) {
	got := ParseUnstructured("=?utf-8?Q?Caf=C3=A9?=")
	if got != "Café" {
		t.Errorf("ParseUnstructured(encoded word) = %q; want %q", got, "Café")
	}
}

func TestParseUnstructured_adjacentEncodedWordsJoinWithoutSpace(t *testing.T) {
	got := ParseUnstructured("=?utf-8?Q?foo?= =?utf-8?Q?bar?=")
	if got != "foobar" {
		t.Errorf("ParseUnstructured(adjacent encoded words) = %q; want %q", got, "foobar")
	}
}

func TestParseKeywords(t *testing.T) {
	got := ParseKeywords("one,  two ,\tthree")
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("ParseKeywords = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseKeywords[%d] = %q; want %q", i, got[i], want[i])
		}
	}
}
