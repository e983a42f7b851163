// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

import (
	"reflect"
	"testing"
)

func TestLocateHeaderBlock(t *testing.T) {
	for _, tc := range []struct {
		name       string
		in         string
		wantHeader string
		wantBody   string
	}{
		{"crlf", "A: 1\r\nB: 2\r\n\r\nbody", "A: 1\r\nB: 2\r\n", "body"},
		{"lf", "A: 1\nB: 2\n\nbody", "A: 1\nB: 2\n", "body"},
		{"cr", "A: 1\rB: 2\r\rbody", "A: 1\rB: 2\r", "body"},
		{"no blank line", "A: 1\nB: 2\n", "A: 1\nB: 2\n", ""},
		{"empty", "", "", ""},
	} {
		h, b, _ := locateHeaderBlock([]byte(tc.in))
		if got := string(h.Slice([]byte(tc.in))); got != tc.wantHeader {
			t.Errorf("%s: header = %q; want %q", tc.name, got, tc.wantHeader)
		}
		if got := string(b.Slice([]byte(tc.in))); got != tc.wantBody {
			t.Errorf("%s: body = %q; want %q", tc.name, got, tc.wantBody)
		}
	}
}

func TestUnfoldHeaderLines(t *testing.T) {
	got := unfoldHeaderLines("Subject: hello\r\n world\r\nFrom: a@example.com\r\n")
	want := []string{"Subject: hello world", "From: a@example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unfoldHeaderLines() = %q; want %q", got, want)
	}
}

func TestUnfoldHeaderLines_multipleContinuations(t *testing.T) {
	got := unfoldHeaderLines("A: 1\n\t2\n\t3\n")
	want := []string{"A: 1\t2\t3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unfoldHeaderLines() = %q; want %q", got, want)
	}
}
