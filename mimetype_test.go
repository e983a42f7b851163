// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

import "testing"

func TestParseMIMEType(t *testing.T) {
	m, ok := ParseMIMEType(`multipart/mixed; boundary="abc123"; charset=UTF-8`)
	if !ok {
		t.Fatalf("ParseMIMEType failed")
	}
	if m.Type != "multipart" || m.Subtype != "mixed" {
		t.Errorf("Full() = %q; want multipart/mixed", m.Full())
	}
	if m.Params["boundary"] != "abc123" {
		t.Errorf("boundary = %q; want abc123", m.Params["boundary"])
	}
	if m.Params["charset"] != "UTF-8" {
		t.Errorf("charset = %q; want UTF-8", m.Params["charset"])
	}
}

func TestParseMIMEType_duplicateParamFirstWins(t *testing.T) {
	m, _ := ParseMIMEType(`text/plain; charset=utf-8; charset=iso-8859-1`)
	if m.Params["charset"] != "utf-8" {
		t.Errorf("charset = %q; want first-seen utf-8", m.Params["charset"])
	}
}

func TestParseMIMEType_malformedDefaultsToTextPlain(t *testing.T) {
	m, ok := ParseMIMEType("not a mime type")
	if ok {
		t.Fatalf("ParseMIMEType(garbage) ok = true; want false")
	}
	if m.Full() != "text/plain" || m.Params["charset"] != "us-ascii" {
		t.Errorf("fallback = %+v; want default text/plain; charset=us-ascii", m)
	}
}

func TestParseTransferEncoding(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Encoding
	}{
		{"7bit", Enc7Bit},
		{"BASE64", EncBase64},
		{"Quoted-Printable", EncQuotedPrintable},
		{"x-my-encoding", EncOther},
	} {
		got := ParseTransferEncoding(tc.in)
		if got.Kind != tc.want {
			t.Errorf("ParseTransferEncoding(%q).Kind = %v; want %v", tc.in, got.Kind, tc.want)
		}
	}
}
