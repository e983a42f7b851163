// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

import "testing"

func TestParseHeaderLine_knownField(t *testing.T) {
	f := parseHeaderLine("From: Bob <bob@example.com>")
	if f.Kind != FieldFrom {
		t.Fatalf("Kind = %v; want FieldFrom", f.Kind)
	}
	mbs := f.Addresses.Mailboxes()
	if len(mbs) != 1 || mbs[0].Addr != (AddrSpec{"bob", "example.com"}) {
		t.Errorf("Addresses = %+v", f.Addresses)
	}
}

func TestParseHeaderLine_unknownFieldIsOptional(t *testing.T) {
	f := parseHeaderLine("X-Custom-Header: hi there")
	if f.Kind != FieldOptional {
		t.Fatalf("Kind = %v; want FieldOptional", f.Kind)
	}
	if f.Name != "X-Custom-Header" {
		t.Errorf("Name = %q", f.Name)
	}
}

func TestParseHeaderLine_noColonIsRescue(t *testing.T) {
	f := parseHeaderLine("this has no colon in it")
	if f.Kind != FieldRescue {
		t.Fatalf("Kind = %v; want FieldRescue", f.Kind)
	}
	if f.Raw != "this has no colon in it" {
		t.Errorf("Raw = %q", f.Raw)
	}
}

func TestDispatchField_canonicalisesName(t *testing.T) {
	f := dispatchField("subject", "hello")
	if f.Name != "Subject" {
		t.Errorf("Name = %q; want canonicalised Subject", f.Name)
	}
	if f.Text != "hello" {
		t.Errorf("Text = %q", f.Text)
	}
}

func TestDispatchField_contentTypeDefaultOnFailure(t *testing.T) {
	f := dispatchField("content-type", "garbage/ /; ;;")
	if f.Kind != FieldContentType || f.MIME == nil {
		t.Fatalf("dispatchField(content-type) = %+v", f)
	}
}
