// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

import (
	"reflect"
	"testing"
)

func TestParseMailbox(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want MailboxRef
	}{
		{"bob@example.com", MailboxRef{Addr: AddrSpec{"bob", "example.com"}}},
		{"Bob Smith <bob@example.com>", MailboxRef{Name: "Bob Smith", Addr: AddrSpec{"bob", "example.com"}}},
		{`"Smith, Bob" <bob@example.com>`, MailboxRef{Name: "Smith, Bob", Addr: AddrSpec{"bob", "example.com"}}},
		{"<bob@example.com>", MailboxRef{Addr: AddrSpec{"bob", "example.com"}}},
		{"not an address at all", MailboxRef{Name: "not an address at all", Addr: unknownAddrSpec}},
		{"", MailboxRef{Addr: unknownAddrSpec}},
	} {
		got := ParseMailbox(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseMailbox(%q) = %+v; want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseAddressList(t *testing.T) {
	list := ParseAddressList("alice@example.com, Bob <bob@example.com>")
	mbs := list.Mailboxes()
	if len(mbs) != 2 {
		t.Fatalf("ParseAddressList got %d mailboxes; want 2", len(mbs))
	}
	if mbs[0].Addr != (AddrSpec{"alice", "example.com"}) {
		t.Errorf("first mailbox = %+v", mbs[0])
	}
	if mbs[1].Name != "Bob" || mbs[1].Addr != (AddrSpec{"bob", "example.com"}) {
		t.Errorf("second mailbox = %+v", mbs[1])
	}
}

func TestParseAddressList_group(t *testing.T) {
	list := ParseAddressList("undisclosed-recipients:;")
	if len(list) != 1 || list[0].Group == nil {
		t.Fatalf("ParseAddressList(group) = %+v; want one Group entry", list)
	}
	if list[0].Group.Name != "undisclosed-recipients" {
		t.Errorf("group name = %q", list[0].Group.Name)
	}
	if len(list[0].Group.Mailboxes) != 0 {
		t.Errorf("empty group has %d members", len(list[0].Group.Mailboxes))
	}
}

func TestParseAddressList_groupWithMembers(t *testing.T) {
	list := ParseAddressList("A Team: alice@example.com, bob@example.com;")
	if len(list) != 1 || list[0].Group == nil {
		t.Fatalf("ParseAddressList(group) = %+v; want one Group entry", list)
	}
	if got := len(list[0].Group.Mailboxes); got != 2 {
		t.Errorf("group has %d members; want 2", got)
	}
}

func TestParseAddressList_malformedItemRecovers(t *testing.T) {
	// A stray comma and an unparseable item must not sink the rest of the
	// list (spec.md 4.B).
	list := ParseAddressList("alice@example.com,, bob@example.com")
	mbs := list.Mailboxes()
	if len(mbs) < 2 {
		t.Fatalf("ParseAddressList recovered only %d mailboxes; want at least 2", len(mbs))
	}
}

func TestParseMessageID(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want MessageId
	}{
		{"<abc@example.com>", MessageId{"abc", "example.com"}},
		{"<abc.def@example.com>", MessageId{"abc.def", "example.com"}},
		{"not-a-msgid", MessageId{"not-a-msgid", "unknown"}},
	} {
		got := ParseMessageID(tc.in)
		if got != tc.want {
			t.Errorf("ParseMessageID(%q) = %+v; want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseMessageIDList(t *testing.T) {
	got := ParseMessageIDList("<a@example.com> <b@example.com>")
	want := []MessageId{{"a", "example.com"}, {"b", "example.com"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseMessageIDList() = %+v; want %+v", got, want)
	}
}

func TestParseAddrSpec_domainLiteral(t *testing.T) {
	mb := ParseMailbox("bob@[192.0.2.1]")
	if mb.Addr.Domain != "[192.0.2.1]" {
		t.Errorf("domain = %q; want %q", mb.Addr.Domain, "[192.0.2.1]")
	}
}

func TestParseMailbox_obsRoute(t *testing.T) {
	// obs-route is accepted and discarded (spec.md 4.B).
	mb := ParseMailbox("Bob <@a.example,@b.example:bob@example.com>")
	if mb.Addr != (AddrSpec{"bob", "example.com"}) {
		t.Errorf("ParseMailbox(obs-route) = %+v", mb)
	}
}
