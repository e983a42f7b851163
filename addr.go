// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

import "strings"

// ParseAddressList parses a comma-separated list of RFC 5322 addresses
// (From, To, Cc, Bcc, Reply-To, Sender bodies). It never fails: empty
// items are tolerated, leading/trailing commas are ignored, and any item
// that cannot be parsed is replaced by the unknown@unknown mailbox
// sentinel rather than aborting the whole list (spec.md 4.B).
func ParseAddressList(s string) AddressList {
	p := newScanner(s)
	var list AddressList
	for {
		p.skipWSP()
		p.skipCFWS()
		if p.empty() {
			break
		}
		if p.consume(',') {
			// Empty item (leading or doubled comma).
			continue
		}
		addrs, ok := p.parseAddress(true)
		if !ok {
			// Could not recover even a sentinel from this position
			// (e.g. a stray colon); skip one token and keep going so a
			// single bad item never sinks the rest of the list.
			if !p.consume(',') && !p.empty() {
				p.s = p.s[1:]
			}
			continue
		}
		list = append(list, addrs...)
		p.skipCFWS()
		if p.empty() {
			break
		}
		if !p.consume(',') {
			// No separator where we expected one; resynchronise by
			// skipping a character rather than losing the rest of the
			// header to a single typo.
			p.s = p.s[1:]
		}
	}
	return list
}

// ParseMailbox parses a single RFC 5322 mailbox (name-addr or addr-spec).
// On total failure it returns the unknown@unknown sentinel, never an
// error, per spec.md 4.B.
func ParseMailbox(s string) MailboxRef {
	p := newScanner(s)
	p.skipCFWS()
	if addrs, ok := p.parseAddress(false); ok && len(addrs) > 0 && addrs[0].Mailbox != nil {
		return *addrs[0].Mailbox
	}
	return MailboxRef{Addr: unknownAddrSpec}
}

// parseAddress parses one "address = mailbox / group" at the scanner's
// current position. handleGroup controls whether a "display-name:
// group-list ;" form is recognised (groups don't nest, so recursive
// calls pass false).
func (p *scanner) parseAddress(handleGroup bool) ([]Address, bool) {
	p.skipWSP()
	if p.empty() {
		return nil, false
	}

	// addr-spec has a narrower grammar than name-addr, so try it first
	// and fall back, mirroring the reference address parser this is
	// grounded on.
	if save := p.s; true {
		if spec, ok := p.consumeAddrSpec(); ok {
			var comments []string
			p.skipWSP()
			if p.peek() == '(' {
				if c, ok := p.consumeComment(); ok {
					comments = append(comments, c)
				}
			}
			return []Address{{Mailbox: &MailboxRef{Addr: spec, Comments: comments}}}, true
		}
		p.s = save
	}

	var name string
	if p.peek() != '<' {
		var ok bool
		name, ok = p.consumePhrase()
		if !ok {
			name = ""
		}
	}
	p.skipWSP()

	if handleGroup && p.consume(':') {
		members, _ := p.consumeGroupList()
		return []Address{{Group: &GroupRef{Name: name, Mailboxes: members}}}, true
	}

	// obs-route: an optional "@a,@b:" prefix inside the angle brackets,
	// accepted and discarded (spec.md 4.B).
	if !p.consume('<') {
		if name == "" {
			return nil, false
		}
		// A bare phrase with no angle-addr or addr-spec at all: not a
		// valid mailbox, recover the sentinel rather than failing.
		return []Address{{Mailbox: &MailboxRef{Name: name, Addr: unknownAddrSpec}}}, true
	}
	p.skipObsRoute()
	spec, ok := p.consumeAddrSpec()
	if !ok {
		spec = unknownAddrSpec
	}
	p.consume('>')
	return []Address{{Mailbox: &MailboxRef{Name: name, Addr: spec}}}, true
}

// skipObsRoute consumes an obsolete "@domain,@domain:" route prefix if
// present, discarding it (spec.md 4.B: "accepted and discarded").
func (p *scanner) skipObsRoute() {
	save := p.s
	for p.consume('@') {
		if _, ok := p.consumeAtom(true, false); !ok {
			if _, ok := p.consumeDomainLiteral(); !ok {
				p.s = save
				return
			}
		}
		p.skipWSP()
		if p.consume(',') {
			p.skipWSP()
			continue
		}
		if p.consume(':') {
			return
		}
		p.s = save
		return
	}
}

func (p *scanner) consumeGroupList() ([]MailboxRef, bool) {
	var group []MailboxRef
	p.skipWSP()
	if p.consume(';') {
		p.skipCFWS()
		return group, true
	}
	for {
		p.skipWSP()
		addrs, ok := p.parseAddress(false)
		if !ok {
			// Resynchronise on a malformed group member rather than
			// dropping the rest of the group.
			if !p.empty() {
				p.s = p.s[1:]
			}
			if p.empty() {
				break
			}
			continue
		}
		for _, a := range addrs {
			if a.Mailbox != nil {
				group = append(group, *a.Mailbox)
			} else if a.Group != nil {
				group = append(group, a.Group.Mailboxes...)
			}
		}
		p.skipCFWS()
		if p.consume(';') {
			p.skipCFWS()
			break
		}
		if !p.consume(',') {
			if p.empty() {
				break
			}
			p.s = p.s[1:]
		}
	}
	return group, true
}

// consumeAddrSpec consumes "local-part @ domain".
func (p *scanner) consumeAddrSpec() (AddrSpec, bool) {
	save := p.s
	p.skipWSP()
	if p.empty() {
		p.s = save
		return AddrSpec{}, false
	}
	var local string
	var ok bool
	if p.peek() == '"' {
		local, ok = p.consumeQuotedString()
	} else {
		local, ok = p.consumeAtom(true, false)
	}
	if !ok || local == "" {
		p.s = save
		return AddrSpec{}, false
	}
	if !p.consume('@') {
		p.s = save
		return AddrSpec{}, false
	}
	p.skipWSP()
	var domain string
	if p.peek() == '[' {
		domain, ok = p.consumeDomainLiteral()
	} else {
		domain, ok = p.consumeAtom(true, false)
	}
	if !ok || domain == "" {
		p.s = save
		return AddrSpec{}, false
	}
	return AddrSpec{Local: local, Domain: domain}, true
}

// ParseMessageIDList parses a whitespace-separated sequence of "<id>"
// tokens (In-Reply-To, References). Unparseable tokens are skipped
// rather than aborting the list, per spec.md 4.B.
func ParseMessageIDList(s string) []MessageId {
	p := newScanner(s)
	var ids []MessageId
	for {
		p.skipCFWS()
		if p.empty() {
			break
		}
		if !p.consume('<') {
			// Not a msg-id token; skip to the next whitespace run so one
			// bad token doesn't eat the whole remaining list.
			if i := strings.IndexAny(p.s, " \t"); i >= 0 {
				p.s = p.s[i:]
			} else {
				p.s = ""
			}
			continue
		}
		id, ok := p.consumeMessageIDBody()
		if ok {
			ids = append(ids, id)
		}
		p.consume('>')
	}
	return ids
}

// ParseMessageID parses a single "<id-left@id-right>" (Message-ID,
// Content-ID). On failure id-right defaults to "unknown" per spec.md 3.
func ParseMessageID(s string) MessageId {
	p := newScanner(s)
	p.skipCFWS()
	if !p.consume('<') {
		return MessageId{Left: strings.TrimSpace(s), Right: "unknown"}
	}
	id, ok := p.consumeMessageIDBody()
	if !ok {
		return MessageId{Left: strings.TrimSpace(s), Right: "unknown"}
	}
	return id
}

func (p *scanner) consumeMessageIDBody() (MessageId, bool) {
	left, ok := p.consumeAtom(true, true)
	if !ok {
		// Permit a quoted-string or other odd local part seen in the
		// wild (obs-id-left is effectively local-part).
		if p.peek() == '"' {
			left, ok = p.consumeQuotedString()
		}
	}
	if !p.consume('@') {
		if ok {
			return MessageId{Left: left, Right: "unknown"}, true
		}
		return MessageId{}, false
	}
	right, ok2 := p.consumeAtom(true, true)
	if !ok2 {
		if p.peek() == '[' {
			right, ok2 = p.consumeDomainLiteral()
		}
	}
	if !ok2 {
		right = "unknown"
	}
	return MessageId{Left: left, Right: right}, true
}
