// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

import (
	"net/textproto"
	"strings"
)

// fieldParser builds a typed Field from a field's canonicalised name and
// raw (unfolded, still undecoded-of-2047) value. It never fails: every
// branch either produces a fully-typed Field or one with Raw populated
// and Kind's natural fallback, matching spec.md 4.C.
type fieldParser func(name, raw string) Field

// dispatchTable maps a lowercased field name to its parser, generalising
// the teacher's single parseHeaderField split (message.go) from "find the
// colon" into "recognise and interpret every standard header", which is
// the Exhaustivity goal spec.md 4.C calls out.
var dispatchTable = map[string]fieldParser{
	"date": func(name, raw string) Field {
		f := Field{Kind: FieldDate, Name: name, Raw: raw}
		if dt, ok := ParseDateTime(raw); ok {
			f.Date = &dt
		}
		return f
	},
	"from":     addressField(FieldFrom),
	"sender":   addressField(FieldSender),
	"reply-to": addressField(FieldReplyTo),
	"to":       addressField(FieldTo),
	"cc":       addressField(FieldCc),
	"bcc":      addressField(FieldBcc),

	"message-id": func(name, raw string) Field {
		id := ParseMessageID(raw)
		return Field{Kind: FieldMessageID, Name: name, Raw: raw, MessageID: &id}
	},
	"content-id": func(name, raw string) Field {
		id := ParseMessageID(raw)
		return Field{Kind: FieldContentID, Name: name, Raw: raw, MessageID: &id}
	},
	"in-reply-to": func(name, raw string) Field {
		return Field{Kind: FieldInReplyTo, Name: name, Raw: raw, MessageIDs: ParseMessageIDList(raw)}
	},
	"references": func(name, raw string) Field {
		return Field{Kind: FieldReferences, Name: name, Raw: raw, MessageIDs: ParseMessageIDList(raw)}
	},

	"subject": unstructuredField(FieldSubject),
	"comments": unstructuredField(FieldComments),

	"keywords": func(name, raw string) Field {
		return Field{Kind: FieldKeywords, Name: name, Raw: raw, Text: strings.Join(ParseKeywords(raw), ", ")}
	},

	"return-path": func(name, raw string) Field {
		f := Field{Kind: FieldReturnPath, Name: name, Raw: raw}
		trimmed := strings.TrimSpace(raw)
		trimmed = strings.TrimPrefix(trimmed, "<")
		trimmed = strings.TrimSuffix(trimmed, ">")
		if trimmed == "" {
			f.Addresses = AddressList{{Mailbox: &MailboxRef{Addr: unknownAddrSpec}}}
		} else {
			mb := ParseMailbox(trimmed)
			f.Addresses = AddressList{{Mailbox: &mb}}
		}
		return f
	},
	"received": func(name, raw string) Field {
		return Field{Kind: FieldReceived, Name: name, Raw: raw, Text: raw}
	},

	"mime-version": func(name, raw string) Field {
		return Field{Kind: FieldMIMEVersion, Name: name, Raw: raw, Version: strings.TrimSpace(raw)}
	},
	"content-type": func(name, raw string) Field {
		mt, ok := ParseMIMEType(raw)
		f := Field{Kind: FieldContentType, Name: name, Raw: raw, MIME: &mt}
		_ = ok // mt already carries the text/plain default when parsing failed
		return f
	},
	"content-transfer-encoding": func(name, raw string) Field {
		enc := ParseTransferEncoding(raw)
		return Field{Kind: FieldContentTransferEncoding, Name: name, Raw: raw, TransferEnc: &enc}
	},
	"content-description": unstructuredField(FieldContentDescription),
}

func addressField(kind FieldKind) fieldParser {
	return func(name, raw string) Field {
		return Field{Kind: kind, Name: name, Raw: raw, Addresses: ParseAddressList(raw)}
	}
}

func unstructuredField(kind FieldKind) fieldParser {
	return func(name, raw string) Field {
		return Field{Kind: kind, Name: name, Raw: raw, Text: ParseUnstructured(raw)}
	}
}

// dispatchField implements spec.md 4.C's algorithm: look the name up in
// the table, canonicalise the display name the way the teacher does
// (net/textproto.CanonicalMIMEHeaderKey), and fall back to Optional for
// anything unrecognised.
func dispatchField(name, raw string) Field {
	canon := textproto.CanonicalMIMEHeaderKey(name)
	if parser, ok := dispatchTable[strings.ToLower(name)]; ok {
		return parser(canon, raw)
	}
	return Field{Kind: FieldOptional, Name: canon, Raw: raw, Text: raw, OptionalName: canon}
}

// parseHeaderLine splits a single unfolded header line into its
// canonical name and value, mirroring the teacher's parseHeaderField
// (message.go): the first colon separates them, and leading WSP on the
// value is trimmed. Lines with no colon can't be header fields at all;
// they are surfaced as a Rescue field carrying the raw bytes, matching
// spec.md 4.C's "emit Rescue(raw) if the variant cannot express a
// fallback" path for the one case where there is no field name to even
// look up.
func parseHeaderLine(line string) Field {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return Field{Kind: FieldRescue, Raw: line}
	}
	name := line[:idx]
	val := strings.TrimLeft(line[idx+1:], " \t")
	return dispatchField(name, val)
}
