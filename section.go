// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

// uniqueKinds are the Field kinds for which only the first occurrence is
// honoured; later occurrences are preserved (not discarded) in Optional,
// per spec.md 4.F.
var uniqueKinds = map[FieldKind]bool{
	FieldDate: true, FieldFrom: true, FieldSender: true, FieldReplyTo: true,
	FieldSubject: true, FieldMessageID: true, FieldInReplyTo: true,
	FieldMIMEVersion: true, FieldContentType: true,
	FieldContentTransferEncoding: true, FieldContentID: true,
	FieldContentDescription: true,
}

// aggregateFields is the component-F header section aggregator: a single
// pass over an ordered sequence of typed Fields building a HeaderSection,
// never re-parsing (spec.md 4.F).
func aggregateFields(fields []Field) HeaderSection {
	var h HeaderSection
	seen := map[FieldKind]bool{}

	for _, f := range fields {
		if uniqueKinds[f.Kind] {
			if seen[f.Kind] {
				h.Optional = append(h.Optional, f)
				continue
			}
			seen[f.Kind] = true
		}

		switch f.Kind {
		case FieldDate:
			h.Date = f.Date
			h.DateRaw = f.Raw
		case FieldFrom:
			h.From = f.Addresses
		case FieldSender:
			mbs := f.Addresses.Mailboxes()
			if len(mbs) > 0 {
				h.Sender = &mbs[0]
			}
		case FieldReplyTo:
			h.ReplyTo = f.Addresses
		case FieldTo:
			h.To = append(h.To, f.Addresses...)
		case FieldCc:
			h.Cc = append(h.Cc, f.Addresses...)
		case FieldBcc:
			h.Bcc = append(h.Bcc, f.Addresses...)
		case FieldMessageID:
			h.MessageID = f.MessageID
		case FieldInReplyTo:
			h.InReplyTo = append(h.InReplyTo, f.MessageIDs...)
		case FieldReferences:
			h.References = append(h.References, f.MessageIDs...)
		case FieldSubject:
			h.Subject = f.Text
		case FieldComments:
			h.Comments = append(h.Comments, f.Text)
		case FieldKeywords:
			h.Keywords = append(h.Keywords, ParseKeywords(f.Raw)...)
		case FieldReturnPath:
			if len(f.Addresses) > 0 && f.Addresses[0].Mailbox != nil {
				h.ReturnPath = append(h.ReturnPath, f.Addresses[0].Mailbox.Addr)
			}
		case FieldReceived:
			h.Received = append(h.Received, f.Raw)
		case FieldMIMEVersion:
			h.MIMEVersion = f.Version
		case FieldContentType:
			h.ContentType = f.MIME
		case FieldContentTransferEncoding:
			h.ContentTransferEncoding = f.TransferEnc
		case FieldContentID:
			h.ContentID = f.MessageID
		case FieldContentDescription:
			h.ContentDescription = f.Text
		case FieldOptional, FieldRescue:
			h.Optional = append(h.Optional, f)
		default:
			h.Optional = append(h.Optional, f)
		}
	}
	return h
}

// parseHeaderFields turns a decoded header text view into the ordered
// Field sequence aggregateFields expects, chaining the locator's line
// unfolding (locate.go) with the field dispatcher (dispatch.go); this is
// the A/B/C portion of the component-H pipeline.
func parseHeaderFields(headerText string) []Field {
	lines := unfoldHeaderLines(headerText)
	fields := make([]Field, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		fields = append(fields, parseHeaderLine(line))
	}
	return fields
}
