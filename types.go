// Copyright 2022 Daniel Erat.
// All rights reserved.

// Package imf decodes Internet Message Format (RFC 822/2822/5322) buffers,
// possibly carrying MIME (RFC 2045-2049) structure, into a typed,
// read-only AST. Every exported entry point is total: malformed or
// adversarial input never produces an error or a panic, only a
// best-effort tree with fallback sentinels in place of what couldn't be
// recovered.
package imf

import "time"

// Span is a byte range into the buffer originally passed to ParseMessage.
// It is only meaningful for content that is never transcoded, namely MIME
// part bodies; header field values are exposed as Go strings built from
// the decoded header text view (unfolded lines are copied), not as
// positions in the original buffer.
type Span struct {
	Start, End int
}

func (s Span) Len() int { return s.End - s.Start }

// Slice returns the bytes of s within buf.
func (s Span) Slice(buf []byte) []byte { return buf[s.Start:s.End] }

// AddrSpec is a local-part@domain pair. On unrecoverable input it holds
// the sentinel "unknown@unknown".
type AddrSpec struct {
	Local  string
	Domain string
}

func (a AddrSpec) String() string { return a.Local + "@" + a.Domain }

// unknownAddrSpec is substituted whenever a mailbox cannot be parsed at all.
var unknownAddrSpec = AddrSpec{Local: "unknown", Domain: "unknown"}

// MailboxRef is a single address with an optional display name.
type MailboxRef struct {
	Name     string   // display name; empty if absent
	Addr     AddrSpec //
	Comments []string // CFWS comment text found adjacent to the mailbox, in order
}

// GroupRef is a named list of mailboxes, e.g. "undisclosed-recipients:;".
type GroupRef struct {
	Name      string
	Mailboxes []MailboxRef
}

// Address is either a MailboxRef or a GroupRef. Exactly one of Mailbox or
// Group is non-nil.
type Address struct {
	Mailbox *MailboxRef
	Group   *GroupRef
}

// AddressList is an ordered sequence of addresses, as found in From, To,
// Cc, Bcc, Reply-To, Sender.
type AddressList []Address

// Mailboxes flattens the list, expanding groups in place, matching the
// semantics most callers want (e.g. "who should this be delivered to").
func (l AddressList) Mailboxes() []MailboxRef {
	var out []MailboxRef
	for _, a := range l {
		if a.Mailbox != nil {
			out = append(out, *a.Mailbox)
		} else if a.Group != nil {
			out = append(out, a.Group.Mailboxes...)
		}
	}
	return out
}

// MessageId is an RFC 5322 msg-id: "<" id-left "@" id-right ">".
type MessageId struct {
	Left  string
	Right string
}

func (m MessageId) String() string { return "<" + m.Left + "@" + m.Right + ">" }

// DateTime is a normalised RFC 5322 date-time.
type DateTime struct {
	Time time.Time
	// Zone is the literal zone text as written (e.g. "-0330", "EST"),
	// kept alongside Time so that e.g. "-0000" (unknown local time,
	// RFC 5322 3.3) can be distinguished from "+0000" (UTC) if a caller
	// cares to check.
	Zone string
}

// MIMEType is a parsed Content-Type value.
type MIMEType struct {
	Type    string // lowercased, e.g. "text"
	Subtype string // lowercased, e.g. "plain"
	// Params preserves first-seen value on duplicate keys; keys are
	// lowercased, values are the decoded token/quoted-string content.
	Params map[string]string
	// Raw is the original, unparsed field body.
	Raw string
}

// Full returns "type/subtype".
func (m MIMEType) Full() string { return m.Type + "/" + m.Subtype }

// defaultMIMEType is RFC 2045 5.2's "Content-Type defaults": text/plain;
// charset=us-ascii.
func defaultMIMEType() MIMEType {
	return MIMEType{
		Type: "text", Subtype: "plain",
		Params: map[string]string{"charset": "us-ascii"},
		Raw:    "text/plain; charset=us-ascii",
	}
}

// Encoding is a Content-Transfer-Encoding value.
type Encoding int

const (
	Enc7Bit Encoding = iota
	Enc8Bit
	EncBinary
	EncQuotedPrintable
	EncBase64
	EncOther // Text holds the raw, unrecognised spelling
)

// EncodingValue pairs the enum with the raw spelling, needed for EncOther
// and preserved even for recognised encodings so a reprinter can recover
// the caller's original capitalisation.
type EncodingValue struct {
	Kind Encoding
	Text string
}

// FieldKind tags the variant carried by a Field.
type FieldKind int

const (
	FieldDate FieldKind = iota
	FieldFrom
	FieldSender
	FieldReplyTo
	FieldTo
	FieldCc
	FieldBcc
	FieldMessageID
	FieldInReplyTo
	FieldReferences
	FieldSubject
	FieldComments
	FieldKeywords
	FieldReturnPath
	FieldReceived
	FieldMIMEVersion
	FieldContentType
	FieldContentTransferEncoding
	FieldContentID
	FieldContentDescription
	FieldOptional
	FieldRescue
)

// Field is a single parsed header field, tagged by Kind. Every variant
// that can fail to parse keeps Raw populated with the original,
// undecoded value so that nothing is ever discarded on recovery.
type Field struct {
	Kind FieldKind
	Name string // original field name as it appeared, canonicalised
	Raw  string // original (unfolded, still encoded) field body

	// Populated depending on Kind; only one group is meaningful per Kind.
	Addresses  AddressList // From, Sender(single), ReplyTo, To, Cc, Bcc
	Text       string      // Subject, Comments, Keywords (joined), Optional value, unstructured fallback
	MessageID  *MessageId  // Message-ID, Content-ID
	MessageIDs []MessageId // In-Reply-To, References
	Date       *DateTime   // Date; nil if unparseable (see SPEC_FULL open-question decision)
	MIME       *MIMEType   // Content-Type
	TransferEnc *EncodingValue // Content-Transfer-Encoding
	Version    string      // MIME-Version raw text, e.g. "1.0"
	OptionalName string    // Optional's original field name
}

// HeaderSection is the aggregated, typed view over a sequence of Fields.
type HeaderSection struct {
	Date      *DateTime
	DateRaw   string // raw Date body, populated even when Date is nil

	From      AddressList
	Sender    *MailboxRef
	ReplyTo   AddressList
	To        AddressList
	Cc        AddressList
	Bcc       AddressList

	MessageID  *MessageId
	InReplyTo  []MessageId
	References []MessageId

	Subject  string
	Comments []string
	Keywords []string

	ReturnPath []AddrSpec
	Received   []string // raw Received trace bodies, in document order

	MIMEVersion             string
	ContentType             *MIMEType
	ContentTransferEncoding *EncodingValue
	ContentID               *MessageId
	ContentDescription      string

	// Optional holds recognised-but-uninterpreted and wholly unknown
	// fields (Field.Kind == FieldOptional or FieldRescue), plus
	// duplicate occurrences of "unique" fields, all in document order.
	Optional []Field
}

// PartKind tags the variant carried by a Part.
type PartKind int

const (
	PartText PartKind = iota
	PartBinary
	PartMultipart
	PartMessage
)

// Part is a node of the MIME body tree.
type Part struct {
	Kind PartKind
	MIME MIMEType

	// Header is the part's own MIME-relevant header fields (only set for
	// parts that came from a multipart child or an embedded message;
	// the outermost Part shares the Message's mime_headers).
	Header HeaderSection

	// PartSpan is this part's full header+body byte range within the
	// enclosing buffer; for the outermost Part of a Message it is the body
	// range only (equal to Message.RawBody). It lets a caller reconstruct, for any
	// multipart Part, the verbatim concatenation of preamble + (boundary
	// line + child PartSpan) for each child + close-delimiter + epilogue
	// required by spec.md 8's round-trip property.
	PartSpan Span

	Encoding EncodingValue // declared transfer encoding; leaf kinds only

	// Body is the raw, untranscoded bytes of this part (leaf kinds only).
	Body     []byte
	BodySpan Span

	// Text is populated for PartKind == PartText: Body decoded according
	// to MIME.Params["charset"] (default us-ascii), as a best-effort text
	// projection. Decoding never fails; it falls back through the same
	// charset cascade as the header normaliser.
	Text string

	// Multipart-only fields.
	Boundary  string
	Preamble  Span
	Children  []Part
	Epilogue  Span

	// Message-only field: an embedded message/rfc822 body.
	Child *Message
}

// Message is the root of a parsed Internet Message.
type Message struct {
	IMF         HeaderSection // full set of message-level fields
	MIMEHeaders HeaderSection // same fields, exposed again for components that only look at MIME-relevant ones
	Child       Part

	RawHeaders Span
	RawBody    Span
}
