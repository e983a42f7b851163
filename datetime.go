// Copyright 2022 Daniel Erat.
// All rights reserved.

package imf

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateRegexp matches RFC 5322 date-time plus its RFC 822/2822 obsolete
// variants: optional day-of-week, 2-, 3- or 4-digit year, optional seconds,
// and either a numeric or named (including single-letter military)
// timezone.
var dateRegexp = regexp.MustCompile(`(?i)^\s*` +
	`(?:(?:mon|tue|wed|thu|fri|sat|sun)[a-z]*\s*,\s*)?` + // optional day-of-week
	`(\d{1,2})\s+` + // day
	`([a-z]{3,9})\s+` + // month
	`(\d{2,4})\s+` + // year
	`(\d{1,2}):(\d{2})(?::(\d{2}))?\s*` + // time, seconds optional
	`([a-z]+|[+-]\d{4})\s*$`) // zone

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// obsZones are the named time zones from RFC 822 section 5 and their
// still-common successors; offsets are in seconds east of UTC.
var obsZones = map[string]int{
	"ut": 0, "gmt": 0, "z": 0,
	"est": -5 * 3600, "edt": -4 * 3600,
	"cst": -6 * 3600, "cdt": -5 * 3600,
	"mst": -7 * 3600, "mdt": -6 * 3600,
	"pst": -8 * 3600, "pdt": -7 * 3600,
}

// ParseDateTime parses an RFC 5322 Date header value, including the
// obsolete 2-digit-year and named/military timezone forms of RFC 822.
// On success ok is true. On failure ok is false and the caller (the field
// dispatcher) is responsible for retaining the raw text, matching
// spec.md's documented choice of returning an absent value rather than a
// fallback slot for this one field (see SPEC_FULL.md open-question
// decision 1).
func ParseDateTime(s string) (DateTime, bool) {
	// Comments carry no meaning in a date-time; drop them so that e.g. a
	// trailing "(UTC)" does not defeat the match below.
	var b strings.Builder
	for p := newScanner(s); !p.empty(); {
		if p.peek() == '(' {
			if _, ok := p.consumeComment(); ok {
				b.WriteByte(' ')
				continue
			}
		}
		b.WriteByte(p.s[0])
		p.s = p.s[1:]
	}
	m := dateRegexp.FindStringSubmatch(strings.TrimSpace(b.String()))
	if m == nil {
		return DateTime{}, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return DateTime{}, false
	}
	month, ok := monthNames[strings.ToLower(m[2])]
	if !ok {
		return DateTime{}, false
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return DateTime{}, false
	}
	if len(m[3]) <= 2 {
		// RFC 5322 4.3: obsolete 2-digit years, interpreted the way
		// spec.md 4.B directs: >= 50 is 1900+year, otherwise 2000+year.
		if year >= 50 {
			year += 1900
		} else {
			year += 2000
		}
	} else if len(m[3]) == 3 {
		year += 1900
	}
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	sec := 0
	if m[6] != "" {
		sec, _ = strconv.Atoi(m[6])
	}

	zoneText := m[7]
	offsetSec, zoneOK := parseZone(zoneText)
	if !zoneOK {
		return DateTime{}, false
	}

	loc := time.FixedZone(zoneText, offsetSec)
	t := time.Date(year, month, day, hour, minute, sec, 0, loc)
	return DateTime{Time: t, Zone: zoneText}, true
}

// parseZone resolves a timezone token to a signed offset in seconds. It
// accepts numeric "+HHMM"/"-HHMM" zones, the RFC 822 named zones (UT,
// GMT, EST, ...), and the single-letter military zones of RFC 822
// appendix A (all but 'J', which is rejected, so a date carrying it does
// not parse).
func parseZone(z string) (int, bool) {
	if len(z) == 5 && (z[0] == '+' || z[0] == '-') {
		hh, err1 := strconv.Atoi(z[1:3])
		mm, err2 := strconv.Atoi(z[3:5])
		if err1 != nil || err2 != nil {
			return 0, false
		}
		off := hh*3600 + mm*60
		if z[0] == '-' {
			off = -off
		}
		return off, true
	}
	lz := strings.ToLower(z)
	if off, ok := obsZones[lz]; ok {
		return off, true
	}
	if len(z) == 1 {
		return militaryZoneOffset(z[0])
	}
	return 0, false
}

// militaryZoneOffset implements RFC 822 appendix A's single-letter
// military time zones (A..I are east of UTC, K..M continue east, N..Y are
// west of UTC, J is unassigned/local and treated as unknown here).
func militaryZoneOffset(c byte) (int, bool) {
	c = byte(strings.ToUpper(string(c))[0])
	if c == 'J' {
		return 0, false
	}
	if c >= 'A' && c <= 'I' {
		return int(c-'A'+1) * 3600, true
	}
	if c >= 'K' && c <= 'M' {
		return int(c-'K'+10) * 3600, true
	}
	if c >= 'N' && c <= 'Y' {
		return -int(c-'N'+1) * 3600, true
	}
	if c == 'Z' {
		return 0, true
	}
	return 0, false
}
