package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	slashDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dashDatePattern  = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
)

// fallbackLayouts are tried in order when a date matches none of the
// recognized numeric formats.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"Mon, 02 Jan 2006",
}

// NormalizeDate disambiguates a date-like string into canonical YYYY-MM-DD
// form, or returns "" when it cannot be parsed. Formats are tried in fixed
// priority order: slash-separated M/D/YYYY, already-ISO, dash-separated
// MM-DD-YYYY, then a pass over common verbose layouts.
//
// Slash- and dash-separated dates are always read month-first (US order);
// day-first locales are not distinguished.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if m := slashDatePattern.FindStringSubmatch(s); m != nil {
		return joinISO(m[3], m[1], m[2])
	}

	if isoDatePattern.MatchString(s) {
		return s
	}

	if m := dashDatePattern.FindStringSubmatch(s); m != nil {
		return joinISO(m[3], m[1], m[2])
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}

	return ""
}

// joinISO assembles YYYY-MM-DD, zero-padding month and day.
func joinISO(year, month, day string) string {
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return fmt.Sprintf("%s-%02d-%02d", year, m, d)
}
