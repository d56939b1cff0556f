package util

import (
	"fmt"
	"strings"
	"time"
)

// Brasilia is the fixed UTC-3 offset every timestamp is rendered in,
// regardless of server timezone. The storefront has always used the
// hardcoded offset rather than a real timezone conversion, so any
// change here would disagree with what the backend prints.
var Brasilia = time.FixedZone("-03", -3*60*60)

// Backend timestamps arrive in a handful of shapes; naive ones are UTC
var backendTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var portugueseMonths = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// ParseBackendTime parses a backend timestamp string
func ParseBackendTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range backendTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatClock renders hh:mm in UTC-3, or "" for unparseable input
func FormatClock(s string) string {
	t, ok := ParseBackendTime(s)
	if !ok {
		return ""
	}
	return t.In(Brasilia).Format("15:04")
}

// FormatDateTime renders dd/mm/yyyy hh:mm in UTC-3, or "" for unparseable input
func FormatDateTime(s string) string {
	t, ok := ParseBackendTime(s)
	if !ok {
		return ""
	}
	return t.In(Brasilia).Format("02/01/2006 15:04")
}

// FormatDateLong renders "02 de janeiro de 2006, 15:04" in UTC-3
func FormatDateLong(s string) string {
	t, ok := ParseBackendTime(s)
	if !ok {
		return ""
	}
	tb := t.In(Brasilia)
	return fmt.Sprintf("%02d de %s de %d, %s",
		tb.Day(), portugueseMonths[tb.Month()-1], tb.Year(), tb.Format("15:04"))
}
