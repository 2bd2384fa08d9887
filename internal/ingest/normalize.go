package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	minYear = 1900
	maxYear = 2100
)

var (
	honorificRe = regexp.MustCompile(`(?i)^(mr\.|mrs\.|ms\.|advisor)\s+`)
	spaceRunRe  = regexp.MustCompile(`\s+`)

	titleCaser = cases.Title(language.English)
)

// ParseDate coerces free text to a calendar date. Parsing is tolerant and
// month-first for ambiguous forms like 01/05/2024. Unparseable input or a
// year outside [1900, 2100] yields nil; a parse failure is an absent value,
// never an error for the row.
func ParseDate(v string) *time.Time {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil
	}
	if t.Year() < minYear || t.Year() > maxYear {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// SafeFloat coerces text to a float, returning 0.0 for empty, NaN, or
// uncoercible input. The silent zero is a deliberate ingestion policy, not a
// validation gap.
func SafeFloat(v string) float64 {
	s := strings.TrimSpace(v)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// CanonicalAdvisor normalizes an advisor name into the display form used as
// the aggregation join key: trim, collapse interior whitespace, strip one
// leading honorific (Mr., Mrs., Ms., Advisor), title-case the remainder.
// Idempotent: canonicalizing a canonical name is a no-op.
func CanonicalAdvisor(name string) string {
	s := strings.TrimSpace(name)
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = honorificRe.ReplaceAllString(s, "")
	return titleCaser.String(s)
}
