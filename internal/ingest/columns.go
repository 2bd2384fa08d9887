// Package ingest implements the upload pipeline: parsing tabular files,
// heuristic column detection, per-cell normalization, and row fingerprinting.
package ingest

import "strings"

// Semantic field names recognized by the column resolver.
const (
	FieldInvoiceNo      = "invoice_no"
	FieldInvoiceDate    = "invoice_date"
	FieldAdvisor        = "advisor"
	FieldHoursPresented = "hours_presented"
	FieldHoursSold      = "hours_sold"
	FieldROID           = "ro_id"
	FieldLocation       = "location"
)

// FieldRule maps a semantic field to candidate header substrings, tried in
// priority order.
type FieldRule struct {
	Field      string
	Candidates []string
}

// DefaultRules is the fixed detection table. Order matters twice: rules are
// evaluated top to bottom, and within a rule the first candidate substring
// that matches any header wins, taking the first matching header in original
// column order.
var DefaultRules = []FieldRule{
	{FieldInvoiceNo, []string{"invoice", "inv #", "invoice #", "invoice_no"}},
	{FieldInvoiceDate, []string{"invoice date", "inv date", "date", "invoice_date"}},
	{FieldAdvisor, []string{"advisor", "technician", "rep", "sales"}},
	{FieldHoursPresented, []string{"hours presented", "presented", "hours_p", "hours_presented"}},
	{FieldHoursSold, []string{"hours sold", "sold", "hours_s", "hours_sold"}},
	{FieldROID, []string{"ro", "ro #", "repair order", "order #", "ro_id"}},
	{FieldLocation, []string{"location", "store", "branch", "org"}},
}

// Resolve maps each semantic field to a header name. Caller-supplied
// overrides take precedence over detection; an empty override falls back to
// the heuristic. Fields with no match are absent from the result.
func Resolve(headers []string, overrides map[string]string) map[string]string {
	mapping := make(map[string]string, len(DefaultRules))
	for _, rule := range DefaultRules {
		if ov, ok := overrides[rule.Field]; ok && ov != "" {
			mapping[rule.Field] = ov
			continue
		}
		if h, ok := findColumn(headers, rule.Candidates); ok {
			mapping[rule.Field] = h
		}
	}
	return mapping
}

// findColumn returns the first header whose lowercased text contains one of
// the candidate substrings, candidates tried in order. Detection is "first
// priority group, first occurring column", not best match.
func findColumn(headers []string, candidates []string) (string, bool) {
	for _, cand := range candidates {
		for _, h := range headers {
			if strings.Contains(strings.ToLower(h), cand) {
				return h, true
			}
		}
	}
	return "", false
}

// FindOrgColumn locates an organization column: a header equal to "org" or
// containing "org"/"organization". Used by the access guard and by row
// assembly, which prefers a row-level org over the batch-level input.
func FindOrgColumn(headers []string) (string, bool) {
	for _, h := range headers {
		lower := strings.ToLower(h)
		if lower == "org" || strings.Contains(lower, "org") || strings.Contains(lower, "organization") {
			return h, true
		}
	}
	return "", false
}
