package ingest

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/constants"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/models"
)

// BuildRows assembles normalized DataRows from a parsed table. Mapped columns
// are used when present; otherwise each field falls back to a header scan, so
// a partially wrong mapping degrades per field instead of dropping the row.
// Field-level coercion failures degrade to absent/zero values and never fail
// the batch.
func BuildRows(t *Table, mapping map[string]string, declaredOrg, storeLocation string) []models.DataRow {
	orgColumn, hasOrgColumn := FindOrgColumn(t.Headers)

	rows := make([]models.DataRow, 0, len(t.Rows))
	for _, raw := range t.Rows {
		invoiceNo := t.mappedOrScanned(raw, mapping[FieldInvoiceNo], func(h string) bool {
			return strings.Contains(strings.ToLower(h), "invoice")
		})

		advisorRaw := t.mappedOrScanned(raw, mapping[FieldAdvisor], func(h string) bool {
			lower := strings.ToLower(h)
			return strings.Contains(lower, "advisor") || strings.Contains(lower, "technician")
		})
		advisorCanonical := CanonicalAdvisor(advisorRaw)

		invoiceDate := t.resolveDate(raw, mapping[FieldInvoiceDate])
		hoursPresented := t.resolveHours(raw, mapping[FieldHoursPresented], []string{"present", "hours"})
		hoursSold := t.resolveHours(raw, mapping[FieldHoursSold], []string{"sold"})

		roID := ""
		if col := mapping[FieldROID]; col != "" && t.HasHeader(col) {
			roID = strings.TrimSpace(t.Cell(raw, col))
		}

		// Row-level org wins over the batch-level input; the mapped
		// location column is the secondary source.
		rowOrg := ""
		if hasOrgColumn {
			rowOrg = strings.TrimSpace(t.Cell(raw, orgColumn))
		} else if col := mapping[FieldLocation]; col != "" && t.HasHeader(col) {
			rowOrg = strings.TrimSpace(t.Cell(raw, col))
		}
		org := firstNonEmpty(rowOrg, declaredOrg, storeLocation, constants.DefaultOrg)

		rows = append(rows, models.DataRow{
			InvoiceNo:        invoiceNo,
			AdvisorRaw:       advisorRaw,
			AdvisorCanonical: advisorCanonical,
			InvoiceDate:      invoiceDate,
			HoursPresented:   hoursPresented,
			HoursSold:        hoursSold,
			ROID:             roID,
			RowHash:          RowHash(invoiceNo, advisorCanonical, invoiceDate, org),
			RawPayload:       t.rawPayload(raw),
			Org:              org,
			Location:         storeLocation,
		})
	}
	return rows
}

// mappedOrScanned reads the mapped column, or the first header accepted by
// match when the mapping is missing or stale.
func (t *Table) mappedOrScanned(row []string, mapped string, match func(string) bool) string {
	if mapped != "" && t.HasHeader(mapped) {
		return strings.TrimSpace(t.Cell(row, mapped))
	}
	for _, h := range t.Headers {
		if match(h) {
			return strings.TrimSpace(t.Cell(row, h))
		}
	}
	return ""
}

// resolveDate parses the mapped date column, then falls back to the first
// parseable value in any column. Unparseable rows keep an absent date.
func (t *Table) resolveDate(row []string, mapped string) *time.Time {
	if mapped != "" && t.HasHeader(mapped) {
		if d := ParseDate(t.Cell(row, mapped)); d != nil {
			return d
		}
	}
	for _, h := range t.Headers {
		if d := ParseDate(t.Cell(row, h)); d != nil {
			return d
		}
	}
	return nil
}

// resolveHours reads the mapped column through SafeFloat, or scans headers
// containing one of the hints for the first strictly parseable number.
func (t *Table) resolveHours(row []string, mapped string, hints []string) float64 {
	if mapped != "" && t.HasHeader(mapped) {
		return SafeFloat(t.Cell(row, mapped))
	}
	for _, h := range t.Headers {
		lower := strings.ToLower(h)
		for _, hint := range hints {
			if strings.Contains(lower, hint) {
				if v, err := strconv.ParseFloat(strings.TrimSpace(t.Cell(row, h)), 64); err == nil {
					return v
				}
				break
			}
		}
	}
	return 0
}

// rawPayload serializes the original row verbatim for audit and debugging.
func (t *Table) rawPayload(row []string) string {
	payload := make(map[string]string, len(t.Headers))
	for i, h := range t.Headers {
		if i < len(row) {
			payload[h] = row[i]
		} else {
			payload[h] = ""
		}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
