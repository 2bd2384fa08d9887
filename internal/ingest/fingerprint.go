package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// absentSentinel is the fixed rendering of a missing field inside the hash
// input. Changing it would change which historical rows count as duplicates,
// so it must stay stable across versions.
const absentSentinel = "None"

// RowHash derives the deduplication fingerprint for a row:
// SHA-256("invoice_no|advisor_canonical|invoice_date|org"), the date rendered
// as ISO-8601 or the absent sentinel. Combined with the org column it forms
// the unique key that makes re-uploads idempotent.
func RowHash(invoiceNo, advisorCanonical string, invoiceDate *time.Time, org string) string {
	date := absentSentinel
	if invoiceDate != nil {
		date = invoiceDate.Format("2006-01-02")
	}
	key := strings.Join([]string{invoiceNo, advisorCanonical, date, org}, "|")
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
