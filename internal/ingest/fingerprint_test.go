package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRowHashStable(t *testing.T) {
	d := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	sum := sha256.Sum256([]byte("1001|John Smith|2024-01-05|Acme"))
	require.Equal(t, hex.EncodeToString(sum[:]), RowHash("1001", "John Smith", &d, "Acme"))
}

func TestRowHashAbsentDateSentinel(t *testing.T) {
	sum := sha256.Sum256([]byte("1001|John Smith|None|Acme"))
	require.Equal(t, hex.EncodeToString(sum[:]), RowHash("1001", "John Smith", nil, "Acme"))
}

func TestRowHashDistinguishesOrgs(t *testing.T) {
	d := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	a := RowHash("1001", "John Smith", &d, "Acme")
	b := RowHash("1001", "John Smith", &d, "Globex")
	require.NotEqual(t, a, b)
}

func TestRowHashDistinguishesDatedFromUndated(t *testing.T) {
	d := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	require.NotEqual(t,
		RowHash("1001", "John Smith", &d, "Acme"),
		RowHash("1001", "John Smith", nil, "Acme"))
}
