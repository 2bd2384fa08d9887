package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/constants"
	"github.com/stretchr/testify/require"
)

func TestBuildRowsNormalizesFields(t *testing.T) {
	table := &Table{
		Headers: []string{"Invoice", "Advisor", "Invoice Date", "Hours Presented", "Hours Sold", "RO"},
		Rows: [][]string{
			{"1001", "Mr. John Smith", "2024-01-05", "2.5", "1.5", "RO1"},
			{"1002", "john   smith", "01/05/2024", "3", "2", "RO2"},
		},
	}
	mapping := Resolve(table.Headers, nil)

	rows := BuildRows(table, mapping, "Acme", "East")
	require.Len(t, rows, 2)

	require.Equal(t, "1001", rows[0].InvoiceNo)
	require.Equal(t, "Mr. John Smith", rows[0].AdvisorRaw)
	require.Equal(t, "John Smith", rows[0].AdvisorCanonical)
	require.Equal(t, "John Smith", rows[1].AdvisorCanonical)

	want := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	require.NotNil(t, rows[0].InvoiceDate)
	require.Equal(t, want, *rows[0].InvoiceDate)
	require.NotNil(t, rows[1].InvoiceDate)
	require.Equal(t, want, *rows[1].InvoiceDate)

	require.Equal(t, 2.5, rows[0].HoursPresented)
	require.Equal(t, 1.5, rows[0].HoursSold)
	require.Equal(t, "RO1", rows[0].ROID)
	require.Equal(t, "Acme", rows[0].Org)
	require.Equal(t, "East", rows[0].Location)
	require.NotEqual(t, rows[0].RowHash, rows[1].RowHash)
}

func TestBuildRowsScansWhenMappingMissing(t *testing.T) {
	// No usable mapping: fields fall back to header scans.
	table := &Table{
		Headers: []string{"Technician", "Hours Presented"},
		Rows:    [][]string{{"jane doe", "4.0"}},
	}

	rows := BuildRows(table, map[string]string{}, "Acme", "")
	require.Len(t, rows, 1)
	require.Equal(t, "jane doe", rows[0].AdvisorRaw)
	require.Equal(t, "Jane Doe", rows[0].AdvisorCanonical)
	require.Equal(t, 4.0, rows[0].HoursPresented)
	require.Nil(t, rows[0].InvoiceDate)
}

func TestBuildRowsOrgColumnWinsOverDeclared(t *testing.T) {
	table := &Table{
		Headers: []string{"Invoice", "Org"},
		Rows: [][]string{
			{"1001", "Acme - East"},
			{"1002", ""},
		},
	}
	mapping := Resolve(table.Headers, nil)

	rows := BuildRows(table, mapping, "Declared", "Store A")
	require.Equal(t, "Acme - East", rows[0].Org)
	require.Equal(t, "Declared", rows[1].Org)
}

func TestBuildRowsOrgFallbackChain(t *testing.T) {
	table := &Table{
		Headers: []string{"Invoice"},
		Rows:    [][]string{{"1001"}},
	}

	rows := BuildRows(table, map[string]string{}, "", "Store A")
	require.Equal(t, "Store A", rows[0].Org)

	rows = BuildRows(table, map[string]string{}, "", "")
	require.Equal(t, constants.DefaultOrg, rows[0].Org)
}

func TestBuildRowsRawPayloadRoundTrips(t *testing.T) {
	table := &Table{
		Headers: []string{"Invoice", "Advisor"},
		Rows:    [][]string{{"1001", "Jane Doe"}},
	}

	rows := BuildRows(table, map[string]string{}, "Acme", "")

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(rows[0].RawPayload), &payload))
	require.Equal(t, "1001", payload["Invoice"])
	require.Equal(t, "Jane Doe", payload["Advisor"])
}
