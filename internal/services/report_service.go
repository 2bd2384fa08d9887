package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/access"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/dto"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/models"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/repository"
)

// ReportFilter holds the caller-facing dashboard filters.
type ReportFilter struct {
	Org       string
	Locations []string
	StartDate *time.Time
	EndDate   *time.Time
	Advisor   string
}

// ReportService answers filtered row queries and computes the dashboard
// aggregates over them.
type ReportService struct {
	rows repository.RowRepository
}

// NewReportService creates a new ReportService.
func NewReportService(rows repository.RowRepository) *ReportService {
	return &ReportService{rows: rows}
}

// Rows returns the rows visible to the caller under the filter. Non-admin
// callers are pinned to their own org: the store filters by exact equality
// (coarse), then the contains-check re-filters in the application layer
// (fine). The advisor filter is a case-insensitive substring match on the
// canonical name.
func (s *ReportService) Rows(id access.Identity, f ReportFilter) ([]models.DataRow, error) {
	org := f.Org
	if !id.IsAdmin() {
		org = id.Org
	}

	rows, err := s.rows.Query(repository.RowFilter{
		Org:       org,
		Locations: f.Locations,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}

	rows = access.FilterRows(id, rows)

	if f.Advisor != "" {
		needle := strings.ToLower(f.Advisor)
		filtered := rows[:0]
		for _, r := range rows {
			if strings.Contains(strings.ToLower(r.AdvisorCanonical), needle) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	return rows, nil
}

// Summary computes the dashboard aggregates for the filtered row set.
func (s *ReportService) Summary(id access.Identity, f ReportFilter) (*dto.ReportSummary, error) {
	rows, err := s.Rows(id, f)
	if err != nil {
		return nil, err
	}
	return Summarize(rows), nil
}

// Orgs enumerates organizations visible to the caller.
func (s *ReportService) Orgs(id access.Identity) ([]string, error) {
	orgs, err := s.rows.DistinctOrgs()
	if err != nil {
		return nil, err
	}
	if id.IsAdmin() {
		return orgs, nil
	}
	visible := orgs[:0]
	for _, o := range orgs {
		if access.OrgMatches(id.Org, o) {
			visible = append(visible, o)
		}
	}
	return visible, nil
}

// Locations enumerates store locations, scoped to the caller's org for
// non-admins.
func (s *ReportService) Locations(id access.Identity, org string) ([]string, error) {
	if !id.IsAdmin() {
		org = id.Org
	}
	return s.rows.DistinctLocations(org)
}

// Summarize aggregates rows into totals, per-advisor stats (hours sold
// descending) and a weekly breakdown (Monday-start weeks, dated rows only).
func Summarize(rows []models.DataRow) *dto.ReportSummary {
	summary := &dto.ReportSummary{
		Advisors: []dto.AdvisorStats{},
		Weekly:   []dto.WeeklyStats{},
	}

	totalROs := make(map[string]struct{})
	advisors := make(map[string]*dto.AdvisorStats)
	advisorROs := make(map[string]map[string]struct{})
	weeks := make(map[time.Time]*dto.WeeklyStats)
	weekROs := make(map[time.Time]map[string]struct{})

	for _, r := range rows {
		summary.Totals.Rows++
		summary.Totals.HoursPresented += r.HoursPresented
		summary.Totals.HoursSold += r.HoursSold
		totalROs[r.ROID] = struct{}{}

		a, ok := advisors[r.AdvisorCanonical]
		if !ok {
			a = &dto.AdvisorStats{Advisor: r.AdvisorCanonical}
			advisors[r.AdvisorCanonical] = a
			advisorROs[r.AdvisorCanonical] = make(map[string]struct{})
		}
		a.HoursPresented += r.HoursPresented
		a.HoursSold += r.HoursSold
		advisorROs[r.AdvisorCanonical][r.ROID] = struct{}{}

		if r.InvoiceDate != nil {
			ws := weekStart(*r.InvoiceDate)
			w, ok := weeks[ws]
			if !ok {
				w = &dto.WeeklyStats{WeekStart: ws}
				weeks[ws] = w
				weekROs[ws] = make(map[string]struct{})
			}
			w.HoursPresented += r.HoursPresented
			w.HoursSold += r.HoursSold
			weekROs[ws][r.ROID] = struct{}{}
		}
	}

	summary.Totals.ROs = len(totalROs)
	summary.Totals.HPPerRO = ratio(summary.Totals.HoursPresented, summary.Totals.ROs)
	summary.Totals.HSPerRO = ratio(summary.Totals.HoursSold, summary.Totals.ROs)

	for name, a := range advisors {
		a.ROs = len(advisorROs[name])
		a.HPPerRO = ratio(a.HoursPresented, a.ROs)
		a.HSPerRO = ratio(a.HoursSold, a.ROs)
		summary.Advisors = append(summary.Advisors, *a)
	}
	sort.Slice(summary.Advisors, func(i, j int) bool {
		if summary.Advisors[i].HoursSold != summary.Advisors[j].HoursSold {
			return summary.Advisors[i].HoursSold > summary.Advisors[j].HoursSold
		}
		return summary.Advisors[i].Advisor < summary.Advisors[j].Advisor
	})

	for ws, w := range weeks {
		w.ROs = len(weekROs[ws])
		w.HPPerRO = ratio(w.HoursPresented, w.ROs)
		w.HSPerRO = ratio(w.HoursSold, w.ROs)
		summary.Weekly = append(summary.Weekly, *w)
	}
	sort.Slice(summary.Weekly, func(i, j int) bool {
		return summary.Weekly[i].WeekStart.Before(summary.Weekly[j].WeekStart)
	})

	return summary
}

// csvHeader lists the stored column names in schema order.
var csvHeader = []string{
	"id", "upload_id", "invoice_no", "advisor", "advisor_canonical",
	"invoice_date", "hours_presented", "hours_sold", "ro_id", "row_hash",
	"raw_payload", "org", "location",
}

// WriteCSV streams the filtered rows as UTF-8 CSV with the stored column
// names as the header.
func WriteCSV(w io.Writer, rows []models.DataRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		date := ""
		if r.InvoiceDate != nil {
			date = r.InvoiceDate.Format("2006-01-02")
		}
		record := []string{
			strconv.FormatUint(r.ID, 10),
			strconv.FormatUint(r.UploadID, 10),
			r.InvoiceNo,
			r.AdvisorRaw,
			r.AdvisorCanonical,
			date,
			strconv.FormatFloat(r.HoursPresented, 'f', -1, 64),
			strconv.FormatFloat(r.HoursSold, 'f', -1, 64),
			r.ROID,
			r.RowHash,
			r.RawPayload,
			r.Org,
			r.Location,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// weekStart truncates a date to the Monday of its week.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func ratio(hours float64, ros int) float64 {
	if ros == 0 {
		return 0
	}
	return hours / float64(ros)
}
