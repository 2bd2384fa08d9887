package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	apierrors "github.com/crusher0311/maddenco-dvi-dashboard/internal/errors"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/middleware"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/services"
	"github.com/gin-gonic/gin"
)

// ReportHandler coordinates dashboard query and export handlers.
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// parseFilter reads the dashboard filters from the query string:
// org, locations (comma separated), start_date, end_date (2006-01-02),
// advisor.
func parseFilter(c *gin.Context) (services.ReportFilter, error) {
	f := services.ReportFilter{
		Org:     c.Query("org"),
		Advisor: c.Query("advisor"),
	}

	if raw := c.Query("locations"); raw != "" {
		for _, loc := range strings.Split(raw, ",") {
			if v := strings.TrimSpace(loc); v != "" {
				f.Locations = append(f.Locations, v)
			}
		}
	}

	for _, bound := range []struct {
		param string
		dest  **time.Time
	}{
		{"start_date", &f.StartDate},
		{"end_date", &f.EndDate},
	} {
		if raw := c.Query(bound.param); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return f, fmt.Errorf("invalid %s: expected YYYY-MM-DD", bound.param)
			}
			*bound.dest = &t
		}
	}

	return f, nil
}

// Rows returns the filtered rows together with their aggregate summary.
func (h *ReportHandler) Rows(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	rows, err := h.reportService.Rows(id, filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to query rows")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":    rows,
		"summary": services.Summarize(rows),
	})
}

// Summary returns only the aggregate view.
func (h *ReportHandler) Summary(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	summary, err := h.reportService.Summary(id, filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to build summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportCSV streams all currently filtered rows as a CSV attachment.
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	rows, err := h.reportService.Rows(id, filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to query rows")
		return
	}

	var buf bytes.Buffer
	if err := services.WriteCSV(&buf, rows); err != nil {
		apierrors.InternalError(c, "Failed to build CSV")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="dvi_filtered.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportPDF renders the fixed-layout report as a PDF attachment.
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	rows, err := h.reportService.Rows(id, filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to query rows")
		return
	}

	pdf, err := services.BuildPDF(filter, services.Summarize(rows), rows)
	if err != nil {
		apierrors.InternalError(c, "Failed to build PDF")
		return
	}

	filename := fmt.Sprintf(`attachment; filename="dvi_report_%s.pdf"`, time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", filename)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Orgs enumerates organizations for UI population.
func (h *ReportHandler) Orgs(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	orgs, err := h.reportService.Orgs(id)
	if err != nil {
		apierrors.InternalError(c, "Failed to list organizations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"orgs": orgs})
}

// Locations enumerates store locations, optionally scoped by org.
func (h *ReportHandler) Locations(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	locations, err := h.reportService.Locations(id, c.Query("org"))
	if err != nil {
		apierrors.InternalError(c, "Failed to list locations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}
