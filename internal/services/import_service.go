package services

import (
	"errors"
	"fmt"
	"io"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/access"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/constants"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/dto"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/ingest"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/repository"
)

// ErrFileUnreadable wraps parse failures of the uploaded file itself.
var ErrFileUnreadable = errors.New("failed to read uploaded file")

// ImportService orchestrates the ingestion pipeline: parse, resolve columns,
// guard the batch, normalize rows, store.
type ImportService struct {
	rows repository.RowRepository
}

// NewImportService creates a new ImportService.
func NewImportService(rows repository.RowRepository) *ImportService {
	return &ImportService{rows: rows}
}

// Preview parses an upload and returns the first rows plus the detected
// column mapping, without writing anything.
func (s *ImportService) Preview(r io.Reader, filename string) (*dto.UploadPreview, error) {
	table, err := ingest.ParseFile(r, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}

	preview := &dto.UploadPreview{
		Filename:        filename,
		Headers:         table.Headers,
		Rows:            table.Preview(constants.PreviewRowLimit),
		TotalRows:       len(table.Rows),
		DetectedMapping: ingest.Resolve(table.Headers, nil),
	}
	if orgColumn, ok := ingest.FindOrgColumn(table.Headers); ok {
		preview.OrgColumn = orgColumn
	}
	return preview, nil
}

// ImportInput describes one upload commit.
type ImportInput struct {
	Reader        io.Reader
	Filename      string
	Org           string
	StoreLocation string
	Overrides     map[string]string
}

// Import runs the full pipeline for one file. The access guard rejects the
// whole batch before any write; past that point rows are inserted
// independently and partial success is normal.
func (s *ImportService) Import(id access.Identity, in ImportInput) (*repository.BatchResult, error) {
	table, err := ingest.ParseFile(in.Reader, in.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}

	// Non-admin callers default the declared org to their own.
	declaredOrg := in.Org
	if !id.IsAdmin() && declaredOrg == "" {
		declaredOrg = id.Org
	}

	if err := access.CheckUpload(id, table, declaredOrg); err != nil {
		return nil, err
	}

	mapping := ingest.Resolve(table.Headers, in.Overrides)
	rows := ingest.BuildRows(table, mapping, declaredOrg, in.StoreLocation)

	return s.rows.InsertBatch(rows, in.Filename, declaredOrg, in.StoreLocation)
}
