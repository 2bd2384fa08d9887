package repository

import (
	"time"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/models"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/utils"
)

// BatchResult summarizes one ingestion run. Inserted + Skipped + Errors
// always equals the number of rows offered.
type BatchResult struct {
	BatchID  uint64 `json:"batch_id"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
	Errors   int    `json:"errors"`
}

// RowFilter holds the server-side filters for querying data rows. Filters
// combine with AND semantics; zero values are unconstrained; date bounds are
// inclusive.
type RowFilter struct {
	Org       string
	Locations []string
	StartDate *time.Time
	EndDate   *time.Time
}

// RowRepository defines data access for uploads and normalized rows.
type RowRepository interface {
	// InsertBatch creates one Upload and attempts each row insert
	// independently: a (row_hash, org) collision counts as skipped, any
	// other failure as an error. One bad row never aborts the batch.
	InsertBatch(rows []models.DataRow, filename, org, storeLocation string) (*BatchResult, error)

	// Query returns rows matching all supplied filters.
	Query(filter RowFilter) ([]models.DataRow, error)

	// DistinctOrgs enumerates organizations seen across uploads.
	DistinctOrgs() ([]string, error)

	// DistinctLocations enumerates row locations, optionally scoped to an org.
	DistinctLocations(org string) ([]string, error)

	// ListUploads returns upload history, newest first, with the total count.
	ListUploads(params utils.PaginationParams) ([]models.Upload, int64, error)

	// DeleteUpload removes an upload and every row it produced.
	DeleteUpload(id uint64) error
}

// UserRepository defines data access for accounts.
type UserRepository interface {
	Create(user *models.User) error
	FindByUsername(username string) (*models.User, error)
	Update(user *models.User) error

	// Rename replaces the primary key: delete the old record and recreate
	// it under the new username, preserving role, org and password hash.
	Rename(oldUsername string, user *models.User) error

	Delete(username string) error
}
