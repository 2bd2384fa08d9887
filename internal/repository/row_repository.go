package repository

import (
	"errors"
	"fmt"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/database"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/models"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/utils"
	"gorm.io/gorm"
)

// ErrUploadNotFound is returned when deleting an unknown upload.
var ErrUploadNotFound = errors.New("upload not found")

// GormRowRepository is a GORM implementation of RowRepository
type GormRowRepository struct {
	db *gorm.DB
}

// NewRowRepository creates a new RowRepository
func NewRowRepository(db *gorm.DB) RowRepository {
	return &GormRowRepository{db: db}
}

// InsertBatch creates the Upload record, then inserts rows one by one. The
// (row_hash, org) unique constraint is the sole dedup synchronization point:
// a concurrent duplicate loses the race on the constraint and is counted as
// skipped, which is the intended outcome.
func (r *GormRowRepository) InsertBatch(rows []models.DataRow, filename, org, storeLocation string) (*BatchResult, error) {
	upload := models.Upload{
		Filename:      filename,
		Org:           org,
		StoreLocation: storeLocation,
	}
	if err := r.db.Create(&upload).Error; err != nil {
		return nil, fmt.Errorf("failed to create upload record: %w", err)
	}

	result := &BatchResult{BatchID: upload.ID}
	for i := range rows {
		row := rows[i]
		row.ID = 0
		row.UploadID = upload.ID

		err := r.db.Create(&row).Error
		switch {
		case err == nil:
			result.Inserted++
		case errors.Is(err, gorm.ErrDuplicatedKey):
			result.Skipped++
		default:
			result.Errors++
		}
	}
	return result, nil
}

// Query returns rows matching all supplied filters, ordered by invoice date.
func (r *GormRowRepository) Query(filter RowFilter) ([]models.DataRow, error) {
	q := r.db.Model(&models.DataRow{})
	if filter.Org != "" {
		q = q.Where("org = ?", filter.Org)
	}
	if len(filter.Locations) > 0 {
		q = q.Where("location IN ?", filter.Locations)
	}
	if filter.StartDate != nil {
		q = q.Where("invoice_date >= ?", filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("invoice_date <= ?", filter.EndDate)
	}

	var rows []models.DataRow
	if err := q.Order("invoice_date").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DistinctOrgs enumerates organizations recorded on uploads.
func (r *GormRowRepository) DistinctOrgs() ([]string, error) {
	var orgs []string
	err := r.db.Model(&models.Upload{}).
		Where("org <> ''").
		Distinct().
		Pluck("org", &orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

// DistinctLocations enumerates row locations, optionally scoped to an org.
func (r *GormRowRepository) DistinctLocations(org string) ([]string, error) {
	q := r.db.Model(&models.DataRow{}).Where("location <> ''")
	if org != "" {
		q = q.Where("org = ?", org)
	}

	var locations []string
	if err := q.Distinct().Pluck("location", &locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// ListUploads returns upload history, newest first.
func (r *GormRowRepository) ListUploads(params utils.PaginationParams) ([]models.Upload, int64, error) {
	var total int64
	if err := r.db.Model(&models.Upload{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var uploads []models.Upload
	err := r.db.Order("uploaded_at DESC").
		Scopes(database.Paginate(params)).
		Find(&uploads).Error
	if err != nil {
		return nil, 0, err
	}
	return uploads, total, nil
}

// DeleteUpload removes an upload and its rows in one transaction. The
// explicit row delete keeps the cascade working on databases where the
// foreign key constraint is not enforced.
func (r *GormRowRepository) DeleteUpload(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("upload_id = ?", id).Delete(&models.DataRow{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Upload{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUploadNotFound
		}
		return nil
	})
}
