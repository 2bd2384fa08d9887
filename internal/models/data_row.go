package models

import "time"

// DataRow is one normalized invoice line. Rows are created only by ingestion,
// never mutated, and deleted only when their Upload is deleted.
//
// (row_hash, org) is unique: re-uploading an identical row for the same org is
// a skip, not an error, while the same content under a different org is a
// distinct row.
type DataRow struct {
	ID               uint64     `gorm:"primarykey" json:"id"`
	UploadID         uint64     `gorm:"not null;index" json:"upload_id"`
	InvoiceNo        string     `gorm:"type:varchar(255)" json:"invoice_no"`
	AdvisorRaw       string     `gorm:"column:advisor;type:varchar(255)" json:"advisor"`
	AdvisorCanonical string     `gorm:"type:varchar(255);index" json:"advisor_canonical"`
	InvoiceDate      *time.Time `gorm:"type:date;index" json:"invoice_date"`
	HoursPresented   float64    `json:"hours_presented"`
	HoursSold        float64    `json:"hours_sold"`
	ROID             string     `gorm:"column:ro_id;type:varchar(255)" json:"ro_id"`
	RowHash          string     `gorm:"type:varchar(128);uniqueIndex:idx_data_rows_row_hash_org" json:"row_hash"`
	RawPayload       string     `gorm:"type:text" json:"raw_payload"`
	Org              string     `gorm:"type:varchar(255);uniqueIndex:idx_data_rows_row_hash_org;index" json:"org"`
	Location         string     `gorm:"type:varchar(255);index" json:"location"`

	// Relations
	Upload Upload `gorm:"foreignKey:UploadID" json:"-"`
}
