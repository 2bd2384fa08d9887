package models

import "time"

// Upload records one file-upload event. It is immutable after creation;
// deleting it removes every DataRow it produced.
type Upload struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	Filename      string    `gorm:"type:varchar(255)" json:"filename"`
	Org           string    `gorm:"type:varchar(255)" json:"org"`
	StoreLocation string    `gorm:"type:varchar(255)" json:"store_location"`
	UploadedAt    time.Time `gorm:"autoCreateTime" json:"uploaded_at"`

	// Relations
	Rows []DataRow `gorm:"foreignKey:UploadID;constraint:OnDelete:CASCADE" json:"-"`
}
