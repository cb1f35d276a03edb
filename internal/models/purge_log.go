package models

import "time"

// PurgeLog records listings physically deleted from the mirror after their
// retention period.
type PurgeLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingID string    `gorm:"type:varchar(64);not null;index" json:"listing_id"`
	Slug      string    `gorm:"type:varchar(200)" json:"slug"`
	Title     string    `gorm:"type:text" json:"title"`
	RemovedAt time.Time `gorm:"type:datetime" json:"removed_at"`
	DeletedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"deleted_at"`
	Reason    string    `gorm:"type:varchar(50);not null" json:"reason"`
}

func (PurgeLog) TableName() string {
	return "purge_logs"
}

// PurgeReason constants
const (
	PurgeReasonExpired   = "expired_retention"
	PurgeReasonDuplicate = "duplicate"
	PurgeReasonManual    = "manual_deletion"
)
