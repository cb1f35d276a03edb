package history

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"brokerage-portal/internal/models"
)

// Service records listing snapshots at sync time and detects field-level
// changes between syncs. Price drops feed the "reduced" badge on detail
// pages.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// DetectChanges compares current listing state with the most recent snapshot.
func (s *Service) DetectChanges(listing *models.Listing) ([]models.ListingChange, error) {
	var lastSnapshot models.ListingSnapshot
	today := time.Now().Truncate(24 * time.Hour)

	result := s.db.Where("listing_id = ? AND snapshot_at < ?", listing.ID, today).
		Order("snapshot_at DESC").
		First(&lastSnapshot)

	if result.Error == gorm.ErrRecordNotFound {
		// No previous snapshot, this is a new listing
		return []models.ListingChange{{
			ListingID:  listing.ID,
			ChangeType: models.ChangeTypeNew,
			NewValue:   "New listing detected",
			DetectedAt: time.Now(),
		}}, nil
	} else if result.Error != nil {
		return nil, result.Error
	}

	changes := []models.ListingChange{}

	// Price change
	if !floatPtrEqual(listing.Price, lastSnapshot.Price) {
		oldVal, newVal := "nil", "nil"
		var magnitude float64

		if lastSnapshot.Price != nil {
			oldVal = fmt.Sprintf("%.2f", *lastSnapshot.Price)
		}
		if listing.Price != nil {
			newVal = fmt.Sprintf("%.2f", *listing.Price)
		}
		if lastSnapshot.Price != nil && listing.Price != nil {
			magnitude = *listing.Price - *lastSnapshot.Price
		}

		changes = append(changes, models.ListingChange{
			ListingID:       listing.ID,
			ChangeType:      models.ChangeTypePrice,
			OldValue:        oldVal,
			NewValue:        newVal,
			ChangeMagnitude: &magnitude,
			DetectedAt:      time.Now(),
		})
	}

	// Status change
	if string(listing.Status) != lastSnapshot.Status {
		changes = append(changes, models.ListingChange{
			ListingID:  listing.ID,
			ChangeType: models.ChangeTypeStatus,
			OldValue:   lastSnapshot.Status,
			NewValue:   string(listing.Status),
			DetectedAt: time.Now(),
		})
	}

	// Area change
	if !floatPtrEqual(listing.Area, lastSnapshot.Area) {
		oldVal, newVal := "nil", "nil"
		if lastSnapshot.Area != nil {
			oldVal = fmt.Sprintf("%.2f", *lastSnapshot.Area)
		}
		if listing.Area != nil {
			newVal = fmt.Sprintf("%.2f", *listing.Area)
		}

		changes = append(changes, models.ListingChange{
			ListingID:  listing.ID,
			ChangeType: models.ChangeTypeArea,
			OldValue:   oldVal,
			NewValue:   newVal,
			DetectedAt: time.Now(),
		})
	}

	// Category change
	if listing.Category != lastSnapshot.Category {
		changes = append(changes, models.ListingChange{
			ListingID:  listing.ID,
			ChangeType: models.ChangeTypeCategory,
			OldValue:   lastSnapshot.Category,
			NewValue:   listing.Category,
			DetectedAt: time.Now(),
		})
	}

	// Furnishing change
	if listing.FurnishingStatus != lastSnapshot.FurnishingStatus {
		changes = append(changes, models.ListingChange{
			ListingID:  listing.ID,
			ChangeType: models.ChangeTypeFurnishing,
			OldValue:   lastSnapshot.FurnishingStatus,
			NewValue:   listing.FurnishingStatus,
			DetectedAt: time.Now(),
		})
	}

	return changes, nil
}

// SaveChanges saves detected changes to the database
func (s *Service) SaveChanges(changes []models.ListingChange, snapshotID uint) error {
	if len(changes) == 0 {
		return nil
	}
	for i := range changes {
		changes[i].SnapshotID = snapshotID
	}
	return s.db.Create(&changes).Error
}

// RecordSnapshot creates (or refreshes) today's snapshot for the listing and
// persists any detected changes.
func (s *Service) RecordSnapshot(listing *models.Listing) error {
	changes, err := s.DetectChanges(listing)
	if err != nil {
		log.Printf("[History] change detection failed for listing %s: %v", listing.ID, err)
	}

	snapshot := &models.ListingSnapshot{
		ListingID:        listing.ID,
		SnapshotAt:       time.Now().Truncate(24 * time.Hour),
		Price:            listing.Price,
		Area:             listing.Area,
		Category:         listing.Category,
		MarketType:       string(listing.MarketType),
		FurnishingStatus: listing.FurnishingStatus,
		Status:           string(listing.Status),
		HasChanged:       len(changes) > 0,
	}
	if len(changes) > 0 {
		snapshot.ChangeNote = fmt.Sprintf("%d changes detected", len(changes))
	}

	// One snapshot per listing per day
	var existing models.ListingSnapshot
	result := s.db.Where("listing_id = ? AND snapshot_at = ?", listing.ID, snapshot.SnapshotAt).First(&existing)

	if result.Error == gorm.ErrRecordNotFound {
		if err := s.db.Create(snapshot).Error; err != nil {
			return err
		}
	} else if result.Error != nil {
		return result.Error
	} else {
		snapshot.ID = existing.ID
		if err := s.db.Save(snapshot).Error; err != nil {
			return err
		}
	}

	if len(changes) > 0 {
		if err := s.SaveChanges(changes, snapshot.ID); err != nil {
			log.Printf("[History] failed to save changes: %v", err)
		} else {
			log.Printf("[History] detected %d changes for listing %s", len(changes), listing.ID)
		}
	}

	return nil
}

// GetListingHistory retrieves snapshot history for a listing
func (s *Service) GetListingHistory(listingID string, limit int) ([]models.ListingSnapshot, error) {
	var snapshots []models.ListingSnapshot
	query := s.db.Where("listing_id = ?", listingID).Order("snapshot_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

// GetRecentChanges retrieves recent listing changes
func (s *Service) GetRecentChanges(limit int) ([]models.ListingChange, error) {
	var changes []models.ListingChange
	query := s.db.Order("detected_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
