package cleanup

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"brokerage-portal/internal/models"
)

// Service physically purges mirrored listings that have been in removed
// state past their retention period.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Config holds cleanup run parameters.
type Config struct {
	RetentionDays    int  // Days a removed listing is kept before purge (default: 90)
	MaxDeletionCount int  // Maximum listings purged in one run (safety limit)
	DryRun           bool // If true, only log what would be purged
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		RetentionDays:    90,
		MaxDeletionCount: 10000,
		DryRun:           false,
	}
}

// Result holds the outcome of one cleanup run.
type Result struct {
	TargetCount     int       `json:"target_count"`
	DeletedCount    int       `json:"deleted_count"`
	ErrorCount      int       `json:"error_count"`
	DryRun          bool      `json:"dry_run"`
	ExecutedAt      time.Time `json:"executed_at"`
	DeletedListings []string  `json:"deleted_listings"`
	Errors          []string  `json:"errors,omitempty"`
}

// FindExpiredListings finds listings eligible for purge: removed, with
// removed_at older than retentionDays.
func (s *Service) FindExpiredListings(retentionDays int) ([]models.Listing, error) {
	var listings []models.Listing

	cutoffDate := time.Now().AddDate(0, 0, -retentionDays)

	err := s.db.Where("status = ? AND removed_at < ?",
		models.ListingStatusRemoved,
		cutoffDate,
	).Find(&listings).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find expired listings: %w", err)
	}

	log.Printf("[Cleanup] found %d listings expired before %s", len(listings), cutoffDate.Format("2006-01-02"))
	return listings, nil
}

// Purge performs physical deletion of expired listings.
func (s *Service) Purge(config Config) (*Result, error) {
	result := &Result{
		DryRun:     config.DryRun,
		ExecutedAt: time.Now(),
	}

	expired, err := s.FindExpiredListings(config.RetentionDays)
	if err != nil {
		return nil, err
	}

	result.TargetCount = len(expired)
	if result.TargetCount == 0 {
		log.Println("[Cleanup] no expired listings found")
		return result, nil
	}

	// Safety check: abort if too many listings would be purged
	if result.TargetCount > config.MaxDeletionCount {
		return nil, fmt.Errorf("safety check failed: %d listings exceed max deletion limit of %d",
			result.TargetCount, config.MaxDeletionCount)
	}

	log.Printf("[Cleanup] starting: %d listings to purge (retention: %d days, dry-run: %v)",
		result.TargetCount, config.RetentionDays, config.DryRun)

	for _, listing := range expired {
		if config.DryRun {
			log.Printf("[Cleanup] [DRY-RUN] would purge listing %s (title: %s, removed: %s)",
				listing.ID, listing.Title, listing.RemovedAt.Format("2006-01-02"))
			result.DeletedListings = append(result.DeletedListings, listing.ID)
			result.DeletedCount++
			continue
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			purgeLog := models.PurgeLog{
				ListingID: listing.ID,
				Slug:      listing.Slug,
				Title:     listing.Title,
				RemovedAt: *listing.RemovedAt,
				Reason:    models.PurgeReasonExpired,
			}
			if err := tx.Create(&purgeLog).Error; err != nil {
				return fmt.Errorf("create purge log: %w", err)
			}

			// Snapshots and change rows stay: history outlives the listing row
			if err := tx.Delete(&listing).Error; err != nil {
				return fmt.Errorf("delete listing: %w", err)
			}
			return nil
		})

		if err != nil {
			errMsg := fmt.Sprintf("purge of listing %s failed: %v", listing.ID, err)
			log.Printf("[Cleanup] ERROR: %s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.ErrorCount++
			continue
		}

		log.Printf("[Cleanup] purged listing %s (title: %s)", listing.ID, listing.Title)
		result.DeletedListings = append(result.DeletedListings, listing.ID)
		result.DeletedCount++
	}

	log.Printf("[Cleanup] completed: %d/%d purged, %d errors (dry-run: %v)",
		result.DeletedCount, result.TargetCount, result.ErrorCount, config.DryRun)

	return result, nil
}

// GetPurgeStats returns statistics about purged listings.
func (s *Service) GetPurgeStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalPurged int64
	if err := s.db.Model(&models.PurgeLog{}).Count(&totalPurged).Error; err != nil {
		return nil, err
	}
	stats["total_purged"] = totalPurged

	var reasonCounts []struct {
		Reason string
		Count  int64
	}
	if err := s.db.Model(&models.PurgeLog{}).
		Select("reason, count(*) as count").
		Group("reason").
		Scan(&reasonCounts).Error; err != nil {
		return nil, err
	}

	reasonMap := make(map[string]int64)
	for _, rc := range reasonCounts {
		reasonMap[rc.Reason] = rc.Count
	}
	stats["by_reason"] = reasonMap

	var recentPurged int64
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := s.db.Model(&models.PurgeLog{}).
		Where("deleted_at >= ?", thirtyDaysAgo).
		Count(&recentPurged).Error; err != nil {
		return nil, err
	}
	stats["purged_last_30_days"] = recentPurged

	var currentRemoved int64
	if err := s.db.Model(&models.Listing{}).
		Where("status = ?", models.ListingStatusRemoved).
		Count(&currentRemoved).Error; err != nil {
		return nil, err
	}
	stats["currently_removed"] = currentRemoved

	expired, err := s.FindExpiredListings(90)
	if err != nil {
		return nil, err
	}
	stats["expired_ready_for_purge"] = len(expired)

	return stats, nil
}

// GetRecentPurgeLogs returns recent purge log entries.
func (s *Service) GetRecentPurgeLogs(limit int) ([]models.PurgeLog, error) {
	var logs []models.PurgeLog
	err := s.db.Order("deleted_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
