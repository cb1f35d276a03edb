package mirror

import (
	"crypto/md5"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"brokerage-portal/internal/models"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(host, port, user, password, dbname string) (*GormStore, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	// Test connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &GormStore{db: db}, nil
}

// NewGormStoreFromDB wraps an existing gorm.DB instance (used by tests).
func NewGormStoreFromDB(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB returns the underlying gorm.DB for the MySQL-only services (admin
// stats, history, cleanup).
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (s *GormStore) InitSchema() error {
	return s.db.AutoMigrate(
		&models.Listing{},
		&models.ListingSnapshot{},
		&models.ListingChange{},
		&models.PurgeLog{},
	)
}

// SaveListing upserts a listing by slug, preserving mirror bookkeeping
// (original CreatedAt, Status, RemovedAt) across syncs.
func (s *GormStore) SaveListing(l *models.Listing) error {
	if l.ID == "" {
		l.ID = generateMD5(string(l.Kind) + ":" + l.Slug)
	}
	if l.FetchedAt.IsZero() {
		l.FetchedAt = time.Now()
	}
	if l.Status == "" {
		l.Status = models.ListingStatusActive
	}

	var existing models.Listing
	result := s.db.Where("slug = ?", l.Slug).First(&existing)

	if result.Error == gorm.ErrRecordNotFound {
		return s.db.Create(l).Error
	} else if result.Error != nil {
		return result.Error
	}

	l.CreatedAt = existing.CreatedAt
	l.ID = existing.ID
	l.Status = existing.Status
	l.RemovedAt = existing.RemovedAt
	return s.db.Save(l).Error
}

// GetActiveListings retrieves active listings of a kind, newest first.
func (s *GormStore) GetActiveListings(kind models.Kind) ([]models.Listing, error) {
	var listings []models.Listing
	q := s.db.Where("status = ?", models.ListingStatusActive)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	err := q.Order("created_at DESC").Find(&listings).Error
	return listings, err
}

// GetListingBySlug retrieves a listing by slug.
func (s *GormStore) GetListingBySlug(slug string) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Where("slug = ?", slug).First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// MarkListingsAsRemoved logically removes listings that vanished upstream.
func (s *GormStore) MarkListingsAsRemoved(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now()
	return s.db.Model(&models.Listing{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     models.ListingStatusRemoved,
			"removed_at": &now,
		}).Error
}

// PriceBounds returns the min/max price across active listings, for the
// filter UI's price slider. Nil when no listing carries a price.
func (s *GormStore) PriceBounds() (*models.PriceBounds, error) {
	var bounds struct {
		Min *float64
		Max *float64
	}
	err := s.db.Model(&models.Listing{}).
		Select("MIN(price) as min, MAX(price) as max").
		Where("status = ? AND price IS NOT NULL", models.ListingStatusActive).
		Scan(&bounds).Error
	if err != nil {
		return nil, err
	}
	if bounds.Min == nil || bounds.Max == nil {
		return nil, nil
	}
	return &models.PriceBounds{Min: *bounds.Min, Max: *bounds.Max}, nil
}

// DistinctValues returns the distinct non-empty values of a listing column
// among active listings, for facet vocabularies.
func (s *GormStore) DistinctValues(column string) ([]string, error) {
	var values []string
	err := s.db.Model(&models.Listing{}).
		Distinct(column).
		Where("status = ? AND "+column+" != ''", models.ListingStatusActive).
		Order(column).
		Pluck(column, &values).Error
	return values, err
}

// generateMD5 generates an MD5 hash for a string
func generateMD5(text string) string {
	hash := md5.Sum([]byte(text))
	return fmt.Sprintf("%x", hash)
}
