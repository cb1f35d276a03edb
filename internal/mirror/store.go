package mirror

import "brokerage-portal/internal/models"

// Store is the local mirror of CMS listings. It keeps views serving when the
// CMS is unreachable and backs the admin statistics. Two backends exist,
// selected by configuration: MySQL via GORM (the full-featured one, with
// history and cleanup) and PostgreSQL via database/sql.
type Store interface {
	InitSchema() error
	SaveListing(l *models.Listing) error
	GetActiveListings(kind models.Kind) ([]models.Listing, error)
	GetListingBySlug(slug string) (*models.Listing, error)
	MarkListingsAsRemoved(ids []string) error
	Close() error
}
