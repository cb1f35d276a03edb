package mirror

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"brokerage-portal/internal/models"
)

type PostgresStore struct {
	conn *sql.DB
}

func NewPostgresStore(host, port, user, password, dbname string) (*PostgresStore, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return &PostgresStore{conn: conn}, nil
}

func (s *PostgresStore) Close() error {
	return s.conn.Close()
}

// InitSchema creates the listings table if it doesn't exist
func (s *PostgresStore) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS listings (
		id VARCHAR(64) PRIMARY KEY,
		slug VARCHAR(200) NOT NULL UNIQUE,
		kind VARCHAR(20) NOT NULL,
		title TEXT NOT NULL,
		description TEXT,

		-- Filter fields
		category VARCHAR(40),
		market_type VARCHAR(20),
		location TEXT,
		neighborhood_id VARCHAR(64),
		neighborhood_name VARCHAR(200),
		developer_id VARCHAR(64),
		developer_name VARCHAR(200),
		lifestyle_id VARCHAR(64),
		lifestyle_name VARCHAR(200),
		price DECIMAL(14, 2),
		area DECIMAL(10, 2),
		bedrooms INTEGER,
		bathrooms INTEGER,
		amenities TEXT,
		views TEXT,
		features TEXT,
		completion_year VARCHAR(10),
		completion_date VARCHAR(40),
		furnishing_status VARCHAR(30),
		rental_period VARCHAR(20),
		images TEXT,

		status VARCHAR(20) NOT NULL DEFAULT 'active',
		removed_at TIMESTAMP,
		fetched_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	-- Indexes for filtering
	CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_listings_kind ON listings(kind);
	CREATE INDEX IF NOT EXISTS idx_listings_market_type ON listings(market_type);
	CREATE INDEX IF NOT EXISTS idx_listings_category ON listings(category);
	CREATE INDEX IF NOT EXISTS idx_listings_price ON listings(price);
	CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);
	`
	_, err := s.conn.Exec(query)
	return err
}

const listingColumns = `
	id, slug, kind, title, description,
	category, market_type, location,
	neighborhood_id, neighborhood_name,
	developer_id, developer_name,
	lifestyle_id, lifestyle_name,
	price, area, bedrooms, bathrooms,
	amenities, views, features,
	completion_year, completion_date, furnishing_status, rental_period,
	images, status, removed_at, fetched_at, created_at`

// SaveListing upserts a listing by slug.
func (s *PostgresStore) SaveListing(l *models.Listing) error {
	if l.ID == "" {
		l.ID = generateMD5(string(l.Kind) + ":" + l.Slug)
	}
	if l.FetchedAt.IsZero() {
		l.FetchedAt = time.Now()
	}
	if l.Status == "" {
		l.Status = models.ListingStatusActive
	}

	query := `
	INSERT INTO listings (` + listingColumns + `, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
	        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)
	ON CONFLICT (slug) DO UPDATE SET
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		category = EXCLUDED.category,
		market_type = EXCLUDED.market_type,
		location = EXCLUDED.location,
		neighborhood_id = EXCLUDED.neighborhood_id,
		neighborhood_name = EXCLUDED.neighborhood_name,
		developer_id = EXCLUDED.developer_id,
		developer_name = EXCLUDED.developer_name,
		lifestyle_id = EXCLUDED.lifestyle_id,
		lifestyle_name = EXCLUDED.lifestyle_name,
		price = EXCLUDED.price,
		area = EXCLUDED.area,
		bedrooms = EXCLUDED.bedrooms,
		bathrooms = EXCLUDED.bathrooms,
		amenities = EXCLUDED.amenities,
		views = EXCLUDED.views,
		features = EXCLUDED.features,
		completion_year = EXCLUDED.completion_year,
		completion_date = EXCLUDED.completion_date,
		furnishing_status = EXCLUDED.furnishing_status,
		rental_period = EXCLUDED.rental_period,
		images = EXCLUDED.images,
		fetched_at = EXCLUDED.fetched_at,
		updated_at = NOW()
	`
	now := time.Now()
	_, err := s.conn.Exec(query,
		l.ID, l.Slug, l.Kind, l.Title, l.Description,
		l.Category, l.MarketType, l.Location,
		l.Neighborhood.ID, l.Neighborhood.Name,
		l.Developer.ID, l.Developer.Name,
		l.Lifestyle.ID, l.Lifestyle.Name,
		l.Price, l.Area, l.Bedrooms, l.Bathrooms,
		l.Amenities, l.Views, l.Features,
		l.CompletionYear, l.CompletionDate, l.FurnishingStatus, l.RentalPeriod,
		l.Images, l.Status, l.RemovedAt, l.FetchedAt, now, now)
	return err
}

// GetActiveListings retrieves active listings of a kind, newest first.
func (s *PostgresStore) GetActiveListings(kind models.Kind) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE status = $1`
	args := []interface{}{models.ListingStatusActive}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanListings(rows)
}

// GetListingBySlug retrieves a listing by slug.
func (s *PostgresStore) GetListingBySlug(slug string) (*models.Listing, error) {
	row := s.conn.QueryRow(`SELECT `+listingColumns+` FROM listings WHERE slug = $1`, slug)
	return scanListing(row)
}

// MarkListingsAsRemoved logically removes listings that vanished upstream.
func (s *PostgresStore) MarkListingsAsRemoved(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now()
	for _, id := range ids {
		_, err := s.conn.Exec(
			`UPDATE listings SET status = $1, removed_at = $2, updated_at = $2 WHERE id = $3`,
			models.ListingStatusRemoved, now, id)
		if err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row rowScanner) (*models.Listing, error) {
	var l models.Listing
	err := row.Scan(
		&l.ID, &l.Slug, &l.Kind, &l.Title, &l.Description,
		&l.Category, &l.MarketType, &l.Location,
		&l.Neighborhood.ID, &l.Neighborhood.Name,
		&l.Developer.ID, &l.Developer.Name,
		&l.Lifestyle.ID, &l.Lifestyle.Name,
		&l.Price, &l.Area, &l.Bedrooms, &l.Bathrooms,
		&l.Amenities, &l.Views, &l.Features,
		&l.CompletionYear, &l.CompletionDate, &l.FurnishingStatus, &l.RentalPeriod,
		&l.Images, &l.Status, &l.RemovedAt, &l.FetchedAt, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanListings(rows *sql.Rows) ([]models.Listing, error) {
	var listings []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}
