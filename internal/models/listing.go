package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies a CMS content collection.
type Kind string

const (
	KindProperty     Kind = "property"
	KindProject      Kind = "project"
	KindNeighborhood Kind = "neighborhood"
	KindDeveloper    Kind = "developer"
	KindLifestyle    Kind = "lifestyle"
)

// MarketType is the closed enum of listing markets.
type MarketType string

const (
	MarketBuy       MarketType = "buy"
	MarketRent      MarketType = "rent"
	MarketOffPlan   MarketType = "off-plan"
	MarketSecondary MarketType = "secondary-market"
)

// FurnishingStatus values
const (
	FurnishedFull    = "furnished"
	FurnishedNone    = "unfurnished"
	FurnishedPartial = "partially-furnished"
)

type Listing struct {
	ID   string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Slug string `gorm:"type:varchar(200);not null;uniqueIndex" json:"slug"`
	Kind Kind   `gorm:"type:varchar(20);not null;index" json:"kind"`

	Title       string `gorm:"type:text;not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Filter attributes
	Category     string     `gorm:"type:varchar(40);index" json:"category,omitempty"`
	MarketType   MarketType `gorm:"type:varchar(20);index" json:"marketType,omitempty"`
	Location     string     `gorm:"type:text" json:"location,omitempty"`
	Neighborhood Ref        `gorm:"embedded;embeddedPrefix:neighborhood_" json:"neighborhood,omitempty"`
	Developer    Ref        `gorm:"embedded;embeddedPrefix:developer_" json:"developer,omitempty"`
	Lifestyle    Ref        `gorm:"embedded;embeddedPrefix:lifestyle_" json:"lifestyle,omitempty"`

	Price     *float64 `gorm:"type:decimal(14,2);index" json:"price,omitempty"`
	Area      *float64 `gorm:"type:decimal(10,2)" json:"area,omitempty"`
	Bedrooms  *int     `gorm:"type:int;index" json:"bedrooms,omitempty"`
	Bathrooms *int     `gorm:"type:int" json:"bathrooms,omitempty"`

	Amenities StringList `gorm:"type:text" json:"amenities,omitempty"`
	Views     StringList `gorm:"type:text" json:"views,omitempty"`
	Features  StringList `gorm:"type:text" json:"features,omitempty"`

	CompletionYear   string `gorm:"type:varchar(10)" json:"completionYear,omitempty"`
	CompletionDate   string `gorm:"type:varchar(40)" json:"completionDate,omitempty"`
	FurnishingStatus string `gorm:"type:varchar(30)" json:"furnishingStatus,omitempty"`
	RentalPeriod     string `gorm:"type:varchar(20)" json:"rentalPeriod,omitempty"`

	Images StringList `gorm:"type:text" json:"images,omitempty"`

	// Resolved CDN URLs for Images; filled by the API layer, never stored
	ImageURLs []string `gorm:"-" json:"imageUrls,omitempty"`

	// Mirror bookkeeping (logical removal when a record vanishes upstream)
	Status    ListingStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	RemovedAt *time.Time    `gorm:"type:datetime" json:"removed_at,omitempty"`

	FetchedAt time.Time `gorm:"type:datetime;not null" json:"fetched_at"`
	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index:idx_listings_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`
}

type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "active"
	ListingStatusRemoved ListingStatus = "removed"
)

func (Listing) TableName() string {
	return "listings"
}

func (l *Listing) IsActive() bool {
	return l.Status == ListingStatusActive
}

func (l *Listing) MarkAsRemoved() {
	l.Status = ListingStatusRemoved
	now := time.Now()
	l.RemovedAt = &now
}

// Ref is a CMS reference field. Upstream it arrives either as a plain string
// or as an object carrying an id and a name; both forms normalize to the same
// struct at decode time so comparisons never branch on shape.
type Ref struct {
	ID   string `gorm:"type:varchar(64)" json:"id,omitempty"`
	Name string `gorm:"type:varchar(200)" json:"name,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Name = s
		return nil
	}

	var obj struct {
		ID    string `json:"_id"`
		RefID string `json:"_ref"`
		Name  string `json:"name"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("reference is neither string nor object: %w", err)
	}

	r.ID = obj.ID
	if r.ID == "" {
		r.ID = obj.RefID
	}
	r.Name = obj.Name
	if r.Name == "" {
		r.Name = obj.Title
	}
	return nil
}

// IsZero reports whether the reference is entirely unset.
func (r Ref) IsZero() bool {
	return r.ID == "" && r.Name == ""
}

func (r Ref) String() string {
	return r.Name
}

// StringList is a list column stored as JSON text. Decoding accepts mixed
// entries: plain strings and objects with a name field (amenity references).
// Empty entries are dropped.
type StringList []string

func (sl *StringList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(StringList, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s != "" {
				out = append(out, s)
			}
			continue
		}

		var ref Ref
		if err := json.Unmarshal(item, &ref); err != nil {
			return err
		}
		if ref.Name != "" {
			out = append(out, ref.Name)
		}
	}

	*sl = out
	return nil
}

// Value implements driver.Valuer so the list round-trips through both the
// GORM and database/sql mirror backends as a JSON text column.
func (sl StringList) Value() (driver.Value, error) {
	if len(sl) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]string(sl))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (sl *StringList) Scan(src interface{}) error {
	if src == nil {
		*sl = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}

	if len(data) == 0 {
		*sl = nil
		return nil
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*sl = out
	return nil
}
