// AngelaMos | 2026
// entity.go

package listing

import (
	"time"
)

type Listing struct {
	ID           string   `db:"id"             json:"id"`
	Title        string   `db:"title"          json:"title"`
	Description  *string  `db:"description"    json:"description"`
	Price        float64  `db:"price"          json:"price"`
	Address      string   `db:"address"        json:"address"`
	City         *string  `db:"city"           json:"city"`
	Province     *string  `db:"province"       json:"province"`
	PostalCode   *string  `db:"postal_code"    json:"postal_code"`
	Latitude     *float64 `db:"latitude"       json:"latitude"`
	Longitude    *float64 `db:"longitude"      json:"longitude"`
	Geohash      *string  `db:"geohash"        json:"geohash"`
	Bedrooms     *int     `db:"bedrooms"       json:"bedrooms"`
	Bathrooms    *int     `db:"bathrooms"      json:"bathrooms"`
	AreaSqm      *float64 `db:"area_sqm"       json:"area_sqm"`
	PropertyType *string  `db:"property_type"  json:"property_type"`
	MainImageURL *string  `db:"main_image_url" json:"main_image_url"`
	Source       string   `db:"source"         json:"source"`
	Status       string   `db:"status"         json:"status"`
	UserID       string   `db:"user_id"        json:"user_id"`

	IsChargedListing bool       `db:"is_charged_listing" json:"is_charged_listing"`
	ListingTier      *string    `db:"listing_tier"       json:"listing_tier"`
	PaymentStatus    *string    `db:"payment_status"     json:"payment_status"`
	TransactionID    *string    `db:"transaction_id"     json:"transaction_id"`
	PaymentDate      *time.Time `db:"payment_date"       json:"payment_date"`
	TierExpiryDate   *time.Time `db:"tier_expiry_date"   json:"tier_expiry_date"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (l *Listing) IsOwnedBy(userID string) bool {
	return l.UserID == userID
}

// Upgrade is the monetization transition applied after a successful
// charge. It is the only way the monetization columns change.
type Upgrade struct {
	Tier           string
	TransactionID  string
	PaymentDate    time.Time
	TierExpiryDate time.Time
}

const (
	SourceManual  = "manual"
	StatusActive  = "active"
	PaymentPaid   = "paid"
	geohashLength = 9
)
