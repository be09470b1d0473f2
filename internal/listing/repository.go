// AngelaMos | 2026
// repository.go

package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/propsunday/classifieds-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id string) (*Listing, error)
	Update(ctx context.Context, l *Listing) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f *Filter, page Page) ([]Listing, int, error)
	ApplyUpgrade(ctx context.Context, id string, u Upgrade) (*Listing, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const listingColumns = `id, title, description, price, address, city, province,
		postal_code, latitude, longitude, geohash, bedrooms, bathrooms, area_sqm,
		property_type, main_image_url, source, status, user_id,
		is_charged_listing, listing_tier, payment_status, transaction_id,
		payment_date, tier_expiry_date, created_at, updated_at`

func (r *repository) Create(ctx context.Context, l *Listing) error {
	query := `
		INSERT INTO listings (
			id, title, description, price, address, city, province,
			postal_code, latitude, longitude, geohash, bedrooms, bathrooms,
			area_sqm, property_type, main_image_url, source, status, user_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19
		)
		RETURNING is_charged_listing, created_at, updated_at`

	err := r.db.GetContext(ctx, l, query,
		l.ID,
		l.Title,
		l.Description,
		l.Price,
		l.Address,
		l.City,
		l.Province,
		l.PostalCode,
		l.Latitude,
		l.Longitude,
		l.Geohash,
		l.Bedrooms,
		l.Bathrooms,
		l.AreaSqm,
		l.PropertyType,
		l.MainImageURL,
		l.Source,
		l.Status,
		l.UserID,
	)
	if core.IsConstraintViolation(err) {
		return fmt.Errorf("create listing: %w", core.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("create listing: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	var l Listing
	err := r.db.GetContext(ctx, &l, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get listing: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}

	return &l, nil
}

// Update writes the descriptive columns only. Owner and monetization
// columns are never touched here.
func (r *repository) Update(ctx context.Context, l *Listing) error {
	query := `
		UPDATE listings
		SET title = $2, description = $3, price = $4, address = $5,
		    city = $6, province = $7, postal_code = $8, latitude = $9,
		    longitude = $10, geohash = $11, bedrooms = $12, bathrooms = $13,
		    area_sqm = $14, property_type = $15, main_image_url = $16,
		    status = $17, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &l.UpdatedAt, query,
		l.ID,
		l.Title,
		l.Description,
		l.Price,
		l.Address,
		l.City,
		l.Province,
		l.PostalCode,
		l.Latitude,
		l.Longitude,
		l.Geohash,
		l.Bedrooms,
		l.Bathrooms,
		l.AreaSqm,
		l.PropertyType,
		l.MainImageURL,
		l.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update listing: %w", core.ErrNotFound)
	}
	if core.IsConstraintViolation(err) {
		return fmt.Errorf("update listing: %w", core.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete listing: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	f *Filter,
	page Page,
) ([]Listing, int, error) {
	whereClause, args := f.where()

	var total int
	countQuery := "SELECT COUNT(*) FROM listings WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	listings := []Listing{}
	if total == 0 {
		return listings, 0, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM listings
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`,
		listingColumns, whereClause, len(args)+1, len(args)+2)

	args = append(args, page.PerPage, page.Offset())

	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}

	return listings, total, nil
}

// ApplyUpgrade sets the whole monetization sub-state in one statement so
// readers never observe a partially upgraded listing.
func (r *repository) ApplyUpgrade(
	ctx context.Context,
	id string,
	u Upgrade,
) (*Listing, error) {
	query := `
		UPDATE listings
		SET is_charged_listing = TRUE,
		    listing_tier = $2,
		    payment_status = $3,
		    transaction_id = $4,
		    payment_date = $5,
		    tier_expiry_date = $6,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + listingColumns

	var l Listing
	err := r.db.GetContext(ctx, &l, query,
		id,
		u.Tier,
		PaymentPaid,
		u.TransactionID,
		u.PaymentDate,
		u.TierExpiryDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("apply upgrade: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("apply upgrade: %w", err)
	}

	return &l, nil
}
