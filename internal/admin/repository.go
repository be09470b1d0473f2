// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/propsunday/classifieds-api/internal/core"
)

type MarketplaceStats struct {
	Users            int64            `db:"users"             json:"users"`
	Listings         int64            `db:"listings"          json:"listings"`
	ChargedListings  int64            `db:"charged_listings"  json:"charged_listings"`
	Advertisements   int64            `db:"advertisements"    json:"advertisements"`
	TotalClicks      int64            `db:"total_clicks"      json:"total_clicks"`
	TotalImpressions int64            `db:"total_impressions" json:"total_impressions"`
	ListingsByTier   map[string]int64 `db:"-"                 json:"listings_by_tier"`
}

// RoleAssignment is the account a role change landed on.
type RoleAssignment struct {
	ID        string    `db:"id"         json:"id"`
	Email     string    `db:"email"      json:"email"`
	Role      string    `db:"role"       json:"role"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type StatsRepository interface {
	Marketplace(ctx context.Context) (*MarketplaceStats, error)
}

type RoleRepository interface {
	SetRole(ctx context.Context, userID, role string) (*RoleAssignment, error)
}

type Repository interface {
	StatsRepository
	RoleRepository
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Marketplace(ctx context.Context) (*MarketplaceStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM listings) AS listings,
			(SELECT COUNT(*) FROM listings WHERE is_charged_listing) AS charged_listings,
			(SELECT COUNT(*) FROM advertisements) AS advertisements,
			(SELECT COALESCE(SUM(clicks), 0) FROM advertisements) AS total_clicks,
			(SELECT COALESCE(SUM(impressions), 0) FROM advertisements) AS total_impressions`

	var stats MarketplaceStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("marketplace stats: %w", err)
	}

	var tiers []struct {
		Tier  string `db:"listing_tier"`
		Count int64  `db:"count"`
	}
	tierQuery := `
		SELECT listing_tier, COUNT(*) AS count
		FROM listings
		WHERE listing_tier IS NOT NULL
		GROUP BY listing_tier`
	if err := r.db.SelectContext(ctx, &tiers, tierQuery); err != nil {
		return nil, fmt.Errorf("listings by tier: %w", err)
	}

	stats.ListingsByTier = make(map[string]int64, len(tiers))
	for _, t := range tiers {
		stats.ListingsByTier[t.Tier] = t.Count
	}

	return &stats, nil
}

func (r *repository) SetRole(
	ctx context.Context,
	userID, role string,
) (*RoleAssignment, error) {
	query := `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, email, role, updated_at`

	var assigned RoleAssignment
	err := r.db.GetContext(ctx, &assigned, query, userID, role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("set role: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}

	return &assigned, nil
}
