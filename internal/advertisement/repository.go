// AngelaMos | 2026
// repository.go

package advertisement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/propsunday/classifieds-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, ad *Advertisement) error
	GetByID(ctx context.Context, id string) (*Advertisement, error)
	Update(ctx context.Context, ad *Advertisement) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListParams, now time.Time) ([]Advertisement, error)
	TrackClick(ctx context.Context, id string) (string, error)
	TrackImpression(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const adColumns = `id, title, advertiser_name, image_url, target_url,
		placement_area, start_date, end_date, is_active,
		COALESCE(clicks, 0) AS clicks, COALESCE(impressions, 0) AS impressions,
		created_at, updated_at`

func (r *repository) Create(ctx context.Context, ad *Advertisement) error {
	query := `
		INSERT INTO advertisements (
			id, title, advertiser_name, image_url, target_url,
			placement_area, start_date, end_date, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING COALESCE(clicks, 0) AS clicks,
		          COALESCE(impressions, 0) AS impressions,
		          created_at, updated_at`

	err := r.db.GetContext(ctx, ad, query,
		ad.ID,
		ad.Title,
		ad.AdvertiserName,
		ad.ImageURL,
		ad.TargetURL,
		ad.PlacementArea,
		ad.StartDate,
		ad.EndDate,
		ad.IsActive,
	)
	if core.IsConstraintViolation(err) {
		return fmt.Errorf("create advertisement: %w", core.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("create advertisement: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Advertisement, error) {
	query := `SELECT ` + adColumns + ` FROM advertisements WHERE id = $1`

	var ad Advertisement
	err := r.db.GetContext(ctx, &ad, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get advertisement: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get advertisement: %w", err)
	}

	return &ad, nil
}

// Update rewrites the editable columns. Counters are left to the tracking
// statements so a concurrent click is never overwritten.
func (r *repository) Update(ctx context.Context, ad *Advertisement) error {
	query := `
		UPDATE advertisements
		SET title = $2, advertiser_name = $3, image_url = $4, target_url = $5,
		    placement_area = $6, start_date = $7, end_date = $8, is_active = $9,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &ad.UpdatedAt, query,
		ad.ID,
		ad.Title,
		ad.AdvertiserName,
		ad.ImageURL,
		ad.TargetURL,
		ad.PlacementArea,
		ad.StartDate,
		ad.EndDate,
		ad.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update advertisement: %w", core.ErrNotFound)
	}
	if core.IsConstraintViolation(err) {
		return fmt.Errorf("update advertisement: %w", core.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("update advertisement: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM advertisements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete advertisement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete advertisement: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete advertisement: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
	now time.Time,
) ([]Advertisement, error) {
	conditions := []string{"TRUE"}
	var args []any

	if params.PlacementArea != "" {
		args = append(args, params.PlacementArea)
		conditions = append(conditions, fmt.Sprintf("placement_area = $%d", len(args)))
	}
	if params.ActiveOnly {
		args = append(args, now)
		n := len(args)
		conditions = append(conditions,
			"is_active",
			fmt.Sprintf("start_date <= $%d", n),
			fmt.Sprintf("end_date >= $%d", n),
		)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM advertisements
		WHERE %s
		ORDER BY created_at DESC, id DESC`,
		adColumns, strings.Join(conditions, " AND "))

	ads := []Advertisement{}
	if err := r.db.SelectContext(ctx, &ads, query, args...); err != nil {
		return nil, fmt.Errorf("list advertisements: %w", err)
	}

	return ads, nil
}

// TrackClick increments the click counter as a single delta statement and
// returns the click-through target.
func (r *repository) TrackClick(ctx context.Context, id string) (string, error) {
	query := `
		UPDATE advertisements
		SET clicks = COALESCE(clicks, 0) + 1
		WHERE id = $1
		RETURNING target_url`

	var target string
	err := r.db.GetContext(ctx, &target, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("track click: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("track click: %w", err)
	}

	return target, nil
}

func (r *repository) TrackImpression(ctx context.Context, id string) error {
	query := `
		UPDATE advertisements
		SET impressions = COALESCE(impressions, 0) + 1
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("track impression: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("track impression: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("track impression: %w", core.ErrNotFound)
	}

	return nil
}
