// AngelaMos | 2026
// entity.go

package advertisement

import (
	"time"
)

type Advertisement struct {
	ID             string    `db:"id"              json:"id"`
	Title          string    `db:"title"           json:"title"`
	AdvertiserName string    `db:"advertiser_name" json:"advertiser_name"`
	ImageURL       string    `db:"image_url"       json:"image_url"`
	TargetURL      string    `db:"target_url"      json:"target_url"`
	PlacementArea  string    `db:"placement_area"  json:"placement_area"`
	StartDate      time.Time `db:"start_date"      json:"start_date"`
	EndDate        time.Time `db:"end_date"        json:"end_date"`
	IsActive       bool      `db:"is_active"       json:"is_active"`
	Clicks         int64     `db:"clicks"          json:"clicks"`
	Impressions    int64     `db:"impressions"     json:"impressions"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updated_at"`
}
