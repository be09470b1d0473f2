// AngelaMos | 2026
// dto.go

package advertisement

// Dates travel as ISO-8601 strings and are parsed by the service so a
// malformed value surfaces as a 400 with a useful message.
type CreateAdvertisementRequest struct {
	Title          string `json:"title"           validate:"required,max=200"`
	AdvertiserName string `json:"advertiser_name" validate:"required,max=200"`
	ImageURL       string `json:"image_url"       validate:"required,max=2048"`
	TargetURL      string `json:"target_url"      validate:"required,url,max=2048"`
	PlacementArea  string `json:"placement_area"  validate:"required,max=100"`
	StartDate      string `json:"start_date"      validate:"required"`
	EndDate        string `json:"end_date"        validate:"required"`
	IsActive       *bool  `json:"is_active"`
}

type UpdateAdvertisementRequest struct {
	Title          *string `json:"title"           validate:"omitempty,min=1,max=200"`
	AdvertiserName *string `json:"advertiser_name" validate:"omitempty,min=1,max=200"`
	ImageURL       *string `json:"image_url"       validate:"omitempty,min=1,max=2048"`
	TargetURL      *string `json:"target_url"      validate:"omitempty,url,max=2048"`
	PlacementArea  *string `json:"placement_area"  validate:"omitempty,min=1,max=100"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	IsActive       *bool   `json:"is_active"`
}

// ListParams narrows GET /advertisements. An empty PlacementArea matches
// every placement.
type ListParams struct {
	PlacementArea string
	ActiveOnly    bool
}
