// AngelaMos | 2026
// dto.go

package listing

type CreateListingRequest struct {
	Title        string   `json:"title"          validate:"required,max=200"`
	Price        *float64 `json:"price"          validate:"required"`
	Address      string   `json:"address"        validate:"required,max=255"`
	Description  *string  `json:"description"`
	City         *string  `json:"city"           validate:"omitempty,max=100"`
	Province     *string  `json:"province"       validate:"omitempty,max=100"`
	PostalCode   *string  `json:"postal_code"    validate:"omitempty,max=20"`
	Latitude     *float64 `json:"latitude"       validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude"      validate:"omitempty,gte=-180,lte=180"`
	Bedrooms     *int     `json:"bedrooms"       validate:"omitempty,gte=0"`
	Bathrooms    *int     `json:"bathrooms"      validate:"omitempty,gte=0"`
	AreaSqm      *float64 `json:"area_sqm"       validate:"omitempty,gt=0"`
	PropertyType *string  `json:"property_type"  validate:"omitempty,max=50"`
	MainImageURL *string  `json:"main_image_url" validate:"omitempty,url,max=2048"`
	Status       *string  `json:"status"         validate:"omitempty,max=50"`
}

// UpdateListingRequest is a partial update; nil fields are left alone.
type UpdateListingRequest struct {
	Title        *string  `json:"title"          validate:"omitempty,min=1,max=200"`
	Price        *float64 `json:"price"`
	Address      *string  `json:"address"        validate:"omitempty,min=1,max=255"`
	Description  *string  `json:"description"`
	City         *string  `json:"city"           validate:"omitempty,max=100"`
	Province     *string  `json:"province"       validate:"omitempty,max=100"`
	PostalCode   *string  `json:"postal_code"    validate:"omitempty,max=20"`
	Latitude     *float64 `json:"latitude"       validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude"      validate:"omitempty,gte=-180,lte=180"`
	Bedrooms     *int     `json:"bedrooms"       validate:"omitempty,gte=0"`
	Bathrooms    *int     `json:"bathrooms"      validate:"omitempty,gte=0"`
	AreaSqm      *float64 `json:"area_sqm"       validate:"omitempty,gt=0"`
	PropertyType *string  `json:"property_type"  validate:"omitempty,max=50"`
	MainImageURL *string  `json:"main_image_url" validate:"omitempty,url,max=2048"`
	Status       *string  `json:"status"         validate:"omitempty,min=1,max=50"`
}

// SearchResult is one page of listings plus the totals a client needs to
// render pagination.
type SearchResult struct {
	Listings   []Listing
	Total      int
	TotalPages int
	Page       Page
}
