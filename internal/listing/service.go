// AngelaMos | 2026
// service.go

package listing

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"go.opentelemetry.io/otel/attribute"

	"github.com/propsunday/classifieds-api/internal/core"
)

// maxPriceCents is the first value NUMERIC(14,2) cannot store.
const maxPriceCents = 1e14

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateListingRequest,
) (*Listing, error) {
	if userID == "" {
		return nil, fmt.Errorf("create listing: %w", core.ErrUnauthorized)
	}
	price, err := checkPrice(req.Price)
	if err != nil {
		return nil, err
	}

	l := &Listing{
		ID:           uuid.New().String(),
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Price:        price,
		Address:      strings.TrimSpace(req.Address),
		City:         req.City,
		Province:     req.Province,
		PostalCode:   req.PostalCode,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		AreaSqm:      req.AreaSqm,
		PropertyType: req.PropertyType,
		MainImageURL: req.MainImageURL,
		Source:       SourceManual,
		Status:       StatusActive,
		UserID:       userID,
	}
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		l.Status = strings.TrimSpace(*req.Status)
	}
	if l.Title == "" || l.Address == "" {
		return nil, core.ValidationError("Missing required fields: title, price, address")
	}
	l.Geohash = encodeGeohash(l.Latitude, l.Longitude)

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Listing, error) {
	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("get listing: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update. Only the owner may update, and the
// price invariant is re-checked on the merged value.
func (s *Service) Update(
	ctx context.Context,
	id, userID string,
	req UpdateListingRequest,
) (*Listing, error) {
	l, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Price != nil {
		price, err := checkPrice(req.Price)
		if err != nil {
			return nil, err
		}
		l.Price = price
	}
	if req.Title != nil {
		l.Title = strings.TrimSpace(*req.Title)
	}
	if req.Address != nil {
		l.Address = strings.TrimSpace(*req.Address)
	}
	if l.Title == "" || l.Address == "" {
		return nil, core.ValidationError("title and address cannot be empty")
	}
	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		if status == "" {
			return nil, core.ValidationError("status cannot be empty")
		}
		l.Status = status
	}

	assign(&l.Description, req.Description)
	assign(&l.City, req.City)
	assign(&l.Province, req.Province)
	assign(&l.PostalCode, req.PostalCode)
	assign(&l.PropertyType, req.PropertyType)
	assign(&l.MainImageURL, req.MainImageURL)
	assign(&l.Latitude, req.Latitude)
	assign(&l.Longitude, req.Longitude)
	assign(&l.AreaSqm, req.AreaSqm)
	assign(&l.Bedrooms, req.Bedrooms)
	assign(&l.Bathrooms, req.Bathrooms)

	l.Geohash = encodeGeohash(l.Latitude, l.Longitude)

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Search(
	ctx context.Context,
	f *Filter,
	page Page,
) (*SearchResult, error) {
	ctx, span := core.StartSpan(ctx, "listing.Search",
		attribute.Int("page", page.Number),
		attribute.Int("per_page", page.PerPage),
	)
	defer span.End()

	listings, total, err := s.repo.List(ctx, f, page)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("total", total))

	return &SearchResult{
		Listings:   listings,
		Total:      total,
		TotalPages: TotalPages(total, page.PerPage),
		Page:       page,
	}, nil
}

func (s *Service) ListByUser(
	ctx context.Context,
	userID string,
	page Page,
) (*SearchResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("list by user: %w", core.ErrUnauthorized)
	}
	return s.Search(ctx, &Filter{UserID: userID}, page)
}

func (s *Service) owned(ctx context.Context, id, userID string) (*Listing, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.IsOwnedBy(userID) {
		return nil, fmt.Errorf("listing %s: %w", id, core.ErrForbidden)
	}
	return l, nil
}

// checkPrice rounds to cents and rejects anything the price column
// cannot hold as a positive amount.
func checkPrice(price *float64) (float64, error) {
	if price == nil {
		return 0, core.ValidationError("Missing required fields: title, price, address")
	}
	cents := math.Round(*price * 100)
	if math.IsNaN(cents) || cents < 1 {
		return 0, core.ValidationError("Price must be a positive number")
	}
	if cents >= maxPriceCents {
		return 0, core.ValidationError("Price is too large")
	}
	return cents / 100, nil
}

func assign[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

func encodeGeohash(lat, lng *float64) *string {
	if lat == nil || lng == nil {
		return nil
	}
	h := geohash.EncodeWithPrecision(*lat, *lng, geohashLength)
	return &h
}
