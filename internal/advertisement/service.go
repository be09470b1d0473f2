// AngelaMos | 2026
// service.go

package advertisement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/propsunday/classifieds-api/internal/core"
)

const (
	msgInvalidWindow = "Start date must be before end date"
	msgInvalidDates  = "Invalid date format for start_date or end_date. " +
		"Use ISO format (YYYY-MM-DDTHH:MM:SS)."
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(
	ctx context.Context,
	req CreateAdvertisementRequest,
) (*Advertisement, error) {
	start, errStart := core.ParseTimestamp(req.StartDate)
	end, errEnd := core.ParseTimestamp(req.EndDate)
	if errStart != nil || errEnd != nil {
		return nil, core.ValidationError(msgInvalidDates)
	}
	if !start.Before(end) {
		return nil, core.ValidationError(msgInvalidWindow)
	}

	ad := &Advertisement{
		ID:             uuid.New().String(),
		Title:          strings.TrimSpace(req.Title),
		AdvertiserName: strings.TrimSpace(req.AdvertiserName),
		ImageURL:       strings.TrimSpace(req.ImageURL),
		TargetURL:      strings.TrimSpace(req.TargetURL),
		PlacementArea:  strings.TrimSpace(req.PlacementArea),
		StartDate:      start,
		EndDate:        end,
		IsActive:       true,
	}
	if req.IsActive != nil {
		ad.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, ad); err != nil {
		return nil, err
	}

	return ad, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Advertisement, error) {
	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("get advertisement: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

// Update merges the request onto the stored ad and re-checks the window
// on the merged bounds before writing.
func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateAdvertisementRequest,
) (*Advertisement, error) {
	ad, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StartDate != nil {
		t, err := core.ParseTimestamp(*req.StartDate)
		if err != nil {
			return nil, core.ValidationError("Invalid start_date format")
		}
		ad.StartDate = t
	}
	if req.EndDate != nil {
		t, err := core.ParseTimestamp(*req.EndDate)
		if err != nil {
			return nil, core.ValidationError("Invalid end_date format")
		}
		ad.EndDate = t
	}
	if !ad.StartDate.Before(ad.EndDate) {
		return nil, core.ValidationError(msgInvalidWindow)
	}

	setTrimmed(&ad.Title, req.Title)
	setTrimmed(&ad.AdvertiserName, req.AdvertiserName)
	setTrimmed(&ad.ImageURL, req.ImageURL)
	setTrimmed(&ad.TargetURL, req.TargetURL)
	setTrimmed(&ad.PlacementArea, req.PlacementArea)
	if req.IsActive != nil {
		ad.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, ad); err != nil {
		return nil, err
	}

	return ad, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return fmt.Errorf("delete advertisement: %w", core.ErrNotFound)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Advertisement, error) {
	return s.repo.List(ctx, params, s.now().UTC())
}

func (s *Service) TrackClick(ctx context.Context, id string) (string, error) {
	if uuid.Validate(id) != nil {
		return "", fmt.Errorf("track click: %w", core.ErrNotFound)
	}

	target, err := s.repo.TrackClick(ctx, id)
	if err != nil {
		return "", err
	}

	core.AddSpanEvent(ctx, "advertisement.click", attribute.String("ad.id", id))
	return target, nil
}

func (s *Service) TrackImpression(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return fmt.Errorf("track impression: %w", core.ErrNotFound)
	}

	if err := s.repo.TrackImpression(ctx, id); err != nil {
		return err
	}

	core.AddSpanEvent(ctx, "advertisement.impression", attribute.String("ad.id", id))
	return nil
}

func setTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
