// AngelaMos | 2026
// service.go

package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/propsunday/classifieds-api/internal/core"
	"github.com/propsunday/classifieds-api/internal/listing"
)

type ListingStore interface {
	GetByID(ctx context.Context, id string) (*listing.Listing, error)
	ApplyUpgrade(
		ctx context.Context,
		id string,
		u listing.Upgrade,
	) (*listing.Listing, error)
}

// FailedError carries the attempted charge so the caller can report it.
type FailedError struct {
	Payment Details
	Err     error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("payment %s failed: %v", e.Payment.TransactionID, e.Err)
}

func (e *FailedError) Unwrap() []error {
	return []error{core.ErrPaymentFailed, e.Err}
}

type UpgradeResult struct {
	Payment Details
	Listing *listing.Listing
	Tier    Tier
}

// Status is the monetization sub-state of a listing as reported to its
// owner. IsExpired is informational; nothing downgrades a listing.
type Status struct {
	IsChargedListing bool       `json:"is_charged_listing"`
	ListingTier      *string    `json:"listing_tier"`
	PaymentStatus    *string    `json:"payment_status"`
	TransactionID    *string    `json:"transaction_id"`
	PaymentDate      *time.Time `json:"payment_date"`
	TierExpiryDate   *time.Time `json:"tier_expiry_date"`
	IsExpired        bool       `json:"is_expired"`
	TierDetails      *Tier      `json:"tier_details,omitempty"`
}

type Service struct {
	listings  ListingStore
	processor Processor
	catalog   Catalog
	currency  string
	now       func() time.Time
}

func NewService(
	listings ListingStore,
	processor Processor,
	catalog Catalog,
	currency string,
) *Service {
	return &Service{
		listings:  listings,
		processor: processor,
		catalog:   catalog,
		currency:  currency,
		now:       time.Now,
	}
}

func (s *Service) Catalog() Catalog {
	return s.catalog
}

// Upgrade charges the caller for tier and, only if the charge succeeds,
// moves the listing to the paid state in a single write.
func (s *Service) Upgrade(
	ctx context.Context,
	listingID, callerID, tierName, paymentMethod string,
) (*UpgradeResult, error) {
	ctx, span := core.StartSpan(ctx, "payment.Upgrade",
		attribute.String("listing.id", listingID),
		attribute.String("tier", tierName),
	)
	defer span.End()

	tier, ok := s.catalog.Lookup(tierName)
	if !ok {
		return nil, core.ValidationError(
			"Invalid tier. Available tiers: " + s.catalog.describe(),
		)
	}

	if _, err := s.owned(ctx, listingID, callerID); err != nil {
		return nil, err
	}

	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	details := Details{
		TransactionID: fmt.Sprintf("TRANS-%s-%s", now.Format("20060102150405"), listingID),
		Amount:        tier.Price,
		Currency:      s.currency,
		PaymentMethod: paymentMethod,
		Status:        StatusCompleted,
	}

	if err := s.processor.Charge(ctx, details); err != nil {
		details.Status = StatusFailed
		core.AddSpanEvent(ctx, "payment.failed",
			attribute.String("transaction_id", details.TransactionID),
			attribute.String("tier", tierName),
		)
		core.SetSpanError(ctx, err)
		return nil, &FailedError{Payment: details, Err: err}
	}

	updated, err := s.listings.ApplyUpgrade(ctx, listingID, listing.Upgrade{
		Tier:           tierName,
		TransactionID:  details.TransactionID,
		PaymentDate:    now,
		TierExpiryDate: now.Add(tier.Duration()),
	})
	if err != nil {
		return nil, err
	}

	core.AddSpanEvent(ctx, "payment.upgraded",
		attribute.String("transaction_id", details.TransactionID),
		attribute.String("tier", tierName),
		attribute.Float64("amount", tier.Price),
	)

	return &UpgradeResult{Payment: details, Listing: updated, Tier: tier}, nil
}

func (s *Service) PaymentStatus(
	ctx context.Context,
	listingID, callerID string,
) (*Status, error) {
	l, err := s.owned(ctx, listingID, callerID)
	if err != nil {
		return nil, err
	}

	st := &Status{
		IsChargedListing: l.IsChargedListing,
		ListingTier:      l.ListingTier,
		PaymentStatus:    l.PaymentStatus,
		TransactionID:    l.TransactionID,
		PaymentDate:      l.PaymentDate,
		TierExpiryDate:   l.TierExpiryDate,
	}
	if l.TierExpiryDate != nil {
		st.IsExpired = s.now().After(*l.TierExpiryDate)
	}
	if l.ListingTier != nil {
		if tier, ok := s.catalog.Lookup(*l.ListingTier); ok {
			st.TierDetails = &tier
		}
	}

	return st, nil
}

func (s *Service) owned(
	ctx context.Context,
	listingID, callerID string,
) (*listing.Listing, error) {
	if uuid.Validate(listingID) != nil {
		return nil, fmt.Errorf("get listing: %w", core.ErrNotFound)
	}

	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !l.IsOwnedBy(callerID) {
		return nil, fmt.Errorf("listing %s: %w", listingID, core.ErrForbidden)
	}
	return l, nil
}
