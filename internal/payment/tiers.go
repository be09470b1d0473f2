// AngelaMos | 2026
// tiers.go

package payment

import (
	"sort"
	"strings"
	"time"
)

const (
	TierStandard = "standard"
	TierPremium  = "premium"
	TierFeatured = "featured"
)

type Tier struct {
	Price        float64  `json:"price"`
	DurationDays int      `json:"duration_days"`
	Features     []string `json:"features"`
}

func (t Tier) Duration() time.Duration {
	return time.Duration(t.DurationDays) * 24 * time.Hour
}

// Catalog maps tier names to their price and validity period.
type Catalog map[string]Tier

func DefaultCatalog() Catalog {
	return Catalog{
		TierStandard: {
			Price:        0,
			DurationDays: 30,
			Features:     []string{"Basic listing", "Standard visibility"},
		},
		TierPremium: {
			Price:        199.99,
			DurationDays: 60,
			Features: []string{
				"Premium listing",
				"Higher visibility",
				"Featured in search results",
			},
		},
		TierFeatured: {
			Price:        499.99,
			DurationDays: 90,
			Features: []string{
				"Top visibility",
				"Featured on homepage",
				"Social media promotion",
				"Professional photography",
			},
		},
	}
}

func (c Catalog) Lookup(name string) (Tier, bool) {
	t, ok := c[name]
	return t, ok
}

// Names lists tiers from cheapest to most expensive.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if c[names[i]].Price == c[names[j]].Price {
			return names[i] < names[j]
		}
		return c[names[i]].Price < c[names[j]].Price
	})
	return names
}

func (c Catalog) describe() string {
	return strings.Join(c.Names(), ", ")
}
