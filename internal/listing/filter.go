// AngelaMos | 2026
// filter.go

package listing

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcloughlin/geohash"

	"github.com/propsunday/classifieds-api/internal/core"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100

	// maxPage keeps (page-1)*per_page inside int for any per_page.
	maxPage = math.MaxInt / MaxPerPage

	defaultNearPrecision = 5
	geohashAlphabet      = "0123456789bcdefghjkmnpqrstuvwxyz"
)

// Filter holds every optional search criterion. Zero values mean the
// criterion was not supplied; supplied criteria are ANDed together.
type Filter struct {
	City          string
	Province      string
	PropertyType  string
	ListingTier   string
	Search        string
	GeohashPrefix string
	UserID        string
	MinPrice      *float64
	MaxPrice      *float64
	Bedrooms      *int
}

type Page struct {
	Number  int
	PerPage int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

// ParseFilter reads search criteria from query parameters. Malformed
// numeric values are a validation error rather than being ignored.
func ParseFilter(q url.Values) (*Filter, error) {
	f := &Filter{
		City:         strings.TrimSpace(q.Get("city")),
		Province:     strings.TrimSpace(q.Get("province")),
		PropertyType: strings.TrimSpace(q.Get("property_type")),
		ListingTier:  strings.TrimSpace(q.Get("listing_tier")),
		Search:       strings.TrimSpace(q.Get("search")),
	}

	var err error
	if f.MinPrice, err = parseFloatParam(q, "min_price"); err != nil {
		return nil, err
	}
	if f.MaxPrice, err = parseFloatParam(q, "max_price"); err != nil {
		return nil, err
	}
	if raw := q.Get("bedrooms"); raw != "" {
		n, convErr := strconv.Atoi(strings.TrimSpace(raw))
		if convErr != nil {
			return nil, core.ValidationError("Invalid bedrooms format")
		}
		f.Bedrooms = &n
	}

	if f.GeohashPrefix, err = parseGeohash(q); err != nil {
		return nil, err
	}

	return f, nil
}

func parseFloatParam(q url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, core.ValidationError(fmt.Sprintf("Invalid %s format", key))
	}
	return &v, nil
}

// parseGeohash accepts either an explicit geohash prefix or a near_lat /
// near_lng pair encoded at the requested precision.
func parseGeohash(q url.Values) (string, error) {
	if raw := strings.ToLower(strings.TrimSpace(q.Get("geohash"))); raw != "" {
		if len(raw) > geohashLength {
			return "", core.ValidationError("Invalid geohash format")
		}
		for _, c := range raw {
			if !strings.ContainsRune(geohashAlphabet, c) {
				return "", core.ValidationError("Invalid geohash format")
			}
		}
		return raw, nil
	}

	latRaw, lngRaw := q.Get("near_lat"), q.Get("near_lng")
	if latRaw == "" && lngRaw == "" {
		return "", nil
	}

	lat, err := parseFloatParam(q, "near_lat")
	if err != nil {
		return "", err
	}
	lng, err := parseFloatParam(q, "near_lng")
	if err != nil {
		return "", err
	}
	if lat == nil || lng == nil {
		return "", core.ValidationError("near_lat and near_lng must be supplied together")
	}
	if *lat < -90 || *lat > 90 || *lng < -180 || *lng > 180 {
		return "", core.ValidationError("near_lat or near_lng out of range")
	}

	precision := defaultNearPrecision
	if raw := q.Get("precision"); raw != "" {
		p, convErr := strconv.Atoi(raw)
		if convErr != nil || p < 1 || p > geohashLength {
			return "", core.ValidationError("Invalid precision format")
		}
		precision = p
	}

	return geohash.EncodeWithPrecision(*lat, *lng, uint(precision)), nil
}

// ParsePage reads page and per_page, defaulting to the first page of
// DefaultPerPage results.
func ParsePage(q url.Values) (Page, error) {
	p := Page{Number: 1, PerPage: DefaultPerPage}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 1 {
			return p, core.ValidationError("page must be a positive integer")
		}
		if n > maxPage {
			return p, core.ValidationError("page is out of range")
		}
		p.Number = n
	}

	if raw := q.Get("per_page"); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 1 {
			return p, core.ValidationError("per_page must be a positive integer")
		}
		p.PerPage = min(n, MaxPerPage)
	}

	return p, nil
}

// where renders the filter as a SQL predicate with positional arguments
// starting at $1.
func (f *Filter) where() (string, []any) {
	conditions := []string{"TRUE"}
	var args []any

	add := func(format string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	if f.City != "" {
		add("city ILIKE $%d", core.ContainsPattern(f.City))
	}
	if f.Province != "" {
		add("province ILIKE $%d", core.ContainsPattern(f.Province))
	}
	if f.PropertyType != "" {
		add("property_type = $%d", f.PropertyType)
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}
	if f.Bedrooms != nil {
		add("bedrooms = $%d", *f.Bedrooms)
	}
	if f.ListingTier != "" {
		add("listing_tier = $%d", f.ListingTier)
	}
	if f.Search != "" {
		args = append(args, core.ContainsPattern(f.Search))
		n := len(args)
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if f.GeohashPrefix != "" {
		add("geohash LIKE $%d", core.EscapeLike(f.GeohashPrefix)+"%")
	}
	if f.UserID != "" {
		add("user_id = $%d", f.UserID)
	}

	return strings.Join(conditions, " AND "), args
}
