// AngelaMos | 2026
// filter_test.go

package listing

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propsunday/classifieds-api/internal/core"
)

func TestParseFilterRejectsNonNumeric(t *testing.T) {
	for _, key := range []string{"min_price", "max_price", "bedrooms"} {
		t.Run(key, func(t *testing.T) {
			_, err := ParseFilter(url.Values{key: {"cheap"}})
			require.Error(t, err)

			var appErr *core.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
			assert.Contains(t, appErr.Message, key)
		})
	}
}

func TestParseFilterBedroomsMustBeInteger(t *testing.T) {
	_, err := ParseFilter(url.Values{"bedrooms": {"2.5"}})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestWhereWithoutFilters(t *testing.T) {
	f, err := ParseFilter(url.Values{})
	require.NoError(t, err)

	clause, args := f.where()
	assert.Equal(t, "TRUE", clause)
	assert.Empty(t, args)
}

func TestWhereComposesEveryFilter(t *testing.T) {
	f, err := ParseFilter(url.Values{
		"city":          {"Cape"},
		"province":      {"Western"},
		"property_type": {"house"},
		"min_price":     {"100000"},
		"max_price":     {"2500000.50"},
		"bedrooms":      {"3"},
		"listing_tier":  {"premium"},
		"search":        {"sea_view"},
		"geohash":       {"K3V"},
	})
	require.NoError(t, err)

	clause, args := f.where()
	assert.Equal(t,
		"TRUE AND city ILIKE $1 AND province ILIKE $2 AND property_type = $3"+
			" AND price >= $4 AND price <= $5 AND bedrooms = $6"+
			" AND listing_tier = $7 AND (title ILIKE $8 OR description ILIKE $8)"+
			" AND geohash LIKE $9",
		clause,
	)
	assert.Equal(t, []any{
		"%Cape%",
		"%Western%",
		"house",
		100000.0,
		2500000.5,
		3,
		"premium",
		`%sea\_view%`,
		"k3v%",
	}, args)
}

func TestNearCoordinatesBecomeGeohashPrefix(t *testing.T) {
	f, err := ParseFilter(url.Values{
		"near_lat":  {"-33.9249"},
		"near_lng":  {"18.4241"},
		"precision": {"4"},
	})
	require.NoError(t, err)
	assert.Len(t, f.GeohashPrefix, 4)

	_, err = ParseFilter(url.Values{"near_lat": {"-33.9"}})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = ParseFilter(url.Values{"geohash": {"abc!"}})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		name    string
		query   url.Values
		want    Page
		wantErr bool
	}{
		{name: "defaults", query: url.Values{}, want: Page{Number: 1, PerPage: 10}},
		{name: "explicit", query: url.Values{"page": {"3"}, "per_page": {"25"}}, want: Page{Number: 3, PerPage: 25}},
		{name: "capped", query: url.Values{"per_page": {"5000"}}, want: Page{Number: 1, PerPage: MaxPerPage}},
		{name: "zero page", query: url.Values{"page": {"0"}}, wantErr: true},
		{name: "negative per_page", query: url.Values{"per_page": {"-1"}}, wantErr: true},
		{name: "not a number", query: url.Values{"page": {"two"}}, wantErr: true},
		{name: "page past offset range", query: url.Values{"page": {"9223372036854775807"}, "per_page": {"10"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePage(tt.query)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 4, TotalPages(31, 10))
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, Page{Number: 1, PerPage: 10}.Offset())
	assert.Equal(t, 40, Page{Number: 3, PerPage: 20}.Offset())
}

func TestLargestPageKeepsOffsetPositive(t *testing.T) {
	p, err := ParsePage(url.Values{
		"page":     {strconv.Itoa(maxPage)},
		"per_page": {strconv.Itoa(MaxPerPage)},
	})
	require.NoError(t, err)
	assert.Positive(t, p.Offset())
}
