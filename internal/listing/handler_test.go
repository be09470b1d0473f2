// AngelaMos | 2026
// handler_test.go

package listing

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propsunday/classifieds-api/internal/core"
	"github.com/propsunday/classifieds-api/internal/middleware"
)

type memRepo struct {
	mu       sync.Mutex
	listings map[string]Listing
}

func newMemRepo() *memRepo {
	return &memRepo{listings: make(map[string]Listing)}
}

func (m *memRepo) Create(_ context.Context, l *Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	m.listings[l.ID] = *l
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &l, nil
}

func (m *memRepo) Update(_ context.Context, l *Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.UpdatedAt = time.Now()
	m.listings[l.ID] = *l
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.listings, id)
	return nil
}

func (m *memRepo) List(_ context.Context, f *Filter, page Page) ([]Listing, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Listing{}
	for _, l := range m.listings {
		if f.UserID == "" || l.UserID == f.UserID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	start := min(page.Offset(), total)
	end := min(start+page.PerPage, total)
	return out[start:end], total, nil
}

func (m *memRepo) ApplyUpgrade(_ context.Context, id string, _ Upgrade) (*Listing, error) {
	return m.GetByID(context.Background(), id)
}

func as(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID == "" {
				core.Unauthorized(w, "")
				return
			}
			ctx := middleware.WithPrincipal(r.Context(), &middleware.Principal{UserID: userID, Role: "user"})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func router(repo Repository, userID string) http.Handler {
	r := chi.NewRouter()
	NewHandler(NewService(repo)).RegisterRoutes(r, as(userID))
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type listingEnvelope struct {
	Message string  `json:"message"`
	Listing Listing `json:"listing"`
}

func createAs(t *testing.T, repo Repository, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, router(repo, userID), http.MethodPost, "/listings", body)
}

func TestCreateEchoesFieldsAndOwner(t *testing.T) {
	repo := newMemRepo()

	rec := createAs(t, repo, "user-1", map[string]any{
		"title":     "A",
		"price":     100000,
		"address":   "X",
		"latitude":  -33.9249,
		"longitude": 18.4241,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var env listingEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.NotEmpty(t, env.Message)
	assert.Equal(t, "A", env.Listing.Title)
	assert.Equal(t, 100000.0, env.Listing.Price)
	assert.Equal(t, "X", env.Listing.Address)
	assert.Equal(t, "user-1", env.Listing.UserID)
	assert.Equal(t, StatusActive, env.Listing.Status)
	assert.Equal(t, SourceManual, env.Listing.Source)
	assert.False(t, env.Listing.IsChargedListing)
	require.NotNil(t, env.Listing.Geohash)
	assert.Len(t, *env.Listing.Geohash, geohashLength)
}

func TestCreateRejectsBadPrice(t *testing.T) {
	repo := newMemRepo()

	for _, price := range []any{0, -5} {
		rec := createAs(t, repo, "user-1", map[string]any{"title": "A", "price": price, "address": "X"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}

	rec := createAs(t, repo, "user-1", map[string]any{"title": "A", "address": "X"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.listings)
}

func TestPriceFitsColumn(t *testing.T) {
	repo := newMemRepo()

	for _, price := range []any{0.001, 0.004, 1e12, 5e15} {
		rec := createAs(t, repo, "user-1", map[string]any{"title": "A", "price": price, "address": "X"})
		assert.Equal(t, http.StatusBadRequest, rec.Code, price)
	}
	assert.Empty(t, repo.listings)

	for price, want := range map[float64]float64{0.005: 0.01, 999999999999.99: 999999999999.99, 1250.456: 1250.46} {
		rec := createAs(t, repo, "user-1", map[string]any{"title": "A", "price": price, "address": "X"})
		require.Equal(t, http.StatusCreated, rec.Code, price)
		var env listingEnvelope
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
		assert.InDelta(t, want, env.Listing.Price, 1e-9)
	}
}

func TestUpdateRejectsBlankStatus(t *testing.T) {
	repo := newMemRepo()
	rec := createAs(t, repo, "user-1", map[string]any{"title": "A", "price": 10, "address": "X"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var env listingEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))

	owner := router(repo, "user-1")
	rec = do(t, owner, http.MethodPut, "/listings/"+env.Listing.ID, map[string]any{"status": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, owner, http.MethodPut, "/listings/"+env.Listing.ID, map[string]any{"price": 0.001})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stored, err := repo.GetByID(context.Background(), env.Listing.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, stored.Status)
	assert.Equal(t, 10.0, stored.Price)
}

func TestCreateRequiresAuth(t *testing.T) {
	rec := createAs(t, newMemRepo(), "", map[string]any{"title": "A", "price": 1, "address": "X"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOnlyOwnerMayMutate(t *testing.T) {
	repo := newMemRepo()

	rec := createAs(t, repo, "user-1", map[string]any{"title": "A", "price": 100000, "address": "X"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var env listingEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	id := env.Listing.ID

	intruder := router(repo, "user-2")
	rec = do(t, intruder, http.MethodPut, "/listings/"+id, map[string]any{"title": "mine now"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, intruder, http.MethodDelete, "/listings/"+id, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	stored, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "A", stored.Title)

	owner := router(repo, "user-1")
	rec = do(t, owner, http.MethodPut, "/listings/"+id, map[string]any{"price": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, owner, http.MethodPut, "/listings/"+id, map[string]any{"title": "B", "bedrooms": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.Equal(t, "B", env.Listing.Title)
	assert.Equal(t, "user-1", env.Listing.UserID)
	require.NotNil(t, env.Listing.Bedrooms)
	assert.Equal(t, 3, *env.Listing.Bedrooms)

	rec = do(t, owner, http.MethodDelete, "/listings/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, owner, http.MethodGet, "/listings/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUnknownAndMalformedID(t *testing.T) {
	h := router(newMemRepo(), "")

	rec := do(t, h, http.MethodGet, "/listings/6f1c1a8e-2b9d-4a47-9d59-2f0e7d1b9c11", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/listings/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPaginationAndMyListings(t *testing.T) {
	repo := newMemRepo()
	for i := range 12 {
		owner := "user-1"
		if i%3 == 0 {
			owner = "user-2"
		}
		rec := createAs(t, repo, owner, map[string]any{"title": "L", "price": 1000 + i, "address": "X"})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, router(repo, ""), http.MethodGet, "/listings?page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Message       string    `json:"message"`
		Listings      []Listing `json:"listings"`
		TotalListings int       `json:"total_listings"`
		TotalPages    int       `json:"total_pages"`
		CurrentPage   int       `json:"current_page"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Equal(t, 12, page.TotalListings)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Len(t, page.Listings, 2)

	rec = do(t, router(repo, ""), http.MethodGet, "/listings?min_price=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router(repo, "user-2"), http.MethodGet, "/listings/my-listings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Equal(t, 4, page.TotalListings)
	for _, l := range page.Listings {
		assert.Equal(t, "user-2", l.UserID)
	}

	rec = do(t, router(repo, ""), http.MethodGet, "/listings/my-listings", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
