// AngelaMos | 2026
// repository_test.go

package advertisement

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propsunday/classifieds-api/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

var adCols = []string{
	"id", "title", "advertiser_name", "image_url", "target_url",
	"placement_area", "start_date", "end_date", "is_active",
	"clicks", "impressions", "created_at", "updated_at",
}

func TestListActiveWindowAndPlacement(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE TRUE AND placement_area = $1 AND is_active AND start_date <= $2 AND end_date >= $2",
	)).
		WithArgs("homepage_banner", now).
		WillReturnRows(sqlmock.NewRows(adCols).AddRow(
			"a1", "Bond", "Bank", "https://cdn/x.png", "https://bank.example",
			"homepage_banner", now.AddDate(0, 0, -1), now.AddDate(0, 0, 1), true,
			7, 30, now, now,
		))

	ads, err := repo.List(context.Background(), ListParams{
		PlacementArea: "homepage_banner",
		ActiveOnly:    true,
	}, now)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, int64(7), ads[0].Clicks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAllOrdersByNewest(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`WHERE TRUE\s+ORDER BY created_at DESC`).
		WithArgs().
		WillReturnRows(sqlmock.NewRows(adCols))

	ads, err := repo.List(context.Background(), ListParams{}, time.Now())
	require.NoError(t, err)
	assert.NotNil(t, ads)
	assert.Empty(t, ads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackClickIsAtomicDelta(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SET clicks = COALESCE(clicks, 0) + 1",
	)).
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"target_url"}).AddRow("https://bank.example"))

	target, err := repo.TrackClick(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "https://bank.example", target)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackUnknownAd(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SET clicks`).
		WithArgs("gone").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("SET impressions = COALESCE(impressions, 0) + 1")).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.TrackClick(context.Background(), "gone")
	assert.ErrorIs(t, err, core.ErrNotFound)

	err = repo.TrackImpression(context.Background(), "gone")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
