// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passthrough(next http.Handler) http.Handler { return next }

func newRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	h.RegisterRoutes(r, passthrough, passthrough)
	return r
}

func TestOverview(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	columns := []string{
		"accounts", "providers", "active_subscriptions", "pending_providers",
		"visible_profiles", "reviews", "active_campaigns", "paused_campaigns",
		"active_classifieds",
	}
	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM accounts\)`).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(12, 5, 3, 2, 3, 40, 2, 1, 9))

	h := NewHandler(HandlerConfig{
		Repository: NewRepository(sqlx.NewDb(mockDB, "postgres")),
	})

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/overview", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data Overview `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body.Data.ActiveSubscriptions)
	assert.Equal(t, int64(40), body.Data.Reviews)
	assert.Equal(t, int64(1), body.Data.PausedCampaigns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOverviewQueryFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("connection reset"))

	h := NewHandler(HandlerConfig{
		Repository: NewRepository(sqlx.NewDb(mockDB, "postgres")),
	})

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/overview", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSystemStats(t *testing.T) {
	h := NewHandler(HandlerConfig{
		DBStats:     func() sql.DBStats { return sql.DBStats{MaxOpenConnections: 25, InUse: 2} },
		DBPing:      func(context.Context) error { return nil },
		RedisPing:   func(context.Context) error { return errors.New("dial tcp: refused") },
		StoragePing: func(context.Context) error { return nil },
	})

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data SystemStatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Database.Healthy)
	assert.Equal(t, 25, body.Data.Database.Stats.MaxOpenConnections)
	assert.False(t, body.Data.Redis.Healthy)
	assert.Nil(t, body.Data.Redis.Stats)
	require.NotNil(t, body.Data.Storage)
	assert.True(t, body.Data.Storage.Healthy)
	assert.NotEmpty(t, body.Data.Runtime.GoVersion)
}
