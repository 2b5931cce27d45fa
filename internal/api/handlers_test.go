package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/search-attribution/internal/config"
	"github.com/ignite/search-attribution/internal/etl"
	"github.com/ignite/search-attribution/internal/storage"
)

const sampleTSV = "hit_time_gmt\tip\tuser_agent\treferrer\tevent_list\tproduct_list\n" +
	"1254033280\t44.12.96.2\tMozilla/5.0\thttps://www.google.com/search?q=Ipod\t\t\n" +
	"1254033379\t44.12.96.2\tMozilla/5.0\thttp://www.esshopzilla.com/checkout/\t1\tElectronics;Ipod;1;290;\n"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Storage.LocalPath = t.TempDir()

	store, err := storage.New(context.Background(), cfg.Storage)
	require.NoError(t, err)

	return SetupRoutes(NewHandlers(etl.New(cfg, store)))
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestCreateReport_JSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(sampleTSV))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res etl.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 1, res.ReportRows)
	assert.Equal(t, int64(2), res.Counters.RowsSeen)
	assert.Contains(t, res.Report, "google.com\tipod\t290.00")
}

func TestCreateReport_TSVAccept(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(sampleTSV))
	req.Header.Set("Accept", "text/tab-separated-values")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/tab-separated-values", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Run-Id"))
	assert.Equal(t,
		"Search Engine Domain\tSearch Keyword\tRevenue\ngoogle.com\tipod\t290.00\n",
		rec.Body.String())
}

func TestCreateReport_SchemaViolation(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/reports",
		strings.NewReader("ip\tuser_agent\n1.2.3.4\tua\n"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing required columns")
}

func TestCreateReport_EmptyBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(""))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTriggerS3Run_Validation(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/runs/s3", strings.NewReader(`{"bucket":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bucket and key are required")
}
