package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-report-engine/internal/engine"
	"trade-report-engine/internal/logger"
	"trade-report-engine/internal/notify"
	"trade-report-engine/internal/storage"
	"trade-report-engine/internal/store"
	"trade-report-engine/internal/types"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	_ = logger.InitWithConfig(logger.LogConfig{Level: "ERROR", Format: "text"})
	os.Exit(m.Run())
}

type stubPrices struct{ r types.PriceRange }

func (s stubPrices) DailyRange(context.Context, time.Time) (types.PriceRange, error) {
	return s.r, nil
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("REPORT_LOG_DIR", t.TempDir())

	var cfg store.Config
	cfg.Parser.FallbackMode = string(types.ModeYellow)
	cfg.Server.Port = 8080
	cfg.Storage.Path = filepath.Join(t.TempDir(), "reports.db")

	reports, err := storage.Open(cfg.Storage.Path)
	require.NoError(t, err)
	t.Cleanup(func() { reports.Close() })

	prices := stubPrices{r: types.PriceRange{Open: 6600, High: 6710, Low: 6590, Close: 6680}}
	eng := engine.New(&cfg, reports, prices, &notify.NoopNotifier{})
	return New(eng, reports).Router(&cfg)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const dailyBody = `{"date":"2026-08-27","text":"# Market Mode\nMode: GREEN\n\n# Price Action\nClosed at 6,645.50\n\n# Master Eject\n6,580 — exit all longs\n\n# Upside Alerts\n- Above R1 6,700: trim\n"}`

func TestHealthz(t *testing.T) {
	w := doJSON(t, testRouter(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIngestAndFetchDaily(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/reports/daily", dailyBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"accepted":true`)

	w = doJSON(t, r, http.MethodGet, "/api/reports/daily/2026-08-27", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mode":"GREEN"`)
}

func TestIngestDailyRejection(t *testing.T) {
	r := testRouter(t)
	body := `{"date":"2026-08-27","text":"# Market Mode\nMode: GREEN\n"}`

	w := doJSON(t, r, http.MethodPost, "/api/reports/daily", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "master_eject")
}

func TestIngestBadRequests(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/reports/daily", `{"text":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/reports/daily", `{"date":"27/08/2026","text":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreDayFlow(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/reports/daily", dailyBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/scores/day/2026-08-27", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"accuracy_pct":100`)

	w = doJSON(t, r, http.MethodGet, "/api/scores/day/2026-08-27", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScoreDayUnknownDateIs404(t *testing.T) {
	w := doJSON(t, testRouter(t), http.MethodPost, "/api/scores/day/2026-01-05", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScoreWeekNoDaysIs404(t *testing.T) {
	w := doJSON(t, testRouter(t), http.MethodPost, "/api/scores/week/2026-08-24", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScoreWeekFlow(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/reports/daily", dailyBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = doJSON(t, r, http.MethodPost, "/api/scores/day/2026-08-27", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/scores/week/2026-08-24", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"week_label":"Week of 2026-08-24"`)

	w = doJSON(t, r, http.MethodGet, "/api/scores/week/2026-08-24", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
