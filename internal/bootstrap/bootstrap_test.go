package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/cgpa/internal/config"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	return cfg
}

func TestNewGradingEngine(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, []int{1, 2, 3, 4, 9, 10}, NewGradingEngine(cfg).Rules().CreditHours())

	cfg.Grading.ExtendBrackets = true
	_, ok := NewGradingEngine(cfg).Rules().Bracket(5)
	assert.True(t, ok)
}

func TestHealth(t *testing.T) {
	cfg := testConfig()

	up := NewDependencies(cfg, nil, pingerFunc(func(context.Context) error { return nil }), zerolog.Nop())
	w := httptest.NewRecorder()
	SetupRouter(cfg, up, zerolog.Nop()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	down := NewDependencies(cfg, nil, pingerFunc(func(context.Context) error { return errors.New("refused") }), zerolog.Nop())
	w = httptest.NewRecorder()
	SetupRouter(cfg, down, zerolog.Nop()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCalculateEndToEnd(t *testing.T) {
	cfg := testConfig()
	router := SetupRouter(cfg, NewDependencies(cfg, nil, nil, zerolog.Nop()), zerolog.Nop())

	body := `{"profile":{"semesters":{
		"Fall 2021":{"courses":[{"code":"STAT-101","creditHours":3,"marks":40}]},
		"Spring 2022":{"courses":[{"code":"stat-101","creditHours":3,"marks":48}]}}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"cgpa":4`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestFileStorageWithDemoSeed(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = config.StorageDriverFile
	cfg.Storage.Path = t.TempDir()
	cfg.Seed.DemoProfile = true

	storage, err := SetupStorage(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer storage.Close()
	assert.Nil(t, storage.DB)

	deps := BuildDependencies(cfg, storage, zerolog.Nop())
	assert.Nil(t, deps.DB)
	SeedData(context.Background(), cfg, deps, zerolog.Nop())

	items, info, err := deps.ProfileService.ListProfiles(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.TotalItems)
	require.Len(t, items, 1)

	router := SetupRouter(cfg, deps, zerolog.Nop())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/profiles/"+items[0].ID+"/trend", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Winter 2021-22")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
