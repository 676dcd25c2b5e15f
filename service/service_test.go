package service_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/keeldb/keel/catalog"
	"github.com/keeldb/keel/service"
	"github.com/keeldb/keel/sqltype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) *service.Service {
	t.Helper()
	store := catalog.NewStore()
	store.Put(catalog.New("public", "trades",
		[]catalog.Field{
			{Name: "id", Type: sqltype.BigInt},
			{Name: "symbol", Type: sqltype.Varchar, Nullable: true},
			{Name: "open", Type: sqltype.Boolean, Nullable: true},
		},
		catalog.Statistics{},
		catalog.Descriptor{Format: "json"},
		catalog.Descriptor{Format: "json"}))
	s, err := service.New(service.DefaultConfig(), store, nil)
	require.NoError(t, err)
	return s
}

func postCompile(t *testing.T, s *service.Service, sql string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(service.CompileRequest{SQL: sql})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/query/compile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestCompileEndpoint(t *testing.T) {
	s := testService(t)
	w := postCompile(t, s, "select id from trades where open is true")
	require.Equal(t, http.StatusOK, w.Code)

	var resp service.CompileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.PlanID)
	require.Len(t, resp.Plan, 2)
	assert.Equal(t, "TableScan", resp.Plan[0].Op)
	assert.Equal(t, "public.trades", resp.Plan[0].Table)
	assert.NotEmpty(t, resp.Plan[0].Filter)
	assert.Equal(t, "Project", resp.Plan[1].Op)
	require.Len(t, resp.Columns, 1)
	assert.Equal(t, "id", resp.Columns[0].Name)
	assert.Equal(t, "BIGINT", resp.Columns[0].Type)
	require.Len(t, resp.ObjectKeys, 1)
	assert.NotEmpty(t, resp.ObjectKeys[0])
}

func TestCompileEndpointError(t *testing.T) {
	s := testService(t)
	w := postCompile(t, s, "select id from trades order by id")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp service.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validate", string(resp.Stage))
	assert.Equal(t, "ORDER BY is not supported", resp.Msg)
	assert.Contains(t, resp.Detail, "order by id")
}

func TestCompileEndpointBadRequest(t *testing.T) {
	s := testService(t)
	req := httptest.NewRequest("POST", "/query/compile", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusEndpoint(t *testing.T) {
	s := testService(t)
	postCompile(t, s, "select id from trades")

	req := httptest.NewRequest("GET", "/status", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var status struct {
		Status      string `json:"status"`
		CachedPlans int    `json:"cached_plans"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, 1, status.CachedPlans)
}

func TestMetricsEndpoint(t *testing.T) {
	s := testService(t)
	postCompile(t, s, "select id from trades")
	postCompile(t, s, "select id from trades")

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "plancache_hits_total 1")
	assert.Contains(t, w.Body.String(), "plancache_misses_total 1")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":8080"
cache_size: 64
cors:
  allowed_origins:
    - "https://example.com"
`), 0644))

	config, err := service.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", config.Addr)
	assert.Equal(t, 64, config.CacheSize)
	assert.Equal(t, []string{"https://example.com"}, config.CORS.AllowedOrigins)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache_size: 16\n"), 0644))

	config, err := service.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9867", config.Addr)
	assert.Equal(t, 16, config.CacheSize)

	_, err = service.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
