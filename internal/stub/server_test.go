package stub

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/nvdmirror/internal/models"
	"github.com/iudanet/nvdmirror/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func cveItems(n int) []any {
	base := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	items := make([]any, 0, n)
	for i := range n {
		items = append(items, map[string]any{
			"cve": map[string]any{
				"id":           fmt.Sprintf("CVE-2025-%04d", i),
				"lastModified": base.Add(time.Duration(i) * 24 * time.Hour).Format("2006-01-02T15:04:05.000"),
			},
		})
	}
	return items
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	s := New(opts, testLogger())
	ts := httptest.NewServer(s)
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string, query url.Values, key string) (*http.Response, api.PageResponse) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path+"?"+query.Encode(), nil)
	require.NoError(t, err)
	if key != "" {
		req.Header.Set(api.HeaderAPIKey, key)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var page api.PageResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	}
	return resp, page
}

func TestServer_Pagination(t *testing.T) {
	ds := NewDataset()
	ds.Set(models.EntityNameCVE, cveItems(5))
	ts := newTestServer(t, Options{Dataset: ds})

	q := url.Values{}
	q.Set(api.ParamStartIndex, "2")
	q.Set(api.ParamResultsPerPage, "2")

	resp, page := get(t, ts, models.EntityCVE.Path, q, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, page.TotalResults)
	assert.Equal(t, 2, page.StartIndex)
	assert.Equal(t, 2, page.ResultsPerPage)
	assert.Equal(t, "NVD_CVE", page.Format)
	require.Len(t, page.Vulnerabilities, 2)

	first := page.Vulnerabilities[0].(map[string]any)["cve"].(map[string]any)
	assert.Equal(t, "CVE-2025-0002", first["id"])

	// за пределами набора - пустая страница с тем же total
	q.Set(api.ParamStartIndex, "10")
	resp, page = get(t, ts, models.EntityCVE.Path, q, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, page.TotalResults)
	assert.Empty(t, page.Vulnerabilities)
}

func TestServer_WindowFilter(t *testing.T) {
	ds := NewDataset()
	items := cveItems(10)
	items = append(items, map[string]any{"cve": map[string]any{"id": "CVE-2025-9999"}})
	ds.Set(models.EntityNameCVE, items)
	ts := newTestServer(t, Options{Dataset: ds})

	start := time.Date(2025, 10, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)
	q := api.PageRequest{LastModStart: &start, LastModEnd: &end, ResultsPerPage: 100}.Query()

	resp, page := get(t, ts, models.EntityCVE.Path, q, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// 3, 4, 5 октября плюс запись без lastModified
	assert.Equal(t, 4, page.TotalResults)
}

func TestServer_Errors(t *testing.T) {
	ds := NewDataset()
	ds.Set(models.EntityNameCVE, cveItems(1))
	ts := newTestServer(t, Options{Dataset: ds, APIKey: "secret"})

	tests := []struct {
		query  url.Values
		name   string
		path   string
		key    string
		status int
	}{
		{name: "missing key", path: models.EntityCVE.Path, status: http.StatusForbidden},
		{name: "wrong key", path: models.EntityCVE.Path, key: "nope", status: http.StatusForbidden},
		{name: "ok", path: models.EntityCVE.Path, key: "secret", status: http.StatusOK},
		{name: "no cpe data", path: models.EntityCPE.Path, key: "secret", status: http.StatusNotFound},
		{name: "unknown endpoint", path: "/rest/json/cwes/2.0", key: "secret", status: http.StatusNotFound},
		{
			name:   "page too large",
			path:   models.EntityCVE.Path,
			key:    "secret",
			query:  url.Values{api.ParamResultsPerPage: []string{"5000"}},
			status: http.StatusBadRequest,
		},
		{
			name:   "half window",
			path:   models.EntityCVE.Path,
			key:    "secret",
			query:  url.Values{api.ParamLastModStartDate: []string{"2025-10-01T00:00:00Z"}},
			status: http.StatusBadRequest,
		},
		{
			name:   "bad start index",
			path:   models.EntityCVE.Path,
			key:    "secret",
			query:  url.Values{api.ParamStartIndex: []string{"-1"}},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query
			if q == nil {
				q = url.Values{}
			}
			resp, _ := get(t, ts, tt.path, q, tt.key)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestServer_RateLimit(t *testing.T) {
	ds := NewDataset()
	ds.Set(models.EntityNameCVE, cveItems(1))
	ts := newTestServer(t, Options{Dataset: ds, RateLimit: 2, RateWindow: time.Minute})

	for range 2 {
		resp, _ := get(t, ts, models.EntityCVE.Path, url.Values{}, "k1")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, _ := get(t, ts, models.EntityCVE.Path, url.Values{}, "k1")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	// другой ключ - отдельный лимит
	resp, _ = get(t, ts, models.EntityCVE.Path, url.Values{}, "k2")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// health не лимитируется
	for range 3 {
		r, err := http.Get(ts.URL + "/health")
		require.NoError(t, err)
		_ = r.Body.Close()
		assert.Equal(t, http.StatusOK, r.StatusCode)
	}
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	rl := NewRateLimiter(2, 30*time.Second, testLogger())
	defer rl.Stop()

	now := time.Date(2025, 10, 29, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for range 2 {
		ok, _ := rl.Allow("a")
		assert.True(t, ok)
	}

	now = now.Add(10 * time.Second)
	ok, retryAfter := rl.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, 20*time.Second, retryAfter)

	// отказ не продлевает окно
	now = now.Add(20 * time.Second)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)

	// старые окна удаляются
	now = now.Add(time.Minute + time.Second)
	rl.evict()
	assert.Empty(t, rl.windows)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestLoggingMiddleware_CapturesStatus(t *testing.T) {
	h := LoggingMiddleware(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	assert.Equal(t, "ip:10.0.0.1", clientKey(r))

	r.Header.Set(api.HeaderAPIKey, "abc")
	assert.Equal(t, "key:abc", clientKey(r))
	assert.Equal(t, "key:***", redactKey(clientKey(r)))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	older := `[{"cve":{"id":"CVE-OLD"}}]`
	newer := `[{"cve":{"id":"CVE-NEW-1","score":9.80}},{"cve":{"id":"CVE-NEW-2"}}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cve_data_FULL_20250101_000000.json"), []byte(older), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cve_data_FULL_20251029_120000.json"), []byte(newer), 0o644))

	ds, err := LoadDir(dir)
	require.NoError(t, err)

	items, ok := ds.Query(models.EntityNameCVE, nil, nil)
	require.True(t, ok)
	require.Len(t, items, 2)
	cve := items[0].(map[string]any)["cve"].(map[string]any)
	assert.Equal(t, "CVE-NEW-1", cve["id"])
	assert.Equal(t, json.Number("9.80"), cve["score"])

	_, ok = ds.Query(models.EntityNameCPE, nil, nil)
	assert.False(t, ok)
}

func TestLoadDir_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cpe_data_FULL_20250101_000000.json"), []byte("{"), 0o644))

	_, err := LoadDir(dir)
	require.Error(t, err)
}
