// Package stub serves the NVD CVE and CPE 2.0 pagination contract from local
// snapshot files, for development runs and tests that must not hit NVD.
package stub

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/nvdmirror/internal/models"
	"github.com/iudanet/nvdmirror/pkg/api"
)

const (
	headerAPIKey = api.HeaderAPIKey

	defaultResultsPerPage = 2000
	maxResultsPerPage     = 2000
)

// Options configures the stub server
type Options struct {
	Dataset *Dataset
	// APIKey, when set, is required on every API request
	APIKey string
	// RateLimit requests per RateWindow per client; 0 disables limiting
	RateLimit  int
	RateWindow time.Duration
}

// Server is the stub NVD API
type Server struct {
	dataset *Dataset
	limiter *RateLimiter
	logger  *slog.Logger
	handler http.Handler
}

// New builds the server handler chain: recovery → logging → [rate limit → api key] → mux
func New(opts Options, logger *slog.Logger) *Server {
	if opts.Dataset == nil {
		opts.Dataset = NewDataset()
	}
	s := &Server{
		dataset: opts.Dataset,
		logger:  logger,
	}

	var apiChain http.Handler = http.HandlerFunc(s.serveAPI)
	apiChain = APIKeyMiddleware(opts.APIKey, logger)(apiChain)
	if opts.RateLimit > 0 {
		window := opts.RateWindow
		if window <= 0 {
			window = 30 * time.Second
		}
		s.limiter = NewRateLimiter(opts.RateLimit, window, logger)
		apiChain = s.limiter.Middleware(apiChain)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.Handle("/rest/json/", apiChain)

	var h http.Handler = mux
	h = LoggingMiddleware(logger)(h)
	h = RecoveryMiddleware(logger)(h)
	s.handler = h

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close stops background goroutines
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) serveAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entity, ok := entityByPath(r.URL.Path)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown endpoint")
		return
	}

	q := r.URL.Query()
	startIndex, err := intParam(q.Get(api.ParamStartIndex), 0)
	if err != nil || startIndex < 0 {
		writeError(w, http.StatusBadRequest, "invalid startIndex")
		return
	}
	perPage, err := intParam(q.Get(api.ParamResultsPerPage), defaultResultsPerPage)
	if err != nil || perPage <= 0 || perPage > maxResultsPerPage {
		writeError(w, http.StatusBadRequest, "invalid resultsPerPage")
		return
	}

	start, end, err := windowParams(q.Get(api.ParamLastModStartDate), q.Get(api.ParamLastModEndDate))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, ok := s.dataset.Query(entity.Name, start, end)
	if !ok {
		writeError(w, http.StatusNotFound, "no data")
		return
	}

	page := []any{}
	if startIndex < len(items) {
		page = items[startIndex:min(startIndex+perPage, len(items))]
	}

	resp := api.PageResponse{
		Format:         "NVD_" + strings.ToUpper(entity.Name),
		Version:        "2.0",
		Timestamp:      time.Now().UTC().Format("2006-01-02T15:04:05.000"),
		ResultsPerPage: len(page),
		StartIndex:     startIndex,
		TotalResults:   len(items),
	}
	resp.SetItems(entity.ItemsKey, page)

	writeJSON(w, http.StatusOK, resp)
}

func entityByPath(path string) (models.Entity, bool) {
	for _, e := range models.Entities() {
		if e.Path == path {
			return e, true
		}
	}
	return models.Entity{}, false
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

// windowParams parses the modification window. As on NVD, both bounds must be
// given together.
func windowParams(startRaw, endRaw string) (*time.Time, *time.Time, error) {
	if startRaw == "" && endRaw == "" {
		return nil, nil, nil
	}
	if startRaw == "" || endRaw == "" {
		return nil, nil, errBadWindow("lastModStartDate and lastModEndDate must be used together")
	}

	start, err := api.ParseTime(startRaw)
	if err != nil {
		return nil, nil, errBadWindow("invalid lastModStartDate")
	}
	end, err := api.ParseTime(endRaw)
	if err != nil {
		return nil, nil, errBadWindow("invalid lastModEndDate")
	}
	if end.Before(start) {
		return nil, nil, errBadWindow("lastModEndDate is before lastModStartDate")
	}
	return &start, &end, nil
}

type errBadWindow string

func (e errBadWindow) Error() string { return string(e) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.ErrorResponse{Message: message})
}
