package api

import (
	"net/url"
	"strconv"
	"time"
)

// Query parameter names of the NVD 2.0 APIs
const (
	ParamStartIndex       = "startIndex"
	ParamResultsPerPage   = "resultsPerPage"
	ParamLastModStartDate = "lastModStartDate"
	ParamLastModEndDate   = "lastModEndDate"

	// HeaderAPIKey заголовок, в котором передается ключ NVD API
	HeaderAPIKey = "apiKey"
)

// TimeLayout is the ISO-8601 form used for window parameters ("2025-10-29T12:00:00Z")
const TimeLayout = "2006-01-02T15:04:05Z"

// PageRequest представляет запрос одной страницы
type PageRequest struct {
	LastModStart   *time.Time // LastModStart начало окна (только для инкрементальной синхронизации)
	LastModEnd     *time.Time // LastModEnd конец окна
	StartIndex     int        // StartIndex смещение первой записи
	ResultsPerPage int        // ResultsPerPage размер страницы
}

// Incremental reports whether the request is bounded by a modification window
func (r PageRequest) Incremental() bool {
	return r.LastModStart != nil
}

// Query encodes the request as URL query parameters
func (r PageRequest) Query() url.Values {
	q := url.Values{}
	q.Set(ParamStartIndex, strconv.Itoa(r.StartIndex))
	q.Set(ParamResultsPerPage, strconv.Itoa(r.ResultsPerPage))
	if r.LastModStart != nil {
		q.Set(ParamLastModStartDate, FormatTime(*r.LastModStart))
		if r.LastModEnd != nil {
			q.Set(ParamLastModEndDate, FormatTime(*r.LastModEnd))
		}
	}
	return q
}

// FormatTime converts t to UTC, drops sub-second precision and appends "Z"
func FormatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(TimeLayout)
}

// ParseTime parses a window parameter. Both the short form and RFC 3339
// with fractional seconds (as returned in NVD payloads) are accepted.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	// NVD отдает lastModified без зоны: "2024-01-02T03:04:05.123"
	return time.Parse("2006-01-02T15:04:05.999999999", s)
}

// PageResponse is the envelope of a CVE or CPE 2.0 response.
// Only one of Vulnerabilities / Products is set, depending on the endpoint.
type PageResponse struct {
	Format          string `json:"format"`
	Version         string `json:"version"`
	Timestamp       string `json:"timestamp"`
	Vulnerabilities []any  `json:"vulnerabilities,omitempty"`
	Products        []any  `json:"products,omitempty"`
	ResultsPerPage  int    `json:"resultsPerPage"`
	StartIndex      int    `json:"startIndex"`
	TotalResults    int    `json:"totalResults"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Message string `json:"message"`
}

// Items returns the result list stored under key ("vulnerabilities" or "products")
func (r *PageResponse) Items(key string) []any {
	switch key {
	case "vulnerabilities":
		return r.Vulnerabilities
	case "products":
		return r.Products
	default:
		return nil
	}
}

// SetItems stores items under key; unknown keys are ignored
func (r *PageResponse) SetItems(key string, items []any) {
	switch key {
	case "vulnerabilities":
		r.Vulnerabilities = items
	case "products":
		r.Products = items
	}
}
