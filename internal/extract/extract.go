// Package extract locates the unique identifier of a raw NVD item.
package extract

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iudanet/nvdmirror/internal/models"
)

// ErrNotFound indicates that no identifier exists anywhere in the item
var ErrNotFound = errors.New("identifier not found")

// DefaultMaxDepth bounds the structural search
const DefaultMaxDepth = 32

// Extractor returns the identifier and the normalized payload of a raw item
type Extractor interface {
	Extract(raw models.Document) (string, models.Document, error)
}

// FieldExtractor reads the identifier from a reliably named field.
// If Wrapper is set and the item has an object under that key, the
// wrapped object is the payload (CVE items are {"cve": {...}}).
type FieldExtractor struct {
	Wrapper string
	Field   string
}

// Extract implements Extractor
func (e FieldExtractor) Extract(raw models.Document) (string, models.Document, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return "", nil, fmt.Errorf("%w: item is %T, not an object", ErrNotFound, raw)
	}

	payload := obj
	if e.Wrapper != "" {
		if inner, ok := obj[e.Wrapper].(map[string]any); ok {
			payload = inner
		}
	}

	id := stringField(payload, e.Field)
	if id == "" {
		return "", nil, fmt.Errorf("%w: field %q", ErrNotFound, e.Field)
	}
	return id, payload, nil
}

// SearchExtractor walks the whole item looking for one of Fields.
// Fields are tried in priority order: a higher-priority field found
// anywhere wins over a lower-priority one found earlier in the walk.
type SearchExtractor struct {
	Fields   []string
	MaxDepth int
}

// Extract implements Extractor
func (e SearchExtractor) Extract(raw models.Document) (string, models.Document, error) {
	maxDepth := e.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	for _, field := range e.Fields {
		if id, payload, ok := search(raw, field, 0, maxDepth); ok {
			return id, payload, nil
		}
	}
	return "", nil, fmt.Errorf("%w: none of %s", ErrNotFound, strings.Join(e.Fields, ", "))
}

// search выполняет обход в глубину; ключи объектов обходятся в отсортированном
// порядке, чтобы результат не зависел от порядка итерации map
func search(node models.Document, field string, depth, maxDepth int) (string, models.Document, bool) {
	if depth > maxDepth {
		return "", nil, false
	}

	switch v := node.(type) {
	case map[string]any:
		if id := stringField(v, field); id != "" {
			return id, v, true
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if id, payload, ok := search(v[k], field, depth+1, maxDepth); ok {
				return id, payload, true
			}
		}
	case []any:
		for _, item := range v {
			if id, payload, ok := search(item, field, depth+1, maxDepth); ok {
				return id, payload, true
			}
		}
	}

	return "", nil, false
}

func stringField(obj map[string]any, field string) string {
	s, _ := obj[field].(string)
	return strings.TrimSpace(s)
}

// ForEntity returns the extractor used for the given entity type
func ForEntity(entity models.Entity) (Extractor, error) {
	switch entity.Name {
	case models.EntityNameCVE:
		return FieldExtractor{Wrapper: "cve", Field: "id"}, nil
	case models.EntityNameCPE:
		return SearchExtractor{Fields: []string{"cpeName", "cpe23Uri"}, MaxDepth: DefaultMaxDepth}, nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownEntity, entity.Name)
	}
}
