package stub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/iudanet/nvdmirror/internal/models"
	"github.com/iudanet/nvdmirror/pkg/api"
)

// Dataset holds the items served per entity
type Dataset struct {
	items map[string][]any
	mu    sync.RWMutex
}

// NewDataset creates an empty dataset
func NewDataset() *Dataset {
	return &Dataset{items: make(map[string][]any)}
}

// Set replaces the items of entity
func (d *Dataset) Set(entity string, items []any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items[entity] = items
}

// LoadDir loads the newest {prefix}_FULL_*.json snapshot of each entity from dir.
// Entities without a snapshot are left out and answered with 404.
func LoadDir(dir string) (*Dataset, error) {
	d := NewDataset()
	for _, entity := range models.Entities() {
		matches, err := filepath.Glob(filepath.Join(dir, entity.Prefix+"_FULL_*.json"))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			continue
		}
		// Метка времени в имени сортируется лексикографически
		slices.Sort(matches)
		latest := matches[len(matches)-1]

		items, err := readSnapshot(latest)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", latest, err)
		}
		d.Set(entity.Name, items)
	}
	return d, nil
}

func readSnapshot(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

// Query returns the items of entity whose lastModified falls in [start, end].
// Items without a lastModified field always match. ok is false when the
// dataset has nothing for entity.
func (d *Dataset) Query(entity string, start, end *time.Time) (items []any, ok bool) {
	d.mu.RLock()
	all, ok := d.items[entity]
	d.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if start == nil && end == nil {
		return all, true
	}

	items = make([]any, 0, len(all))
	for _, item := range all {
		ts, found := lastModified(item)
		if !found {
			items = append(items, item)
			continue
		}
		if start != nil && ts.Before(*start) {
			continue
		}
		if end != nil && ts.After(*end) {
			continue
		}
		items = append(items, item)
	}
	return items, true
}

// lastModified reads "lastModified" from the item or from one of its
// direct child objects ({"cve": {...}}, {"cpe": {...}})
func lastModified(item any) (time.Time, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return time.Time{}, false
	}
	if ts, ok := parseLastModified(obj); ok {
		return ts, true
	}
	for _, v := range obj {
		if child, ok := v.(map[string]any); ok {
			if ts, ok := parseLastModified(child); ok {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func parseLastModified(obj map[string]any) (time.Time, bool) {
	s, ok := obj["lastModified"].(string)
	if !ok {
		return time.Time{}, false
	}
	ts, err := api.ParseTime(s)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
