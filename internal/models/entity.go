package models

import (
	"errors"
	"fmt"
)

// ErrUnknownEntity is returned when an entity name is not one of the mirrored types
var ErrUnknownEntity = errors.New("unknown entity")

// Entity описывает один зеркалируемый тип записей NVD.
// Значения статические: меняется только PageSize (из конфигурации).
type Entity struct {
	Name     string // Name короткое имя: "cve" или "cpe"
	Path     string // Path путь эндпоинта NVD API 2.0
	ItemsKey string // ItemsKey ключ массива записей в ответе API
	Prefix   string // Prefix префикс архивов и ключ checkpoint
	Table    string // Table таблица в целевом хранилище
	IDColumn string // IDColumn колонка первичного ключа
	PageSize int    // PageSize размер страницы (resultsPerPage)
}

// Entity names
const (
	EntityNameCVE = "cve"
	EntityNameCPE = "cpe"
)

// DefaultPageSize is the maximum page size accepted by the NVD 2.0 APIs
const DefaultPageSize = 2000

var (
	// EntityCVE describes CVE records (vulnerabilities)
	EntityCVE = Entity{
		Name:     EntityNameCVE,
		Path:     "/rest/json/cves/2.0",
		ItemsKey: "vulnerabilities",
		Prefix:   "cve_data",
		Table:    "cve_records",
		IDColumn: "cve_id",
		PageSize: DefaultPageSize,
	}

	// EntityCPE describes CPE records (products/platforms)
	EntityCPE = Entity{
		Name:     EntityNameCPE,
		Path:     "/rest/json/cpes/2.0",
		ItemsKey: "products",
		Prefix:   "cpe_data",
		Table:    "cpe_records",
		IDColumn: "cpe_id",
		PageSize: DefaultPageSize,
	}
)

// Entities returns all mirrored entity types in sync order
func Entities() []Entity {
	return []Entity{EntityCVE, EntityCPE}
}

// LookupEntity returns the entity with the given name
func LookupEntity(name string) (Entity, error) {
	for _, e := range Entities() {
		if e.Name == name {
			return e, nil
		}
	}
	return Entity{}, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
}

// LookupTable returns the entity stored in the given table.
// Storage backends use it to refuse arbitrary table names in dynamic SQL.
func LookupTable(table string) (Entity, error) {
	for _, e := range Entities() {
		if e.Table == table {
			return e, nil
		}
	}
	return Entity{}, fmt.Errorf("%w: table %q", ErrUnknownEntity, table)
}
