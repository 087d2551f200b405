package models

import "time"

// Document is a decoded JSON value: map[string]any, []any or a scalar
// (string, json.Number, bool, nil). Its shape is opaque to the engine.
type Document = any

// Record представляет одну нормализованную запись, готовую к upsert.
// Создается экстрактором из одного элемента страницы, потребляется sink'ом один раз.
type Record struct {
	ObservedAt time.Time // ObservedAt время наблюдения; нулевое значение - время записи sink'ом
	Payload    Document  // Payload нормализованный документ (объект, содержащий идентификатор)
	ID         string    // ID уникальный идентификатор (CVE ID или CPE name)
}

// Page представляет один ответ API
type Page struct {
	Items       []Document // Items сырые элементы страницы
	Raw         []byte     // Raw тело ответа как есть (для архива)
	TotalCount  int        // TotalCount totalResults, сообщенный сервером
	StartOffset int        // StartOffset startIndex этой страницы
}

// SyncCursor is the persisted resumption point of an in-progress full sweep.
// NextOffset is always a multiple of the entity page size.
type SyncCursor struct {
	EntityPrefix string `json:"entity_prefix"`
	NextOffset   int    `json:"next_offset"`
}

// TableStats summarizes one target table
type TableStats struct {
	LastModified *time.Time
	Table        string
	Count        int64
}
