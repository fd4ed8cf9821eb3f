package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON stores T as a JSON document. Postgres hands back []byte for jsonb,
// SQLite hands back string for TEXT; both are accepted.
type JSON[T any] struct {
	Data T
}

func NewJSON[T any](data T) JSON[T] {
	return JSON[T]{Data: data}
}

func (p *JSON[T]) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		var zero T
		p.Data = zero
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("JSON.Scan: expected []byte or string, got %T", src)
	}
	if len(b) == 0 {
		var zero T
		p.Data = zero
		return nil
	}
	return json.Unmarshal(b, &p.Data)
}

// Value writes the document as text so it binds to jsonb and TEXT columns alike.
func (p JSON[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(p.Data)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *JSON[T]) GetValue() T {
	return p.Data
}
