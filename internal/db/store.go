package db

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by point lookups and partial updates when the
// addressed document does not exist.
var ErrNotFound = errors.New("document not found")

// Filter is a single equality predicate on a top-level document field.
type Filter struct {
	Field string
	Value interface{}
}

// Document is a stored document together with its store-generated identifier.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Flatten returns the document fields merged with its identifier under "id",
// which is the shape every read endpoint returns.
func (d Document) Flatten() map[string]interface{} {
	out := make(map[string]interface{}, len(d.Data)+1)
	out["id"] = d.ID
	for k, v := range d.Data {
		out[k] = v
	}
	return out
}

// DocumentStore is the subset of document-database behaviour the application
// relies on: point lookups, equality-filtered queries and document mutation.
// No ordering or cross-document transactional guarantees are assumed.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	Add(ctx context.Context, collection string, data map[string]interface{}) (string, error)
	// Set merges data into the document, creating it when absent.
	Set(ctx context.Context, collection, id string, data map[string]interface{}) error
	// Update merges data into an existing document and fails with ErrNotFound otherwise.
	Update(ctx context.Context, collection, id string, data map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
	// Query returns the documents matching every filter. A limit <= 0 means no limit.
	Query(ctx context.Context, collection string, filters []Filter, limit int) ([]Document, error)
	Close() error
}

// ValuesEqual reports whether two field values are equal the way an equality
// filter compares them. Timestamps compare by instant and numbers by value.
func ValuesEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	case nil:
		return b == nil
	}
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
