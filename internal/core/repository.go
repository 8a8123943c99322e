package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"prixfinance-backend-go/internal/db"
)

// Key is an ordered set of equality predicates that identifies at most one
// document of a resource.
type Key []db.Filter

// Value returns the key component for field, or nil.
func (k Key) Value(field string) interface{} {
	for _, f := range k {
		if f.Field == field {
			return f.Value
		}
	}
	return nil
}

// Display renders the key component for field the way messages quote it.
func (k Key) Display(field string) string {
	return displayValue(k.Value(field))
}

func (k Key) equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i].Field != other[i].Field || !db.ValuesEqual(k[i].Value, other[i].Value) {
			return false
		}
	}
	return true
}

// FieldRule declares how one field is coerced and defaulted.
type FieldRule struct {
	Name string
	Kind FieldKind
	// Default is used on create when the field is absent or blank.
	Default interface{}
	// DefaultFrom copies another field's stored value when this one is absent.
	DefaultFrom string
	// DefaultNow stamps the current time when the field is absent.
	DefaultNow bool
}

// ResourceSpec describes a document kind: where it lives, which fields form
// its uniqueness key and how incoming values are shaped.
type ResourceSpec struct {
	Name       string
	Collection string
	KeyFields  []string
	Fields     []FieldRule
	// Timestamps enables createdAt/updatedAt stamping.
	Timestamps bool
	// Immutable fields are dropped from update patches.
	Immutable []string
	// OpenUpdate merges patch fields that have no rule as received.
	OpenUpdate bool

	NotFound       func(Key) string
	Conflict       func(Key) string
	UpdateConflict func(Key) string
}

func (s ResourceSpec) rule(field string) (FieldRule, bool) {
	for _, r := range s.Fields {
		if r.Name == field {
			return r, true
		}
	}
	return FieldRule{}, false
}

func (s ResourceSpec) kindOf(field string) FieldKind {
	if r, ok := s.rule(field); ok {
		return r.Kind
	}
	return KindAny
}

func (s ResourceSpec) isKeyField(field string) bool {
	for _, f := range s.KeyFields {
		if f == field {
			return true
		}
	}
	return false
}

func (s ResourceSpec) isImmutable(field string) bool {
	for _, f := range s.Immutable {
		if f == field {
			return true
		}
	}
	return false
}

func (s ResourceSpec) notFoundMessage(k Key) string {
	if s.NotFound != nil {
		return s.NotFound(k)
	}
	return fmt.Sprintf("No %s found.", s.Name)
}

func (s ResourceSpec) conflictMessage(k Key, updating bool) string {
	if updating && s.UpdateConflict != nil {
		return s.UpdateConflict(k)
	}
	if s.Conflict != nil {
		return s.Conflict(k)
	}
	return fmt.Sprintf("%s already exists.", s.Name)
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *Repository) { r.now = now }
}

// Repository implements create/get/update/list/delete for one ResourceSpec on
// top of equality queries. Uniqueness is checked before writing; two concurrent
// creates of the same key can both succeed.
type Repository struct {
	spec  ResourceSpec
	store db.DocumentStore
	now   func() time.Time
}

// NewRepository creates a repository for spec backed by store.
func NewRepository(store db.DocumentStore, spec ResourceSpec, opts ...RepositoryOption) *Repository {
	r := &Repository{spec: spec, store: store, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// KeyOf builds a key from values given in KeyFields order, coercing each one.
func (r *Repository) KeyOf(values ...interface{}) (Key, error) {
	if len(values) != len(r.spec.KeyFields) {
		return nil, fmt.Errorf("%s key needs %d values, got %d", r.spec.Name, len(r.spec.KeyFields), len(values))
	}
	key := make(Key, len(values))
	for i, field := range r.spec.KeyFields {
		v, err := coerce(field, r.spec.kindOf(field), values[i])
		if err != nil {
			return nil, err
		}
		key[i] = db.Filter{Field: field, Value: v}
	}
	return key, nil
}

// Filters turns raw field values into coerced equality filters, ordered by field name.
func (r *Repository) Filters(values map[string]interface{}) ([]db.Filter, error) {
	fields := make([]string, 0, len(values))
	for f := range values {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	filters := make([]db.Filter, 0, len(fields))
	for _, field := range fields {
		v, err := coerce(field, r.spec.kindOf(field), values[field])
		if err != nil {
			return nil, err
		}
		filters = append(filters, db.Filter{Field: field, Value: v})
	}
	return filters, nil
}

// Create inserts a new document for key unless one already exists. Only
// fields with a rule are taken from payload.
func (r *Repository) Create(ctx context.Context, key Key, payload map[string]interface{}) (string, error) {
	existing, err := r.find(ctx, key, 1)
	if err != nil {
		return "", err
	}
	if len(existing) > 0 {
		return "", conflictError(r.spec.conflictMessage(key, false))
	}

	data := make(map[string]interface{}, len(r.spec.Fields)+2)
	for _, f := range key {
		data[f.Field] = f.Value
	}
	now := r.now().UTC()
	for _, rule := range r.spec.Fields {
		if r.spec.isKeyField(rule.Name) {
			continue
		}
		raw := payload[rule.Name]
		if isBlank(raw) {
			switch {
			case rule.DefaultNow:
				data[rule.Name] = now
			case rule.DefaultFrom != "":
				data[rule.Name] = data[rule.DefaultFrom]
			case rule.Default != nil:
				data[rule.Name] = rule.Default
			}
			continue
		}
		v, err := coerce(rule.Name, rule.Kind, raw)
		if err != nil {
			return "", err
		}
		data[rule.Name] = v
	}
	if r.spec.Timestamps {
		data["createdAt"] = now
		data["updatedAt"] = now
	}

	id, err := r.store.Add(ctx, r.spec.Collection, data)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", r.spec.Name, err)
	}
	return id, nil
}

// Get returns the document for key flattened with its id.
func (r *Repository) Get(ctx context.Context, key Key) (map[string]interface{}, error) {
	doc, err := r.locate(ctx, key)
	if err != nil {
		return nil, err
	}
	return doc.Flatten(), nil
}

// Update applies patch to the document for key. When the patch moves the
// document to a different key, that key must not belong to another document.
func (r *Repository) Update(ctx context.Context, key Key, patch map[string]interface{}) (string, error) {
	doc, err := r.locate(ctx, key)
	if err != nil {
		return "", err
	}

	changes := make(map[string]interface{}, len(patch)+1)
	for field, raw := range patch {
		switch field {
		case "id", "createdAt", "updatedAt":
			continue
		}
		if r.spec.isImmutable(field) {
			continue
		}
		rule, ok := r.spec.rule(field)
		if !ok {
			if r.spec.OpenUpdate {
				changes[field] = raw
			}
			continue
		}
		// null on a typed field leaves the stored value alone.
		if raw == nil && rule.Kind != KindAny {
			continue
		}
		v, err := coerce(field, rule.Kind, raw)
		if err != nil {
			return "", err
		}
		changes[field] = v
	}

	target := make(Key, len(key))
	for i, f := range key {
		target[i] = f
		if v, ok := changes[f.Field]; ok {
			target[i].Value = v
		}
	}
	if !target.equal(key) {
		owners, err := r.find(ctx, target, 2)
		if err != nil {
			return "", err
		}
		for _, owner := range owners {
			if owner.ID != doc.ID {
				return "", conflictError(r.spec.conflictMessage(target, true))
			}
		}
	}

	if r.spec.Timestamps {
		changes["updatedAt"] = r.now().UTC()
	}
	if len(changes) == 0 {
		return doc.ID, nil
	}
	if err := r.store.Update(ctx, r.spec.Collection, doc.ID, changes); err != nil {
		return "", fmt.Errorf("failed to update %s: %w", r.spec.Name, err)
	}
	return doc.ID, nil
}

// List returns every document matching filters. Order is unspecified.
func (r *Repository) List(ctx context.Context, filters []db.Filter) ([]map[string]interface{}, error) {
	docs, err := r.store.Query(ctx, r.spec.Collection, filters, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.spec.Name, err)
	}
	out := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Flatten())
	}
	return out, nil
}

// Delete removes the document for key and returns its id.
func (r *Repository) Delete(ctx context.Context, key Key) (string, error) {
	doc, err := r.locate(ctx, key)
	if err != nil {
		return "", err
	}
	if err := r.store.Delete(ctx, r.spec.Collection, doc.ID); err != nil {
		return "", fmt.Errorf("failed to delete %s: %w", r.spec.Name, err)
	}
	return doc.ID, nil
}

func (r *Repository) locate(ctx context.Context, key Key) (*db.Document, error) {
	docs, err := r.find(ctx, key, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, notFoundError(r.spec.notFoundMessage(key))
	}
	return &docs[0], nil
}

func (r *Repository) find(ctx context.Context, key Key, limit int) ([]db.Document, error) {
	docs, err := r.store.Query(ctx, r.spec.Collection, key, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.spec.Collection, err)
	}
	return docs, nil
}
