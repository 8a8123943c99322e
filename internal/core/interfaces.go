package core

import (
	"context"

	"prixfinance-backend-go/internal/db"
)

// IdentityResolver maps user emails to user ids.
type IdentityResolver interface {
	Resolve(ctx context.Context, email string) (string, error)
	// Forget drops any cached resolution for email.
	Forget(ctx context.Context, email string)
}

// ActivityRecorder writes and lists user activity entries.
type ActivityRecorder interface {
	Record(ctx context.Context, userID, description string)
	List(ctx context.Context, userID string) ([]map[string]interface{}, error)
}

// ResourceRepository is the generic CRUD surface every keyed resource shares.
type ResourceRepository interface {
	KeyOf(values ...interface{}) (Key, error)
	Filters(values map[string]interface{}) ([]db.Filter, error)
	Create(ctx context.Context, key Key, payload map[string]interface{}) (string, error)
	Get(ctx context.Context, key Key) (map[string]interface{}, error)
	Update(ctx context.Context, key Key, patch map[string]interface{}) (string, error)
	List(ctx context.Context, filters []db.Filter) ([]map[string]interface{}, error)
	Delete(ctx context.Context, key Key) (string, error)
}

// SettingsService reads and merges per-user settings.
type SettingsService interface {
	Get(ctx context.Context, userID string) (map[string]interface{}, error)
	Update(ctx context.Context, userID string, patch map[string]interface{}) error
}

// TrophyLinker links users to trophies they earned.
type TrophyLinker interface {
	Earn(ctx context.Context, userID, trophyName string) (string, error)
	List(ctx context.Context, userID string) ([]map[string]interface{}, error)
	Remove(ctx context.Context, userID, trophyName string) error
}

var (
	_ IdentityResolver   = (*Resolver)(nil)
	_ ActivityRecorder   = (*Recorder)(nil)
	_ ResourceRepository = (*Repository)(nil)
	_ SettingsService    = (*SettingsRepository)(nil)
	_ TrophyLinker       = (*TrophyLinks)(nil)
)
