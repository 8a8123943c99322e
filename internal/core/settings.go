package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prixfinance-backend-go/internal/db"
)

// SettingsRepository stores one settings document per user, addressed by the user id.
type SettingsRepository struct {
	store db.DocumentStore
	now   func() time.Time
}

// NewSettingsRepository creates a SettingsRepository.
func NewSettingsRepository(store db.DocumentStore) *SettingsRepository {
	return &SettingsRepository{store: store, now: time.Now}
}

// Get returns the user's settings flattened with their id.
func (s *SettingsRepository) Get(ctx context.Context, userID string) (map[string]interface{}, error) {
	doc, err := s.store.Get(ctx, SettingsCollection, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, notFoundError("No settings found for this user.")
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return doc.Flatten(), nil
}

// Update merges patch into the user's settings, creating the document on first write.
func (s *SettingsRepository) Update(ctx context.Context, userID string, patch map[string]interface{}) error {
	changes := make(map[string]interface{}, len(patch)+2)
	for k, v := range patch {
		switch k {
		case "id", "createdAt", "updatedAt":
			continue
		}
		changes[k] = v
	}
	now := s.now().UTC()
	changes["updatedAt"] = now

	_, err := s.store.Get(ctx, SettingsCollection, userID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		changes["createdAt"] = now
	case err != nil:
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if err := s.store.Set(ctx, SettingsCollection, userID, changes); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}
