package core

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"prixfinance-backend-go/internal/db"
)

// IdentityCache remembers email to user id lookups. Implementations swallow
// their own failures; a miss only costs a query.
type IdentityCache interface {
	Get(ctx context.Context, email string) (string, bool)
	Set(ctx context.Context, email, userID string)
	Delete(ctx context.Context, email string)
}

// Resolver maps a user's email to the id of their users document.
type Resolver struct {
	users  *Repository
	cache  IdentityCache
	logger *zap.Logger
}

// NewResolver creates a Resolver. cache may be nil.
func NewResolver(store db.DocumentStore, cache IdentityCache, logger *zap.Logger) *Resolver {
	return &Resolver{
		users:  NewRepository(store, UserResource),
		cache:  cache,
		logger: logger,
	}
}

// Resolve returns the id of the user whose email matches exactly.
func (r *Resolver) Resolve(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", NewValidationError("Email is required.")
	}
	if r.cache != nil {
		if id, ok := r.cache.Get(ctx, email); ok {
			return id, nil
		}
	}

	key, err := r.users.KeyOf(email)
	if err != nil {
		return "", err
	}
	doc, err := r.users.locate(ctx, key)
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		r.cache.Set(ctx, email, doc.ID)
	}
	r.logger.Debug("Resolved user identity", zap.String("email", email), zap.String("userID", doc.ID))
	return doc.ID, nil
}

// Forget drops any cached resolution for email.
func (r *Resolver) Forget(ctx context.Context, email string) {
	if r.cache != nil {
		r.cache.Delete(ctx, email)
	}
}
