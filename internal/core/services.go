package core

import (
	"time"

	"go.uber.org/zap"

	"prixfinance-backend-go/internal/db"
)

// ServiceOptions tunes NewServices.
type ServiceOptions struct {
	ActivityAsync        bool
	ActivityWriteTimeout time.Duration
	// ActivityPublisher, when set, also receives every stored activity entry.
	ActivityPublisher    ActivityPublisher
	// Clock overrides time.Now for every timestamp the services write.
	Clock func() time.Time
}

// Services bundles everything the HTTP layer needs, all backed by one store.
type Services struct {
	Resolver     *Resolver
	Recorder     *Recorder
	Users        *Repository
	Settings     *SettingsRepository
	Budgets      *Repository
	Transactions *Repository
	Goals        *Repository
	Trophies     *Repository
	UserTrophies *TrophyLinks
}

// NewServices wires the repositories, resolver and recorder. cache may be nil.
func NewServices(store db.DocumentStore, cache IdentityCache, logger *zap.Logger, opts ServiceOptions) *Services {
	var repoOpts []RepositoryOption
	if opts.Clock != nil {
		repoOpts = append(repoOpts, WithClock(opts.Clock))
	}

	trophies := NewRepository(store, TrophyResource, repoOpts...)
	links := NewRepository(store, UserTrophyResource, repoOpts...)

	recorder := NewRecorder(store, logger, opts.ActivityAsync, opts.ActivityWriteTimeout)
	recorder.publisher = opts.ActivityPublisher
	settings := NewSettingsRepository(store)
	if opts.Clock != nil {
		recorder.now = opts.Clock
		settings.now = opts.Clock
	}

	return &Services{
		Resolver:     NewResolver(store, cache, logger),
		Recorder:     recorder,
		Users:        NewRepository(store, UserResource, repoOpts...),
		Settings:     settings,
		Budgets:      NewRepository(store, BudgetResource, repoOpts...),
		Transactions: NewRepository(store, TransactionResource, repoOpts...),
		Goals:        NewRepository(store, GoalResource, repoOpts...),
		Trophies:     trophies,
		UserTrophies: NewTrophyLinks(trophies, links),
	}
}
