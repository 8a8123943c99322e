package core

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"prixfinance-backend-go/internal/db"
	"prixfinance-backend-go/internal/models"
)

// ActivityPublisher receives every entry once it has been stored.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, entry models.ActivityLog) error
}

// Recorder appends entries to the user activity log. Writes are best effort:
// a failed write is logged and never fails the operation that caused it.
type Recorder struct {
	store     db.DocumentStore
	list      *Repository
	publisher ActivityPublisher
	logger    *zap.Logger
	async     bool
	timeout   time.Duration
	now       func() time.Time
	wg        sync.WaitGroup
}

// NewRecorder creates a Recorder. With async set, writes run in the background
// on a context detached from the caller and bounded by timeout.
func NewRecorder(store db.DocumentStore, logger *zap.Logger, async bool, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Recorder{
		store:   store,
		list:    NewRepository(store, ActivityResource),
		logger:  logger,
		async:   async,
		timeout: timeout,
		now:     time.Now,
	}
}

// Record appends {userId, activityDescription, timestamp}. An empty userID is ignored.
func (r *Recorder) Record(ctx context.Context, userID, description string) {
	if userID == "" {
		return
	}
	entry := models.ActivityLog{
		UserID:              userID,
		ActivityDescription: description,
		Timestamp:           r.now().UTC(),
	}

	if !r.async {
		r.write(ctx, entry)
		return
	}
	detached := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.write(detached, entry)
	}()
}

func (r *Recorder) write(ctx context.Context, entry models.ActivityLog) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	id, err := r.store.Add(ctx, ActivityCollection, entry.Fields())
	if err != nil {
		r.logger.Warn("Failed to record user activity",
			zap.String("userID", entry.UserID),
			zap.String("activity", entry.ActivityDescription),
			zap.Error(err))
		return
	}
	if r.publisher == nil {
		return
	}
	entry.ID = id
	if err := r.publisher.PublishActivity(ctx, entry); err != nil {
		r.logger.Warn("Failed to publish user activity",
			zap.String("activityID", id),
			zap.Error(err))
	}
}

// Wait blocks until background writes started so far have finished.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

// List returns activity entries, only the given user's when userID is set.
func (r *Recorder) List(ctx context.Context, userID string) ([]map[string]interface{}, error) {
	var filters []db.Filter
	if userID != "" {
		filters = append(filters, db.Filter{Field: "userId", Value: userID})
	}
	return r.list.List(ctx, filters)
}
