package history

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/rebeliceyang/lazycodex/internal/models"
	"github.com/rebeliceyang/lazycodex/internal/query"
)

const pruneEvery = 50

// Encoder turns a state into the text stored in history, normally the
// URL parameters of the resource's structure.
type Encoder func(resource models.Resource, state models.QueryState) string

// Recorder writes executed searches to a Store and prunes it to a maximum size
type Recorder struct {
	store      *Store
	encode     Encoder
	maxEntries int
	logger     *slog.Logger
	added      atomic.Int64
}

// NewRecorder creates a recorder. maxEntries <= 0 disables pruning.
func NewRecorder(store *Store, encode Encoder, maxEntries int, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, encode: encode, maxEntries: maxEntries, logger: logger}
}

// Record stores one execution. Failures are only logged.
func (r *Recorder) Record(ctx context.Context, e query.Execution) {
	entry := Entry{
		Resource:   e.Resource,
		Query:      r.encode(e.Resource, e.Query),
		Count:      e.Count,
		ExecutedAt: e.At,
		Duration:   e.Duration,
		Success:    e.Err == nil,
	}
	if e.Err != nil {
		entry.ErrorMessage = e.Err.Error()
	}

	if err := r.store.Add(ctx, entry); err != nil {
		r.logger.Warn("failed to record search", "resource", e.Resource, "error", err)
		return
	}

	if n := r.added.Add(1); r.maxEntries > 0 && n%pruneEvery == 0 {
		if n, err := r.store.Prune(ctx, r.maxEntries); err != nil {
			r.logger.Warn("failed to prune history", "error", err)
		} else if n > 0 {
			r.logger.Debug("pruned history", "deleted", n)
		}
	}
}
