package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rebeliceyang/lazycodex/internal/filter"
	"github.com/rebeliceyang/lazycodex/internal/models"
)

// DefaultDebounce is the quiet window after the last change before a search is sent
const DefaultDebounce = 200 * time.Millisecond

// ErrMissingPagination is recorded when a search answer has no pagination block
var ErrMissingPagination = fmt.Errorf("%w: search response has no pagination", models.ErrInvalidResponse)

// Status is the state of a hook's fetch cycle
type Status int

const (
	StatusIdle Status = iota
	StatusDebouncing
	StatusFetching
)

func (s Status) String() string {
	switch s {
	case StatusDebouncing:
		return "debouncing"
	case StatusFetching:
		return "fetching"
	default:
		return "idle"
	}
}

// Execution describes one completed search
type Execution struct {
	Resource models.Resource
	Query    models.QueryState
	Count    int
	Duration time.Duration
	Err      error
	At       time.Time
}

// Recorder receives every completed search
type Recorder interface {
	Record(ctx context.Context, e Execution)
}

// Snapshot is a consistent view of a hook
type Snapshot[T any] struct {
	Query   models.QueryState
	Results []T
	Count   int
	Status  Status
	Err     error
	Seq     uint64 // sequence of the response Results came from
	Loaded  bool   // at least one search succeeded
}

type hookConfig struct {
	debounce time.Duration
	logger   *slog.Logger
	recorder Recorder
	resource models.Resource
	resets   filter.Defaults
	initial  *models.QueryState
}

// HookOption configures a Hook
type HookOption func(*hookConfig)

func WithDebounce(d time.Duration) HookOption {
	return func(c *hookConfig) {
		if d > 0 {
			c.debounce = d
		}
	}
}

func WithLogger(l *slog.Logger) HookOption {
	return func(c *hookConfig) { c.logger = l }
}

// WithResource names the resource the hook searches in logs and history
func WithResource(resource models.Resource) HookOption {
	return func(c *hookConfig) { c.resource = resource }
}

// WithRecorder reports executed searches on resource to r
func WithRecorder(resource models.Resource, r Recorder) HookOption {
	return func(c *hookConfig) {
		WithResource(resource)(c)
		c.recorder = r
	}
}

// WithResets sets the clause defaults used by the bound mutators
func WithResets(d filter.Defaults) HookOption {
	return func(c *hookConfig) { c.resets = d }
}

// WithInitialState starts the hook from state instead of the structure defaults
func WithInitialState(state models.QueryState) HookOption {
	return func(c *hookConfig) { c.initial = &state }
}

// Hook keeps the query state of one page, debounces changes and runs the
// search once the state settles. Responses are tagged with a sequence
// number and a response older than the one already shown is discarded.
type Hook[T any] struct {
	structure *Structure
	fetch     func(ctx context.Context, state models.QueryState) (models.SearchResponse[T], error)
	cfg       hookConfig
	mutators  *Mutators

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	query     models.QueryState
	results   []T
	count     int
	err       error
	loaded    bool
	timer     *time.Timer
	pending   bool
	inflight  int
	seq       uint64
	applied   uint64
	closed    bool
	listeners map[int]func(Snapshot[T])
	nextID    int
}

// NewHook creates a hook. No search runs until the state changes or
// Refresh is called.
func NewHook[T any](structure *Structure, fetch func(ctx context.Context, state models.QueryState) (models.SearchResponse[T], error), opts ...HookOption) *Hook[T] {
	cfg := hookConfig{
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		resets:   filter.DefaultResets(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Hook[T]{
		structure: structure,
		fetch:     fetch,
		cfg:       cfg,
		ctx:       ctx,
		cancel:    cancel,
		query:     structure.Default(),
		listeners: make(map[int]func(Snapshot[T])),
	}
	if cfg.initial != nil {
		h.query = cfg.initial.Clone()
	}
	h.mutators = Bind(structure, cfg.resets, h.update)
	return h
}

// Mutators returns the query intents bound to this hook
func (h *Hook[T]) Mutators() *Mutators {
	return h.mutators
}

// Structure returns the structure the hook was created with
func (h *Hook[T]) Structure() *Structure {
	return h.structure
}

// Query returns the current state
func (h *Hook[T]) Query() models.QueryState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.query.Clone()
}

// Snapshot returns the current results, count, state and status
func (h *Hook[T]) Snapshot() Snapshot[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

func (h *Hook[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Query:   h.query.Clone(),
		Results: h.results,
		Count:   h.count,
		Status:  h.statusLocked(),
		Err:     h.err,
		Seq:     h.applied,
		Loaded:  h.loaded,
	}
}

func (h *Hook[T]) statusLocked() Status {
	switch {
	case h.pending:
		return StatusDebouncing
	case h.inflight > 0:
		return StatusFetching
	default:
		return StatusIdle
	}
}

// Subscribe registers fn to be called after every change. Calls happen on
// the hook's goroutines, so fn must not block. The returned func removes it.
func (h *Hook[T]) Subscribe(fn func(Snapshot[T])) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

func (h *Hook[T]) notify(snap Snapshot[T]) {
	h.mu.Lock()
	fns := make([]func(Snapshot[T]), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Set replaces the state and (re)starts the debounce window
func (h *Hook[T]) Set(state models.QueryState) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.query = state.Clone()
	h.scheduleLocked()
	snap := h.snapshotLocked()
	h.mu.Unlock()

	h.notify(snap)
}

func (h *Hook[T]) update(fn func(models.QueryState) (models.QueryState, error)) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return context.Canceled
	}
	next, err := fn(h.query.Clone())
	if err != nil {
		h.mu.Unlock()
		return err
	}
	h.query = next
	h.scheduleLocked()
	snap := h.snapshotLocked()
	h.mu.Unlock()

	h.notify(snap)
	return nil
}

func (h *Hook[T]) scheduleLocked() {
	h.pending = true
	if h.timer == nil {
		h.timer = time.AfterFunc(h.cfg.debounce, h.settle)
		return
	}
	h.timer.Stop()
	h.timer.Reset(h.cfg.debounce)
}

// Refresh runs the search for the current state right away
func (h *Hook[T]) Refresh() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	if h.timer != nil {
		h.timer.Stop()
	}
	h.pending = true
	h.mu.Unlock()

	go h.settle()
}

// settle starts the search for the current state and applies its result
func (h *Hook[T]) settle() {
	h.mu.Lock()
	if h.closed || !h.pending {
		h.mu.Unlock()
		return
	}
	h.pending = false
	h.seq++
	seq := h.seq
	state := h.query.Clone()
	h.inflight++
	h.wg.Add(1)
	snap := h.snapshotLocked()
	h.mu.Unlock()

	defer h.wg.Done()
	h.notify(snap)

	h.cfg.logger.Debug("search started", "resource", h.cfg.resource, "seq", seq)
	start := time.Now()
	resp, err := h.fetch(h.ctx, state)
	if err == nil && resp.Pagination == nil {
		err = ErrMissingPagination
	}
	elapsed := time.Since(start)

	h.apply(seq, state, resp, err, elapsed)
}

func (h *Hook[T]) apply(seq uint64, state models.QueryState, resp models.SearchResponse[T], err error, elapsed time.Duration) {
	count := 0
	if err == nil {
		count = resp.Pagination.Count
	}
	if h.cfg.recorder != nil && h.ctx.Err() == nil {
		h.cfg.recorder.Record(h.ctx, Execution{
			Resource: h.cfg.resource,
			Query:    state,
			Count:    count,
			Duration: elapsed,
			Err:      err,
			At:       time.Now(),
		})
	}

	h.mu.Lock()
	h.inflight--
	closed := h.closed
	stale := seq <= h.applied
	if !stale && !closed {
		h.applied = seq
		if err != nil {
			h.err = err
		} else {
			h.results = resp.Data
			h.count = count
			h.err = nil
			h.loaded = true
		}
	}
	snap := h.snapshotLocked()
	h.mu.Unlock()

	if closed {
		return
	}

	switch {
	case stale:
		h.cfg.logger.Debug("discarded stale search response", "resource", h.cfg.resource, "seq", seq, "applied", snap.Seq)
	case errors.Is(err, models.ErrInvalidResponse):
		h.cfg.logger.Warn("search response failed validation", "resource", h.cfg.resource, "seq", seq, "error", err)
	case err != nil:
		h.cfg.logger.Error("search failed", "resource", h.cfg.resource, "seq", seq, "error", err)
	default:
		h.cfg.logger.Debug("search applied", "resource", h.cfg.resource, "seq", seq, "count", count, "duration", elapsed)
	}
	h.notify(snap)
}

// Close stops the debounce timer, cancels in-flight searches and waits for them
func (h *Hook[T]) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	if h.timer != nil {
		h.timer.Stop()
	}
	h.mu.Unlock()

	h.cancel()
	h.wg.Wait()
}
