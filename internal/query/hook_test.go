package query

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rebeliceyang/lazycodex/internal/client"
	"github.com/rebeliceyang/lazycodex/internal/models"
)

type creatureRow struct {
	Name string
}

// fakeSearch answers searches from a function and remembers every call
type fakeSearch struct {
	mu     sync.Mutex
	calls  []models.QueryState
	answer func(ctx context.Context, state models.QueryState) (models.SearchResponse[creatureRow], error)
}

func (f *fakeSearch) search(ctx context.Context, state models.QueryState) (models.SearchResponse[creatureRow], error) {
	f.mu.Lock()
	f.calls = append(f.calls, state)
	f.mu.Unlock()
	return f.answer(ctx, state)
}

func (f *fakeSearch) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func answerWithQ(_ context.Context, state models.QueryState) (models.SearchResponse[creatureRow], error) {
	return models.SearchResponse[creatureRow]{
		Data:       []creatureRow{{Name: state.Q}},
		Pagination: &models.Pagination{Count: 1},
	}, nil
}

type recorderFunc func(e Execution)

func (r recorderFunc) Record(_ context.Context, e Execution) { r(e) }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHook(t *testing.T, f *fakeSearch, opts ...HookOption) *Hook[creatureRow] {
	t.Helper()
	opts = append([]HookOption{WithDebounce(10 * time.Millisecond), WithLogger(quietLogger())}, opts...)
	h := NewHook(newCreatureStructure(), f.search, opts...)
	t.Cleanup(h.Close)
	return h
}

// waitFor polls the hook until cond holds
func waitFor(t *testing.T, h *Hook[creatureRow], cond func(Snapshot[creatureRow]) bool) Snapshot[creatureRow] {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := h.Snapshot()
		if cond(snap) {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	snap := h.Snapshot()
	t.Fatalf("condition not met, last snapshot: %+v", snap)
	return snap
}

func isIdleAt(seq uint64) func(Snapshot[creatureRow]) bool {
	return func(s Snapshot[creatureRow]) bool {
		return s.Status == StatusIdle && s.Seq >= seq
	}
}

func TestHookDebouncesChanges(t *testing.T) {
	f := &fakeSearch{answer: answerWithQ}
	h := newTestHook(t, f, WithDebounce(100*time.Millisecond))
	m := h.Mutators()

	for _, q := range []string{"d", "dr", "dra", "drake"} {
		if err := m.QChange(q); err != nil {
			t.Fatalf("QChange failed: %v", err)
		}
	}
	if got := h.Snapshot().Status; got != StatusDebouncing {
		t.Errorf("expected debouncing right after a change, got %s", got)
	}

	snap := waitFor(t, h, isIdleAt(1))
	if f.callCount() != 1 {
		t.Fatalf("expected one search after the quiet window, got %d", f.callCount())
	}
	f.mu.Lock()
	searched := f.calls[0].Q
	f.mu.Unlock()
	if searched != "drake" {
		t.Errorf("expected the last state to be searched, got %q", searched)
	}
	if snap.Count != 1 || len(snap.Results) != 1 || snap.Results[0].Name != "drake" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if !snap.Loaded || snap.Err != nil {
		t.Errorf("expected a clean load, got loaded=%v err=%v", snap.Loaded, snap.Err)
	}
}

func TestHookRetainsResultsOnError(t *testing.T) {
	networkErr := errors.New("connection refused")
	var mu sync.Mutex
	mode := "ok"

	f := &fakeSearch{answer: func(ctx context.Context, state models.QueryState) (models.SearchResponse[creatureRow], error) {
		mu.Lock()
		defer mu.Unlock()
		switch mode {
		case "invalid":
			return models.SearchResponse[creatureRow]{Data: []creatureRow{}}, nil
		case "down":
			return models.SearchResponse[creatureRow]{}, networkErr
		default:
			return answerWithQ(ctx, state)
		}
	}}
	h := newTestHook(t, f)

	h.Refresh()
	waitFor(t, h, isIdleAt(1))

	mu.Lock()
	mode = "invalid"
	mu.Unlock()
	_ = h.Mutators().QChange("ghost")
	snap := waitFor(t, h, isIdleAt(2))
	if !errors.Is(snap.Err, ErrMissingPagination) {
		t.Errorf("expected ErrMissingPagination, got %v", snap.Err)
	}
	if snap.Count != 1 || len(snap.Results) != 1 || snap.Results[0].Name != "" {
		t.Errorf("prior results were not retained: %+v", snap)
	}

	mu.Lock()
	mode = "down"
	mu.Unlock()
	_ = h.Mutators().QChange("ghost2")
	snap = waitFor(t, h, isIdleAt(3))
	if !errors.Is(snap.Err, networkErr) {
		t.Errorf("expected the network error, got %v", snap.Err)
	}
	if snap.Count != 1 || len(snap.Results) != 1 {
		t.Errorf("prior results were not retained: %+v", snap)
	}

	mu.Lock()
	mode = "ok"
	mu.Unlock()
	h.Refresh()
	snap = waitFor(t, h, isIdleAt(4))
	if snap.Err != nil || snap.Results[0].Name != "ghost2" {
		t.Errorf("expected recovery on the next search, got %+v", snap)
	}
}

// logBuffer collects log output written from hook goroutines
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// waitForLog polls the log until it holds want
func waitForLog(t *testing.T, logs *logBuffer, want string) string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if out := logs.String(); strings.Contains(out, want) {
			return out
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("log never contained %q:\n%s", want, logs.String())
	return ""
}

func TestHookSeparatesValidationFromNetworkErrors(t *testing.T) {
	var mu sync.Mutex
	answer := error(&client.ValidationError{Resource: models.ResourceCreatures, Missing: "pagination"})

	f := &fakeSearch{answer: func(ctx context.Context, state models.QueryState) (models.SearchResponse[creatureRow], error) {
		mu.Lock()
		defer mu.Unlock()
		return models.SearchResponse[creatureRow]{}, answer
	}}
	logs := &logBuffer{}
	h := newTestHook(t, f,
		WithLogger(slog.New(slog.NewTextHandler(logs, nil))),
		WithResource(models.ResourceCreatures),
	)

	h.Refresh()
	snap := waitFor(t, h, isIdleAt(1))
	var verr *client.ValidationError
	if !errors.As(snap.Err, &verr) || !errors.Is(snap.Err, models.ErrInvalidResponse) {
		t.Errorf("expected a validation error, got %v", snap.Err)
	}
	out := waitForLog(t, logs, "search response failed validation")
	if !strings.Contains(out, "level=WARN") || strings.Contains(out, "search failed") {
		t.Errorf("validation failure logged like a network failure:\n%s", out)
	}
	if !strings.Contains(out, "resource=creatures") {
		t.Errorf("expected the resource in every log line:\n%s", out)
	}

	mu.Lock()
	answer = errors.New("connection refused")
	mu.Unlock()
	h.Refresh()
	waitFor(t, h, isIdleAt(2))
	out = waitForLog(t, logs, "search failed")
	if !strings.Contains(out, "level=ERROR") {
		t.Errorf("expected network failures at error level:\n%s", out)
	}
	if errors.Is(h.Snapshot().Err, models.ErrInvalidResponse) {
		t.Errorf("network error reported as validation failure: %v", h.Snapshot().Err)
	}
}

func TestHookDiscardsStaleResponses(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	f := &fakeSearch{answer: func(ctx context.Context, state models.QueryState) (models.SearchResponse[creatureRow], error) {
		if state.Q == "slow" {
			close(started)
			<-release
		}
		return answerWithQ(ctx, state)
	}}
	h := newTestHook(t, f)

	_ = h.Mutators().QChange("slow")
	<-started

	_ = h.Mutators().QChange("fast")
	waitFor(t, h, func(s Snapshot[creatureRow]) bool { return s.Seq == 2 })

	close(release)
	snap := waitFor(t, h, func(s Snapshot[creatureRow]) bool { return s.Status == StatusIdle })
	if snap.Results[0].Name != "fast" {
		t.Errorf("stale response overwrote the newer one: %+v", snap.Results)
	}
	if snap.Seq != 2 {
		t.Errorf("expected applied seq 2, got %d", snap.Seq)
	}
}

func TestHookRecordsExecutions(t *testing.T) {
	var mu sync.Mutex
	var got []Execution
	rec := recorderFunc(func(e Execution) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})

	f := &fakeSearch{answer: answerWithQ}
	h := newTestHook(t, f, WithRecorder(models.ResourceCreatures, rec))
	_ = h.Mutators().QChange("imp")
	waitFor(t, h, isIdleAt(1))

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("expected one execution, got %d", len(got))
	}
	if got[0].Resource != models.ResourceCreatures || got[0].Query.Q != "imp" || got[0].Count != 1 || got[0].Err != nil {
		t.Errorf("unexpected execution %+v", got[0])
	}
}

func TestHookSubscribe(t *testing.T) {
	f := &fakeSearch{answer: answerWithQ}
	h := newTestHook(t, f)

	var mu sync.Mutex
	var statuses []Status
	unsubscribe := h.Subscribe(func(s Snapshot[creatureRow]) {
		mu.Lock()
		statuses = append(statuses, s.Status)
		mu.Unlock()
	})

	_ = h.Mutators().QChange("imp")

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(statuses)
		last := StatusDebouncing
		if n > 0 {
			last = statuses[n-1]
		}
		mu.Unlock()
		if n >= 3 && last == StatusIdle {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no idle notification received")
		}
		time.Sleep(5 * time.Millisecond)
	}
	unsubscribe()

	mu.Lock()
	defer mu.Unlock()
	if len(statuses) < 3 {
		t.Fatalf("expected debouncing, fetching and idle notifications, got %v", statuses)
	}
	if statuses[0] != StatusDebouncing || statuses[len(statuses)-1] != StatusIdle {
		t.Errorf("unexpected status sequence %v", statuses)
	}
}

func TestHookInitialStateAndClose(t *testing.T) {
	f := &fakeSearch{answer: answerWithQ}
	s := newCreatureStructure()
	initial := QChange(s.Default(), "wyrm")
	h := newTestHook(t, f, WithInitialState(initial))

	if h.Query().Q != "wyrm" {
		t.Errorf("expected initial q wyrm, got %q", h.Query().Q)
	}

	h.Close()
	if err := h.Mutators().QChange("x"); err == nil {
		t.Error("expected an error after Close")
	}
	h.Refresh()
	time.Sleep(30 * time.Millisecond)
	if f.callCount() != 0 {
		t.Errorf("expected no search after Close, got %d", f.callCount())
	}
}
