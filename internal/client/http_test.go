package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rebeliceyang/lazycodex/internal/models"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	// captured from the request
	method      string
	path        string
	rawPath     string
	body        string
	contentType string
	requestID   string

	// canned response
	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.rawPath = r.URL.RawPath
	h.contentType = r.Header.Get("Content-Type")
	h.requestID = r.Header.Get("X-Request-Id")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// newTestClient creates an HTTPClient pointed at a test server with the given handler.
func newTestClient(t *testing.T, h http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/", WithTimeout(5*time.Second))
}

func creaturesState() models.QueryState {
	return models.QueryState{
		Page:          0,
		Size:          25,
		SortBy:        "race_name",
		SortDirection: models.SortAsc,
		Filters: []models.FilterClause{
			{Field: "health", Comparator: models.CmpGreaterOrEqual, Value: float64(50)},
		},
	}
}

// --- Search ---

func TestBuildSearch(t *testing.T) {
	h := &testHandler{
		responseBody: `{
			"data": [
				{"id": 1, "name": "Fire Drake", "health": 80, "race": {"id": 3, "name": "Dragon"}},
				{"id": 2, "name": "Ice Drake", "health": 60, "race": {"id": 3, "name": "Dragon"}}
			],
			"pagination": {"count": 42}
		}`,
	}
	c := newTestClient(t, h)

	resp, err := BuildSearch[models.Creature](c, models.ResourceCreatures)(context.Background(), creaturesState())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if h.method != http.MethodPost {
		t.Errorf("expected POST, got %s", h.method)
	}
	if h.path != "/creatures/search" {
		t.Errorf("expected path /creatures/search, got %s", h.path)
	}
	if h.contentType != "application/json" {
		t.Errorf("expected application/json, got %q", h.contentType)
	}
	if len(h.requestID) != requestIDLength {
		t.Errorf("expected a request id of length %d, got %q", requestIDLength, h.requestID)
	}
	wantBody := `{"pagination":{"page":0,"size":25},"sorting":{"by":"race_name","direction":"asc"},` +
		`"filter":{"filters":[{"field":"health","comparator":">=","value":50}]}}`
	if h.body != wantBody {
		t.Errorf("unexpected body:\n got %s\nwant %s", h.body, wantBody)
	}

	if resp.Pagination == nil || resp.Pagination.Count != 42 {
		t.Fatalf("expected count 42, got %+v", resp.Pagination)
	}
	if len(resp.Data) != 2 || resp.Data[0].Name != "Fire Drake" || resp.Data[1].Race.Name != "Dragon" {
		t.Errorf("unexpected data %+v", resp.Data)
	}
}

func TestBuildSearchWildcardsAndFreeText(t *testing.T) {
	h := &testHandler{responseBody: `{"data": [], "pagination": {"count": 0}}`}
	c := newTestClient(t, h)

	state := models.QueryState{
		Size:          10,
		SortBy:        "name",
		SortDirection: models.SortDesc,
		Q:             "fire",
		Filters: []models.FilterClause{
			{Field: "name", Comparator: models.CmpILike, Value: "drake"},
		},
	}
	resp, err := BuildSearch[models.Creature](c, models.ResourceCreatures)(context.Background(), state)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if resp.Data == nil || len(resp.Data) != 0 {
		t.Errorf("expected empty data, got %#v", resp.Data)
	}

	wantBody := `{"pagination":{"page":0,"size":10},"sorting":{"by":"name","direction":"desc"},` +
		`"filter":{"filters":[{"field":"name","comparator":"ilike","value":"%drake%"},` +
		`{"field":"full_text","comparator":"ilike","value":"%fire%"}]}}`
	if h.body != wantBody {
		t.Errorf("unexpected body:\n got %s\nwant %s", h.body, wantBody)
	}
}

func TestBuildSearchValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		missing string
	}{
		{"no pagination", `{"data": []}`, "pagination"},
		{"no data", `{"pagination": {"count": 3}}`, "data"},
		{"error payload", `{"detail": [{"loc": ["body"], "msg": "field required"}]}`, "pagination"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &testHandler{responseBody: tt.body})
			_, err := BuildSearch[models.Spell](c, models.ResourceSpells)(context.Background(), creaturesState())

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Missing != tt.missing || vErr.Resource != models.ResourceSpells {
				t.Errorf("unexpected ValidationError %+v", vErr)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestBuildSearchAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error field", http.StatusBadRequest, `{"error": "bad filter"}`, "bad filter"},
		{"detail field", http.StatusUnprocessableEntity, `{"detail": "invalid comparator"}`, "invalid comparator"},
		{"plain text", http.StatusBadGateway, "upstream down\n", "upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &testHandler{statusCode: tt.status, responseBody: tt.body})
			_, err := BuildSearch[models.Perk](c, models.ResourcePerks)(context.Background(), creaturesState())

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Message != tt.message {
				t.Errorf("unexpected APIError %+v", apiErr)
			}
			if errors.Is(err, ErrValidation) {
				t.Error("API errors must not look like validation errors")
			}
		})
	}
}

func TestBuildSearchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := BuildSearch[models.Trait](c, models.ResourceTraits)(context.Background(), creaturesState())
	if err == nil {
		t.Fatal("expected an error from a closed server")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) || errors.Is(err, ErrValidation) {
		t.Errorf("network failure classified as %v", err)
	}
}

func TestBuildSearchCanceledContext(t *testing.T) {
	c := newTestClient(t, &testHandler{responseBody: `{"data": [], "pagination": {"count": 0}}`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildSearch[models.Trait](c, models.ResourceTraits)(ctx, creaturesState())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// --- Get ---

func TestBuildGetResource(t *testing.T) {
	h := &testHandler{
		responseBody: `{"data": {"id": 7, "name": "Burn", "category": "debuff", "turns": 3, "leave_chance": null, "max_stacks": 5}}`,
	}
	c := newTestClient(t, h)

	effect, err := BuildGetResource[models.StatusEffect](c, models.ResourceStatusEffects)(context.Background(), "7")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if h.method != http.MethodGet || h.path != "/status-effects/7" {
		t.Errorf("unexpected request %s %s", h.method, h.path)
	}
	if h.contentType != "" {
		t.Errorf("GET must not send a content type, got %q", h.contentType)
	}
	if effect.Name != "Burn" || effect.Turns == nil || *effect.Turns != 3 || effect.LeaveChance != nil {
		t.Errorf("unexpected entity %+v", effect)
	}
}

func TestBuildGetResourceEscapesID(t *testing.T) {
	h := &testHandler{responseBody: `{"data": {"id": 1, "name": "Fire Drake"}}`}
	c := newTestClient(t, h)

	if _, err := BuildGetResource[models.Creature](c, models.ResourceCreatures)(context.Background(), "fire drake/2"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if h.rawPath != "/creatures/fire%20drake%2F2" {
		t.Errorf("expected escaped path, got raw %q (path %q)", h.rawPath, h.path)
	}
}

func TestBuildGetResourceMissingData(t *testing.T) {
	c := newTestClient(t, &testHandler{responseBody: `{"data": null}`})
	_, err := BuildGetResource[models.Race](c, models.ResourceRaces)(context.Background(), "1")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}

	c = newTestClient(t, &testHandler{statusCode: http.StatusNotFound, responseBody: `{"error": "not found"}`})
	_, err = BuildGetResource[models.Race](c, models.ResourceRaces)(context.Background(), "1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 APIError, got %v", err)
	}
}

// --- Suggest ---

func TestBuildSuggest(t *testing.T) {
	h := &testHandler{
		responseBody: `{"data": [{"id": 1, "name": "Dragon"}, {"id": 2, "name": "Dragonkin"}], "pagination": {"count": 2}}`,
	}
	c := newTestClient(t, h)

	names, err := BuildSuggest(c, models.ResourceRaces, 10)(context.Background(), "drag")
	if err != nil {
		t.Fatalf("suggest failed: %v", err)
	}
	if len(names) != 2 || names[0] != "Dragon" || names[1] != "Dragonkin" {
		t.Errorf("unexpected names %v", names)
	}
	if h.path != "/races/search" {
		t.Errorf("expected /races/search, got %s", h.path)
	}
	wantBody := `{"pagination":{"page":0,"size":10},"sorting":{"by":"name","direction":"asc"},` +
		`"filter":{"filters":[{"field":"name","comparator":"ilike","value":"%drag%"}]}}`
	if h.body != wantBody {
		t.Errorf("unexpected body:\n got %s\nwant %s", h.body, wantBody)
	}
}
