package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ideaforge/internal/domain/models"
	"ideaforge/internal/httputil"
	"ideaforge/internal/llm"
	"ideaforge/internal/registry"
	"ideaforge/internal/repository/memory"
	"ideaforge/internal/service"
)

const cannedReply = `{
  "titles": ["Five Secrets of Sourdough", "Sourdough for Beginners"],
  "description": "Everything you need to bake your first sourdough loaf at home.",
  "tags": ["sourdough", "baking", "bread"],
  "thumbnailIdeas": ["Close-up of a scored loaf", "Flour-dusted hands kneading"],
  "scriptOutline": ["Hook", "Starter basics", "Baking day", "Call to action"]
}`

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(context.Context, llm.Request) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// stubLimiter denies everything with a fixed retry hint.
type stubLimiter struct {
	allow      bool
	retryAfter time.Duration
}

func (s *stubLimiter) Allow(context.Context, string) (bool, time.Duration) {
	return s.allow, s.retryAfter
}

type testEnv struct {
	mux   *http.ServeMux
	store *memory.ContentStore
}

func newTestEnv(t *testing.T, completer llm.Completer, limiter GenerateLimiter) *testEnv {
	t.Helper()
	reg, err := registry.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	store := memory.NewContentStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewContentService(store, completer, reg, time.Minute, logger)

	errMapper := NewErrorMapper(logger, false)
	contentHandler := NewContentHandler(svc, limiter, errMapper, logger)
	modelsHandler := NewModelsHandler(reg)
	healthHandler := NewHealthHandler(nil, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.HealthCheck)
	mux.HandleFunc("POST /content/generate", contentHandler.Generate)
	mux.HandleFunc("GET /content/history", contentHandler.History)
	mux.HandleFunc("GET /content/search", contentHandler.Search)
	mux.HandleFunc("GET /content/favorites", contentHandler.Favorites)
	mux.HandleFunc("GET /content/models", modelsHandler.ListModels)
	mux.HandleFunc("GET /content/analytics", contentHandler.Analytics)
	mux.HandleFunc("GET /content/{id}", contentHandler.Get)
	mux.HandleFunc("DELETE /content/{id}", contentHandler.Delete)
	mux.HandleFunc("PATCH /content/{id}/favorite", contentHandler.ToggleFavorite)
	mux.HandleFunc("GET /content/{id}/export/{format}", contentHandler.Export)

	return &testEnv{mux: mux, store: store}
}

func (e *testEnv) do(method, path, ownerID string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if ownerID != "" {
		req = httputil.WithOwnerID(req, ownerID)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return body
}

func TestGenerateCreatesRecord(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: cannedReply}, nil)

	rec := env.do(http.MethodPost, "/content/generate", "owner-a", `{"topic":"sourdough baking"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["topic"] != "sourdough baking" {
		t.Errorf("topic = %v, want sourdough baking", body["topic"])
	}
	if body["ai_model"] == "" {
		t.Error("ai_model missing from response")
	}
	if _, ok := body["id"].(string); !ok {
		t.Error("id missing from response")
	}

	// Record is retrievable afterwards.
	list := env.do(http.MethodGet, "/content/history", "owner-a", "")
	if list.Code != http.StatusOK {
		t.Fatalf("history status = %d", list.Code)
	}
	if total := decodeBody(t, list)["total"]; total != float64(1) {
		t.Errorf("history total = %v, want 1", total)
	}
}

func TestGenerateRejectsInvalidBody(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: cannedReply}, nil)

	for _, body := range []string{"", "not json", `{"topic":""}`} {
		rec := env.do(http.MethodPost, "/content/generate", "owner-a", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestGenerateRateLimited(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: cannedReply}, &stubLimiter{allow: false, retryAfter: 42 * time.Second})

	rec := env.do(http.MethodPost, "/content/generate", "owner-a", `{"topic":"anything"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "42" {
		t.Errorf("Retry-After = %q, want 42", got)
	}
}

func TestGenerateUpstreamFailureMasksDetail(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: "no json here, sorry"}, nil)

	rec := env.do(http.MethodPost, "/content/generate", "owner-a", `{"topic":"anything"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "no json here") {
		t.Errorf("raw model reply leaked into response: %s", rec.Body.String())
	}
}

func TestGetScopedToOwner(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: cannedReply}, nil)

	created := decodeBody(t, env.do(http.MethodPost, "/content/generate", "owner-a", `{"topic":"sourdough"}`))
	id := created["id"].(string)

	if rec := env.do(http.MethodGet, "/content/"+id, "owner-a", ""); rec.Code != http.StatusOK {
		t.Errorf("owner get status = %d, want 200", rec.Code)
	}
	if rec := env.do(http.MethodGet, "/content/"+id, "owner-b", ""); rec.Code != http.StatusNotFound {
		t.Errorf("cross-tenant get status = %d, want 404", rec.Code)
	}
	if rec := env.do(http.MethodDelete, "/content/"+id, "owner-b", ""); rec.Code != http.StatusNotFound {
		t.Errorf("cross-tenant delete status = %d, want 404", rec.Code)
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: cannedReply}, nil)

	created := decodeBody(t, env.do(http.MethodPost, "/content/generate", "owner-a", `{"topic":"sourdough"}`))
	id := created["id"].(string)

	rec := env.do(http.MethodDelete, "/content/"+id, "owner-a", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}
	if deleted := decodeBody(t, rec)["deleted"]; deleted != true {
		t.Errorf("deleted = %v, want true", deleted)
	}
	if rec := env.do(http.MethodGet, "/content/"+id, "owner-a", ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestToggleFavoriteAndList(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: cannedReply}, nil)

	created := decodeBody(t, env.do(http.MethodPost, "/content/generate", "owner-a", `{"topic":"sourdough"}`))
	id := created["id"].(string)

	rec := env.do(http.MethodPatch, "/content/"+id+"/favorite", "owner-a", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	if fav := decodeBody(t, rec)["is_favorite"]; fav != true {
		t.Errorf("is_favorite = %v, want true", fav)
	}

	list := env.do(http.MethodGet, "/content/favorites", "owner-a", "")
	if total := decodeBody(t, list)["total"]; total != float64(1) {
		t.Errorf("favorites total = %v, want 1", total)
	}
}

func TestSearchRequiresKeyword(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: cannedReply}, nil)

	if rec := env.do(http.MethodGet, "/content/search", "owner-a", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("empty keyword status = %d, want 400", rec.Code)
	}
}

func TestSearchFindsByTag(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: cannedReply}, nil)
	env.do(http.MethodPost, "/content/generate", "owner-a", `{"topic":"sourdough"}`)

	rec := env.do(http.MethodGet, "/content/search?q=baking", "owner-a", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d", rec.Code)
	}
	if total := decodeBody(t, rec)["total"]; total != float64(1) {
		t.Errorf("search total = %v, want 1", total)
	}
}

func TestHistoryRejectsBadPagination(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: cannedReply}, nil)

	tests := []struct {
		path  string
		param string
	}{
		{"/content/history?limit=abc", "limit"},
		{"/content/history?offset=-1", "offset"},
	}
	for _, tt := range tests {
		rec := env.do(http.MethodGet, tt.path, "owner-a", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.path, rec.Code)
			continue
		}
		if detail := decodeBody(t, rec)["detail"]; !strings.Contains(detail.(string), tt.param) {
			t.Errorf("%s: detail = %v, want mention of %s", tt.path, detail, tt.param)
		}
	}
}

func TestHistoryLimitDefaultsAndClamps(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: cannedReply}, nil)

	for i := 0; i < 120; i++ {
		rec := &models.ContentRecord{
			OwnerID:        "owner-a",
			Topic:          "topic",
			Titles:         []string{"t"},
			Description:    "d",
			Tags:           []string{"g"},
			ThumbnailIdeas: []string{"i"},
			ScriptOutline:  []string{"s"},
			AIModel:        "gpt-4o-mini",
		}
		if err := env.store.Create(context.Background(), rec); err != nil {
			t.Fatalf("seed record %d: %v", i, err)
		}
	}

	tests := []struct {
		path string
		want float64
	}{
		{"/content/history", 50},             // omitted limit falls back to the default
		{"/content/history?limit=500", 100},  // oversized limit clamps to the cap
		{"/content/history?limit=10", 10},    // in-range limit honored
		{"/content/history?limit=10&offset=115", 5}, // offset past the tail truncates
	}
	for _, tt := range tests {
		rec := env.do(http.MethodGet, tt.path, "owner-a", "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", tt.path, rec.Code)
			continue
		}
		if total := decodeBody(t, rec)["total"]; total != tt.want {
			t.Errorf("%s: total = %v, want %v", tt.path, total, tt.want)
		}
	}
}

func TestExportFormats(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: cannedReply}, nil)

	created := decodeBody(t, env.do(http.MethodPost, "/content/generate", "owner-a", `{"topic":"sourdough"}`))
	id := created["id"].(string)

	tests := []struct {
		format      string
		status      int
		contentType string
	}{
		{"text", http.StatusOK, "text/plain; charset=utf-8"},
		{"markdown", http.StatusOK, "text/markdown; charset=utf-8"},
		{"csv", http.StatusOK, "text/csv; charset=utf-8"},
		{"pdf", http.StatusOK, "text/html; charset=utf-8"},
		{"docx", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		rec := env.do(http.MethodGet, "/content/"+id+"/export/"+tt.format, "owner-a", "")
		if rec.Code != tt.status {
			t.Errorf("format %s: status = %d, want %d", tt.format, rec.Code, tt.status)
			continue
		}
		if tt.contentType == "" {
			continue
		}
		if got := rec.Header().Get("Content-Type"); got != tt.contentType {
			t.Errorf("format %s: content-type = %q, want %q", tt.format, got, tt.contentType)
		}
		if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "attachment") {
			t.Errorf("format %s: content-disposition = %q, want attachment", tt.format, got)
		}
	}
}

func TestListModels(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: cannedReply}, nil)

	rec := env.do(http.MethodGet, "/content/models", "owner-a", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["default"] == "" {
		t.Error("default model missing")
	}
	models, ok := body["models"].([]interface{})
	if !ok || len(models) == 0 {
		t.Fatalf("models = %v, want non-empty list", body["models"])
	}
}

func TestAnalyticsEmpty(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: cannedReply}, nil)

	rec := env.do(http.MethodGet, "/content/analytics", "owner-a", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	totals, ok := body["totals"].(map[string]interface{})
	if !ok {
		t.Fatalf("totals missing: %v", body)
	}
	if totals["total_content"] != float64(0) {
		t.Errorf("total_content = %v, want 0", totals["total_content"])
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, &stubCompleter{reply: cannedReply}, nil)

	rec := env.do(http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if status := decodeBody(t, rec)["status"]; status != "ok" {
		t.Errorf("status field = %v, want ok", status)
	}
}
