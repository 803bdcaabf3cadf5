package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/emilianobruni/erflow/internal/model"
	"github.com/emilianobruni/erflow/internal/service"
	"github.com/emilianobruni/erflow/internal/store"
	"github.com/emilianobruni/erflow/testutil"
)

// testAPI provides a complete test environment for API handler tests.
type testAPI struct {
	handler *Handler
	mux     *http.ServeMux
	board   *service.BoardService
	kv      *store.MemoryStore
}

type stubClipboard struct {
	text string
	err  error
}

func (s stubClipboard) ReadText() (string, error) {
	return s.text, s.err
}

// setupTestAPI creates a test environment over an in-memory store holding cards.
func setupTestAPI(t *testing.T, cards ...model.Card) *testAPI {
	t.Helper()

	board, kv := testutil.NewMemoryBoard(t, cards...)
	handler := NewHandler(board, stubClipboard{text: "Clip One\nClip Two"})
	handler.now = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return &testAPI{handler: handler, mux: mux, board: board, kv: kv}
}

func threePatients() []model.Card {
	return []model.Card{
		testutil.TestCard("c1", "Alice"),
		testutil.TestCard("c2", "Bob"),
		testutil.TestCard("c3", "ALICJA"),
	}
}

func (api *testAPI) request(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" && strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	api.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("Expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func patientNames(cards []model.Card) string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.PatientName
	}
	return strings.Join(out, ",")
}

// ============================================================================
// Card list
// ============================================================================

func TestListCards(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	rec := api.request(t, "GET", "/api/v1/cards", "")
	expectStatus(t, rec, http.StatusOK)

	resp := decode[CardListResponse](t, rec)
	if patientNames(resp.Cards) != "Alice,Bob,ALICJA" {
		t.Errorf("Unexpected cards: %s", patientNames(resp.Cards))
	}
	if resp.Tally.Total != 3 || resp.Tally.White != 3 {
		t.Errorf("Unexpected tally: %+v", resp.Tally)
	}
}

func TestListCards_SearchQuery(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	rec := api.request(t, "GET", "/api/v1/cards?q=ali", "")
	expectStatus(t, rec, http.StatusOK)

	resp := decode[CardListResponse](t, rec)
	if patientNames(resp.Cards) != "Alice,ALICJA" {
		t.Errorf("Expected Alice,ALICJA, got %s", patientNames(resp.Cards))
	}
	if resp.Query != "ali" || resp.Shown != 2 || resp.Tally.Total != 3 {
		t.Errorf("Unexpected response: %+v", resp)
	}

	// The query sticks until replaced
	resp = decode[CardListResponse](t, api.request(t, "GET", "/api/v1/cards", ""))
	if resp.Shown != 2 {
		t.Errorf("Expected query to persist, got %d shown", resp.Shown)
	}

	resp = decode[CardListResponse](t, api.request(t, "GET", "/api/v1/cards?q=", ""))
	if resp.Shown != 3 {
		t.Errorf("Expected empty query to clear filter, got %d shown", resp.Shown)
	}
}

func TestAddCard(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	rec := api.request(t, "POST", "/api/v1/cards", "")
	expectStatus(t, rec, http.StatusCreated)

	card := decode[model.Card](t, rec)
	if card.ID == "" || card.Color != model.ColorWhite {
		t.Errorf("Unexpected card: %+v", card)
	}
	if len(api.board.Cards()) != 4 {
		t.Errorf("Expected 4 cards, got %d", len(api.board.Cards()))
	}
}

func TestDeleteAll(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	rec := api.request(t, "DELETE", "/api/v1/cards", "")
	expectStatus(t, rec, http.StatusBadRequest)
	if len(api.board.Cards()) != 3 {
		t.Fatal("Expected list untouched without confirm")
	}

	rec = api.request(t, "DELETE", "/api/v1/cards?confirm=true", "")
	expectStatus(t, rec, http.StatusNoContent)
	if len(api.board.Cards()) != 0 {
		t.Errorf("Expected empty list, got %d", len(api.board.Cards()))
	}
	if _, ok, _ := api.kv.Get(store.KeyCards); ok {
		t.Error("Expected stored cards removed")
	}
}

func TestReorder(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	rec := api.request(t, "POST", "/api/v1/cards/reorder", `{"from":0,"to":2}`)
	expectStatus(t, rec, http.StatusOK)

	resp := decode[CardListResponse](t, rec)
	if patientNames(resp.Cards) != "Bob,ALICJA,Alice" {
		t.Errorf("Unexpected order: %s", patientNames(resp.Cards))
	}
}

func TestReorder_BadRequests(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"from":`},
		{"missing to", `{"from":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.request(t, "POST", "/api/v1/cards/reorder", tt.body)
			expectStatus(t, rec, http.StatusBadRequest)
		})
	}
}

func TestCollapseExpand(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	resp := decode[CardListResponse](t, api.request(t, "POST", "/api/v1/cards/collapse", ""))
	for _, c := range resp.Cards {
		if !c.Collapsed {
			t.Errorf("Expected %s collapsed", c.PatientName)
		}
	}

	resp = decode[CardListResponse](t, api.request(t, "POST", "/api/v1/cards/expand", ""))
	for _, c := range resp.Cards {
		if c.Collapsed {
			t.Errorf("Expected %s expanded", c.PatientName)
		}
	}
}

// ============================================================================
// Single card
// ============================================================================

func TestGetCard(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	rec := api.request(t, "GET", "/api/v1/cards/c2", "")
	expectStatus(t, rec, http.StatusOK)
	if card := decode[model.Card](t, rec); card.PatientName != "Bob" {
		t.Errorf("Expected Bob, got %+v", card)
	}

	rec = api.request(t, "GET", "/api/v1/cards/missing", "")
	expectStatus(t, rec, http.StatusNotFound)
}

func TestUpdateCard(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	rec := api.request(t, "PATCH", "/api/v1/cards/c1", `{"color":"rosso","location":"OBI1","patology":"trauma"}`)
	expectStatus(t, rec, http.StatusOK)

	card := decode[model.Card](t, rec)
	if card.Color != model.ColorRed || card.Location != model.LocationOBI1 || card.Pathology != "trauma" {
		t.Errorf("Patch not applied: %+v", card)
	}
	if card.PatientName != "Alice" {
		t.Errorf("Expected name kept, got %q", card.PatientName)
	}
}

func TestUpdateCard_Errors(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown card", "/api/v1/cards/missing", `{"color":"rosso"}`, http.StatusNotFound},
		{"invalid colour", "/api/v1/cards/c1", `{"color":"purple"}`, http.StatusBadRequest},
		{"invalid location", "/api/v1/cards/c1", `{"location":"ICU"}`, http.StatusBadRequest},
		{"empty patch", "/api/v1/cards/c1", `{}`, http.StatusBadRequest},
		{"invalid json", "/api/v1/cards/c1", `{"color":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.request(t, "PATCH", tt.path, tt.body)
			expectStatus(t, rec, tt.status)
		})
	}

	if card, _ := api.board.Get("c1"); card.Color != model.ColorWhite {
		t.Errorf("Expected card untouched, got %+v", card)
	}
}

func TestRemoveCard(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	expectStatus(t, api.request(t, "DELETE", "/api/v1/cards/c2", ""), http.StatusNoContent)
	expectStatus(t, api.request(t, "DELETE", "/api/v1/cards/c2", ""), http.StatusNoContent)

	if patientNames(api.board.Cards()) != "Alice,ALICJA" {
		t.Errorf("Unexpected cards: %s", patientNames(api.board.Cards()))
	}
}

func TestMoveUpDown(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	resp := decode[CardListResponse](t, api.request(t, "POST", "/api/v1/cards/c2/up", ""))
	if patientNames(resp.Cards) != "Bob,Alice,ALICJA" {
		t.Errorf("After up: %s", patientNames(resp.Cards))
	}

	resp = decode[CardListResponse](t, api.request(t, "POST", "/api/v1/cards/c2/down", ""))
	if patientNames(resp.Cards) != "Alice,Bob,ALICJA" {
		t.Errorf("After down: %s", patientNames(resp.Cards))
	}

	expectStatus(t, api.request(t, "POST", "/api/v1/cards/missing/up", ""), http.StatusNotFound)
}

// ============================================================================
// Import / export
// ============================================================================

func TestExport(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	rec := api.request(t, "GET", "/api/v1/cards/export", "")
	expectStatus(t, rec, http.StatusOK)

	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "erflow-cards-2025-03-14.json") {
		t.Errorf("Unexpected Content-Disposition %q", disposition)
	}
	if !strings.Contains(rec.Body.String(), "\n  {\n    \"id\": \"c1\"") {
		t.Errorf("Expected 2-space indented export, got:\n%s", rec.Body.String())
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := setupTestAPI(t, threePatients()...)
	src.request(t, "PATCH", "/api/v1/cards/c2", `{"color":"giallo","moved":"R","movedTo":"ortho"}`)
	exported := src.request(t, "GET", "/api/v1/cards/export", "").Body.String()

	dst := setupTestAPI(t)
	rec := dst.request(t, "POST", "/api/v1/cards/import", exported)
	expectStatus(t, rec, http.StatusOK)

	resp := decode[ImportResponse](t, rec)
	if resp.Imported != 3 {
		t.Errorf("Expected 3 imported, got %d", resp.Imported)
	}

	before, after := src.board.Cards(), dst.board.Cards()
	if len(before) != len(after) {
		t.Fatalf("Expected %d cards, got %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("Card %d: expected %+v, got %+v", i, before[i], after[i])
		}
	}
}

func TestImport_Rejects(t *testing.T) {
	for _, body := range []string{"not an array", "{}"} {
		t.Run(body, func(t *testing.T) {
			api := setupTestAPI(t, threePatients()...)

			rec := api.request(t, "POST", "/api/v1/cards/import", body)
			expectStatus(t, rec, http.StatusBadRequest)

			if len(api.board.Cards()) != 3 {
				t.Errorf("Expected list unchanged, got %d cards", len(api.board.Cards()))
			}
		})
	}
}

func TestPaste(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	rec := api.request(t, "POST", "/api/v1/cards/paste", "Dora\n\nEmil\n")
	expectStatus(t, rec, http.StatusOK)

	resp := decode[ImportResponse](t, rec)
	if resp.Imported != 2 {
		t.Errorf("Expected 2 imported, got %d", resp.Imported)
	}
	if patientNames(api.board.Cards()) != "Alice,Bob,ALICJA,Dora,Emil" {
		t.Errorf("Unexpected cards: %s", patientNames(api.board.Cards()))
	}

	expectStatus(t, api.request(t, "POST", "/api/v1/cards/paste", "\n  \n"), http.StatusBadRequest)
}

func TestPaste_FromClipboard(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	rec := api.request(t, "POST", "/api/v1/cards/paste?source=clipboard", "")
	expectStatus(t, rec, http.StatusOK)

	if n := decode[ImportResponse](t, rec).Imported; n != 2 {
		t.Errorf("Expected 2 imported, got %d", n)
	}
}

func TestPaste_ClipboardUnavailable(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)
	api.handler.clipboard = stubClipboard{err: errors.New("no display")}

	rec := api.request(t, "POST", "/api/v1/cards/paste?source=clipboard", "")
	expectStatus(t, rec, http.StatusServiceUnavailable)

	api.handler.clipboard = nil
	rec = api.request(t, "POST", "/api/v1/cards/paste?source=clipboard", "")
	expectStatus(t, rec, http.StatusServiceUnavailable)
}

// ============================================================================
// Drag, tally, preferences
// ============================================================================

func TestDragSession(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	expectStatus(t, api.request(t, "POST", "/api/v1/drag/start", `{"index":0}`), http.StatusOK)

	rec := api.request(t, "POST", "/api/v1/drag/over", `{"index":2}`)
	expectStatus(t, rec, http.StatusOK)
	resp := decode[DragResponse](t, rec)
	if patientNames(resp.Cards) != "Bob,ALICJA,Alice" || resp.DraggedIndex != 2 {
		t.Errorf("Unexpected drag state: %+v", resp)
	}

	resp = decode[DragResponse](t, api.request(t, "POST", "/api/v1/drag/end", ""))
	if resp.DraggedIndex != service.NoDrag {
		t.Errorf("Expected drag cleared, got %d", resp.DraggedIndex)
	}

	expectStatus(t, api.request(t, "POST", "/api/v1/drag/start", `{"index":9}`), http.StatusBadRequest)
	expectStatus(t, api.request(t, "POST", "/api/v1/drag/over", `{}`), http.StatusBadRequest)
}

func TestGetTally(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)
	api.request(t, "PATCH", "/api/v1/cards/c1", `{"color":"rosso"}`)

	tally := decode[map[string]int](t, api.request(t, "GET", "/api/v1/tally", ""))
	if tally["rosso"] != 1 || tally["bianco"] != 2 || tally["total"] != 3 {
		t.Errorf("Unexpected tally: %v", tally)
	}
}

func TestPreferences(t *testing.T) {
	api := setupTestAPI(t, threePatients()...)

	prefs := decode[map[string]bool](t, api.request(t, "GET", "/api/v1/preferences", ""))
	if prefs["darkMode"] {
		t.Error("Expected dark mode off")
	}

	rec := api.request(t, "PUT", "/api/v1/preferences", `{"darkMode":true}`)
	expectStatus(t, rec, http.StatusOK)
	if !decode[map[string]bool](t, rec)["darkMode"] {
		t.Error("Expected dark mode on in response")
	}
	if v, _, _ := api.kv.Get(store.KeyDarkMode); v != "true" {
		t.Errorf("Expected stored true, got %q", v)
	}

	expectStatus(t, api.request(t, "PUT", "/api/v1/preferences", `{}`), http.StatusBadRequest)
}

// ============================================================================
// Server wiring
// ============================================================================

func TestServer_CorsPreflight(t *testing.T) {
	board, _ := testutil.NewMemoryBoard(t)
	srv := NewServer(NewHandler(board, nil), board, ServerOptions{Port: 0})

	req := httptest.NewRequest("OPTIONS", "/api/v1/cards", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Errorf("Expected CORS allow-origin header, got none (status %d)", rec.Code)
	}
}

func TestServer_RoutesThroughMiddleware(t *testing.T) {
	board, _ := testutil.NewMemoryBoard(t)
	srv := NewServer(NewHandler(board, nil), board, ServerOptions{Port: 0})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/tally", nil))
	expectStatus(t, rec, http.StatusOK)

	if tally := decode[model.Tally](t, rec); tally.Total != 1 {
		t.Errorf("Expected seeded card in tally, got %+v", tally)
	}
}
