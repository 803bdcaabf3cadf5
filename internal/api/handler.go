package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/emilianobruni/erflow/internal/model"
	"github.com/emilianobruni/erflow/internal/service"
)

// maxBodyBytes bounds import and paste request bodies.
const maxBodyBytes = 10 << 20

// Handler contains all HTTP handlers for the API.
//
// Single board, shared by every client: all requests operate on the same
// BoardService, which serializes mutations.
type Handler struct {
	board     *service.BoardService
	clipboard service.ClipboardReader
	now       func() time.Time
}

// NewHandler creates a new handler. clip serves POST /cards/paste?source=clipboard
// and may be nil to disable server-side clipboard reads.
func NewHandler(board *service.BoardService, clip service.ClipboardReader) *Handler {
	return &Handler{board: board, clipboard: clip, now: time.Now}
}

// RegisterRoutes sets up all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Card list
	mux.HandleFunc("GET /api/v1/cards", h.ListCards)
	mux.HandleFunc("POST /api/v1/cards", h.AddCard)
	mux.HandleFunc("DELETE /api/v1/cards", h.DeleteAll)
	mux.HandleFunc("POST /api/v1/cards/reorder", h.Reorder)
	mux.HandleFunc("POST /api/v1/cards/collapse", h.CollapseAll)
	mux.HandleFunc("POST /api/v1/cards/expand", h.ExpandAll)

	// Import / export
	mux.HandleFunc("GET /api/v1/cards/export", h.Export)
	mux.HandleFunc("POST /api/v1/cards/import", h.Import)
	mux.HandleFunc("POST /api/v1/cards/paste", h.Paste)

	// Single card
	mux.HandleFunc("GET /api/v1/cards/{id}", h.GetCard)
	mux.HandleFunc("PATCH /api/v1/cards/{id}", h.UpdateCard)
	mux.HandleFunc("DELETE /api/v1/cards/{id}", h.RemoveCard)
	mux.HandleFunc("POST /api/v1/cards/{id}/up", h.MoveUp)
	mux.HandleFunc("POST /api/v1/cards/{id}/down", h.MoveDown)

	// Drag session
	mux.HandleFunc("POST /api/v1/drag/start", h.DragStart)
	mux.HandleFunc("POST /api/v1/drag/over", h.DragOver)
	mux.HandleFunc("POST /api/v1/drag/end", h.DragEnd)

	mux.HandleFunc("GET /api/v1/tally", h.GetTally)
	mux.HandleFunc("GET /api/v1/preferences", h.GetPreferences)
	mux.HandleFunc("PUT /api/v1/preferences", h.UpdatePreferences)
}

// --- Card list ---

// CardListResponse is the JSON response for list-shaped results.
type CardListResponse struct {
	Cards []model.Card `json:"cards"`
	Query string       `json:"query"`
	Shown int          `json:"shown"`
	Tally model.Tally  `json:"tally"`
}

func (h *Handler) listResponse() CardListResponse {
	cards := h.board.Filtered()
	return CardListResponse{
		Cards: cards,
		Query: h.board.SearchQuery(),
		Shown: len(cards),
		Tally: h.board.Tally(),
	}
}

// ListCards returns the filtered list. A q parameter, even empty, replaces
// the current search query.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query(); q.Has("q") {
		h.board.SetSearchQuery(q.Get("q"))
	}
	JSON(w, http.StatusOK, h.listResponse())
}

// AddCard appends a default card.
func (h *Handler) AddCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.board.AddCard()
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusCreated, card)
}

// DeleteAll clears the list. Requires ?confirm=true.
func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := h.board.DeleteAll(confirmed); err != nil {
		Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderRequest is the JSON body for moving a card between positions.
type ReorderRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

// Reorder moves the card at from to position to.
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	if req.From == nil || req.To == nil {
		BadRequest(w, "from and to are required")
		return
	}
	if err := h.board.ReorderByDrag(*req.From, *req.To); err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, h.listResponse())
}

func (h *Handler) CollapseAll(w http.ResponseWriter, r *http.Request) {
	if err := h.board.CollapseAll(); err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, h.listResponse())
}

func (h *Handler) ExpandAll(w http.ResponseWriter, r *http.Request) {
	if err := h.board.ExpandAll(); err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, h.listResponse())
}

// --- Import / export ---

// Export returns the full list as a JSON attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.board.ExportJSON(h.now())
	if err != nil {
		Error(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportResponse reports how many cards an import produced.
type ImportResponse struct {
	Imported int `json:"imported"`
	CardListResponse
}

func readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			JSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
			return "", false
		}
		BadRequest(w, "failed to read body")
		return "", false
	}
	return string(body), true
}

// Import replaces the list with the JSON array in the request body.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	n, err := h.board.ImportJSON(body)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, ImportResponse{Imported: n, CardListResponse: h.listResponse()})
}

// Paste appends one card per line of the plain-text body, or of the
// server's clipboard with ?source=clipboard.
func (h *Handler) Paste(w http.ResponseWriter, r *http.Request) {
	var (
		n   int
		err error
	)
	if r.URL.Query().Get("source") == "clipboard" {
		if h.clipboard == nil {
			JSON(w, http.StatusServiceUnavailable, map[string]string{"error": "clipboard not available on this server"})
			return
		}
		n, err = h.board.ImportFromClipboard(h.clipboard)
	} else {
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		n, err = h.board.ImportFromText(body)
	}
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, ImportResponse{Imported: n, CardListResponse: h.listResponse()})
}

// --- Single card ---

// GetCard returns one card.
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.board.Get(r.PathValue("id"))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, card)
}

// UpdateCard applies a partial update.
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.board.Get(id); err != nil {
		Error(w, err)
		return
	}

	var patch model.CardPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	if patch.IsEmpty() {
		BadRequest(w, "no fields to update")
		return
	}

	if err := h.board.UpdateCard(id, patch); err != nil {
		Error(w, err)
		return
	}
	card, err := h.board.Get(id)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, card)
}

// RemoveCard deletes one card. Unknown ids succeed.
func (h *Handler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	if err := h.board.RemoveCard(r.PathValue("id")); err != nil {
		Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MoveUp(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.board.MoveCardUp)
}

func (h *Handler) MoveDown(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.board.MoveCardDown)
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request, fn func(string) error) {
	id := r.PathValue("id")
	if _, err := h.board.Get(id); err != nil {
		Error(w, err)
		return
	}
	if err := fn(id); err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, h.listResponse())
}

// --- Drag session ---

// DragRequest is the JSON body for drag events.
type DragRequest struct {
	Index *int `json:"index"`
}

// DragResponse reports the drag state after an event.
type DragResponse struct {
	DraggedIndex int          `json:"draggedIndex"`
	Cards        []model.Card `json:"cards"`
}

func (h *Handler) dragIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req DragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return 0, false
	}
	if req.Index == nil {
		BadRequest(w, "index is required")
		return 0, false
	}
	return *req.Index, true
}

func (h *Handler) dragResponse() DragResponse {
	return DragResponse{DraggedIndex: h.board.DraggedIndex(), Cards: h.board.Cards()}
}

func (h *Handler) DragStart(w http.ResponseWriter, r *http.Request) {
	index, ok := h.dragIndex(w, r)
	if !ok {
		return
	}
	if err := h.board.BeginDrag(index); err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, h.dragResponse())
}

func (h *Handler) DragOver(w http.ResponseWriter, r *http.Request) {
	index, ok := h.dragIndex(w, r)
	if !ok {
		return
	}
	if err := h.board.DragOver(index); err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, h.dragResponse())
}

func (h *Handler) DragEnd(w http.ResponseWriter, r *http.Request) {
	h.board.EndDrag()
	JSON(w, http.StatusOK, h.dragResponse())
}

// --- Tally and preferences ---

func (h *Handler) GetTally(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.board.Tally())
}

// Preferences is the JSON shape of board preferences.
type Preferences struct {
	DarkMode *bool `json:"darkMode"`
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	dark := h.board.DarkMode()
	JSON(w, http.StatusOK, Preferences{DarkMode: &dark})
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req Preferences
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	if req.DarkMode == nil {
		BadRequest(w, "darkMode is required")
		return
	}
	if err := h.board.SetDarkMode(*req.DarkMode); err != nil {
		Error(w, err)
		return
	}
	h.GetPreferences(w, r)
}
