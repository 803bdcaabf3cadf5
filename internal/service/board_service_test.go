package service

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	kanerr "github.com/emilianobruni/erflow/internal/errors"
	"github.com/emilianobruni/erflow/internal/model"
	"github.com/emilianobruni/erflow/internal/store"
)

// ============================================================================
// Test helpers
// ============================================================================

// failingStore wraps a MemoryStore and fails writes on demand.
type failingStore struct {
	*store.MemoryStore
	failWrites bool
	writes     int
}

func newFailingStore() *failingStore {
	return &failingStore{MemoryStore: store.NewMemoryStore()}
}

func (s *failingStore) Set(key, value string) error {
	if s.failWrites {
		return errors.New("disk full")
	}
	s.writes++
	return s.MemoryStore.Set(key, value)
}

func (s *failingStore) Remove(key string) error {
	if s.failWrites {
		return errors.New("disk full")
	}
	return s.MemoryStore.Remove(key)
}

type recordingSubscriber struct {
	mu      sync.Mutex
	changes []BoardChange
}

func (r *recordingSubscriber) OnBoardChange(change BoardChange) {
	r.mu.Lock()
	r.changes = append(r.changes, change)
	r.mu.Unlock()
}

func (r *recordingSubscriber) count(ct ChangeType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.changes {
		if c.Type == ct {
			n++
		}
	}
	return n
}

type fakeClipboard struct {
	text string
	err  error
}

func (f fakeClipboard) ReadText() (string, error) {
	return f.text, f.err
}

func newTestService(t *testing.T, kv store.KeyValueStore) *BoardService {
	t.Helper()
	s, err := newBoardService(kv, sequentialIDs("card"))
	if err != nil {
		t.Fatalf("newBoardService failed: %v", err)
	}
	return s
}

// seededService returns a service whose list holds cards named by names.
func seededService(t *testing.T, names ...string) (*BoardService, *store.MemoryStore) {
	t.Helper()
	kv := store.NewMemoryStore()
	cards := model.CardList{}
	for i, name := range names {
		c := model.NewCard("c" + string(rune('0'+i)))
		c.PatientName = name
		cards = append(cards, c)
	}
	data, _ := MarshalCards(cards)
	if err := kv.Set(store.KeyCards, string(data)); err != nil {
		t.Fatal(err)
	}
	return newTestService(t, kv), kv
}

func storedCards(t *testing.T, kv store.KeyValueStore) (model.CardList, bool) {
	t.Helper()
	raw, ok, err := kv.Get(store.KeyCards)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		return nil, false
	}
	cards, err := ReconcileJSON(raw, sequentialIDs("x"))
	if err != nil {
		t.Fatalf("Stored cards unparsable: %v", err)
	}
	return cards, true
}

func names(cards model.CardList) string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.PatientName
	}
	return strings.Join(out, ",")
}

// ============================================================================
// Startup
// ============================================================================

func TestNewBoardService_SeedsDefaultCardWhenAbsent(t *testing.T) {
	kv := store.NewMemoryStore()
	s := newTestService(t, kv)

	cards := s.Cards()
	if len(cards) != 1 {
		t.Fatalf("Expected 1 seed card, got %d", len(cards))
	}
	if cards[0].Color != model.ColorWhite || cards[0].ID == "" {
		t.Errorf("Unexpected seed card: %+v", cards[0])
	}

	stored, ok := storedCards(t, kv)
	if !ok || len(stored) != 1 {
		t.Error("Expected seed card to be persisted")
	}
}

func TestNewBoardService_SeedsOnCorruptValue(t *testing.T) {
	kv := store.NewMemoryStore()
	_ = kv.Set(store.KeyCards, "{not json")

	s := newTestService(t, kv)
	if len(s.Cards()) != 1 {
		t.Errorf("Expected 1 seed card, got %d", len(s.Cards()))
	}
}

func TestNewBoardService_EmptyStoredArrayStaysEmpty(t *testing.T) {
	kv := store.NewMemoryStore()
	_ = kv.Set(store.KeyCards, "[]")

	s := newTestService(t, kv)
	if len(s.Cards()) != 0 {
		t.Errorf("Expected no cards, got %d", len(s.Cards()))
	}
}

func TestNewBoardService_LoadsStoredCards(t *testing.T) {
	s, _ := seededService(t, "Alice", "Bob")
	if got := names(s.Cards()); got != "Alice,Bob" {
		t.Errorf("Expected Alice,Bob, got %s", got)
	}
}

func TestNewBoardService_DarkModeParsing(t *testing.T) {
	tests := []struct {
		stored string
		want   bool
	}{
		{"true", true},
		{"false", false},
		{"yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.stored, func(t *testing.T) {
			kv := store.NewMemoryStore()
			_ = kv.Set(store.KeyDarkMode, tt.stored)
			s := newTestService(t, kv)
			if s.DarkMode() != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, s.DarkMode())
			}
		})
	}
}

// ============================================================================
// Card mutations
// ============================================================================

func TestBoardService_AddCard(t *testing.T) {
	s, kv := seededService(t, "Alice")

	card, err := s.AddCard()
	if err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}

	cards := s.Cards()
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	if cards[1].ID != card.ID {
		t.Errorf("Expected new card appended last")
	}
	if card.Color != model.ColorWhite || card.Location != model.LocationBlank || card.Moved != model.MovedBlank {
		t.Errorf("Expected default fields, got %+v", card)
	}
	if card.ID == cards[0].ID {
		t.Error("Expected unique id")
	}

	stored, _ := storedCards(t, kv)
	if len(stored) != 2 {
		t.Errorf("Expected 2 stored cards, got %d", len(stored))
	}
}

func TestBoardService_AddCard_AvoidsIDCollision(t *testing.T) {
	kv := store.NewMemoryStore()
	_ = kv.Set(store.KeyCards, `[{"id":"card-1"}]`)
	s := newTestService(t, kv)

	card, err := s.AddCard()
	if err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}
	if card.ID == "card-1" {
		t.Error("Expected a fresh id, got the existing one")
	}
}

func TestBoardService_RemoveCard(t *testing.T) {
	s, _ := seededService(t, "Alice", "Bob")
	id := s.Cards()[0].ID

	if err := s.RemoveCard(id); err != nil {
		t.Fatalf("RemoveCard failed: %v", err)
	}
	if got := names(s.Cards()); got != "Bob" {
		t.Errorf("Expected Bob, got %s", got)
	}

	// Unknown id is ignored
	if err := s.RemoveCard("missing"); err != nil {
		t.Errorf("Expected no error for unknown id, got %v", err)
	}
}

func TestBoardService_RemoveLastCard_KeepsStoredValue(t *testing.T) {
	s, kv := seededService(t, "Alice")
	id := s.Cards()[0].ID

	if err := s.RemoveCard(id); err != nil {
		t.Fatalf("RemoveCard failed: %v", err)
	}
	if len(s.Cards()) != 0 {
		t.Fatal("Expected empty list")
	}

	// Empty lists are never written, so the old value stays
	stored, ok := storedCards(t, kv)
	if !ok || len(stored) != 1 {
		t.Errorf("Expected previous stored list to survive, got %v %v", stored, ok)
	}
}

func TestBoardService_UpdateCard(t *testing.T) {
	s, _ := seededService(t, "Alice")
	id := s.Cards()[0].ID

	red := model.ColorRed
	loc := model.LocationTRI
	name := "Alicia"
	err := s.UpdateCard(id, model.CardPatch{Color: &red, Location: &loc, PatientName: &name})
	if err != nil {
		t.Fatalf("UpdateCard failed: %v", err)
	}

	card, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if card.Color != red || card.Location != loc || card.PatientName != name {
		t.Errorf("Patch not applied: %+v", card)
	}
	if card.Moved != model.MovedBlank {
		t.Errorf("Expected untouched fields kept, got moved %q", card.Moved)
	}
}

func TestBoardService_UpdateCard_RejectsInvalidEnum(t *testing.T) {
	s, _ := seededService(t, "Alice")
	id := s.Cards()[0].ID

	purple := model.Color("purple")
	err := s.UpdateCard(id, model.CardPatch{Color: &purple})
	if !kanerr.IsValidationError(err) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}

	card, _ := s.Get(id)
	if card.Color != model.ColorWhite {
		t.Errorf("Expected colour unchanged, got %q", card.Color)
	}
}

func TestBoardService_UpdateCard_UnknownIDIgnored(t *testing.T) {
	s, _ := seededService(t, "Alice")
	name := "Bob"
	if err := s.UpdateCard("missing", model.CardPatch{PatientName: &name}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if got := names(s.Cards()); got != "Alice" {
		t.Errorf("Expected list unchanged, got %s", got)
	}
}

func TestBoardService_Get_NotFound(t *testing.T) {
	s, _ := seededService(t, "Alice")
	_, err := s.Get("missing")
	if !kanerr.IsNotFound(err) {
		t.Errorf("Expected NotFound, got %v", err)
	}
}

func TestBoardService_CollapseExpandAll(t *testing.T) {
	s, _ := seededService(t, "Alice", "Bob", "Carol")

	if err := s.CollapseAll(); err != nil {
		t.Fatalf("CollapseAll failed: %v", err)
	}
	for _, c := range s.Cards() {
		if !c.Collapsed {
			t.Errorf("Expected %s collapsed", c.PatientName)
		}
	}

	if err := s.ExpandAll(); err != nil {
		t.Fatalf("ExpandAll failed: %v", err)
	}
	for _, c := range s.Cards() {
		if c.Collapsed {
			t.Errorf("Expected %s expanded", c.PatientName)
		}
	}
}

func TestBoardService_MoveUpDown(t *testing.T) {
	s, _ := seededService(t, "Alice", "Bob", "Carol")
	bob := s.Cards()[1].ID

	if err := s.MoveCardUp(bob); err != nil {
		t.Fatalf("MoveCardUp failed: %v", err)
	}
	if got := names(s.Cards()); got != "Bob,Alice,Carol" {
		t.Errorf("After up: %s", got)
	}

	if err := s.MoveCardDown(bob); err != nil {
		t.Fatalf("MoveCardDown failed: %v", err)
	}
	if got := names(s.Cards()); got != "Alice,Bob,Carol" {
		t.Errorf("After down: %s", got)
	}
}

func TestBoardService_MoveAtBoundariesIsNoop(t *testing.T) {
	s, kv := seededService(t, "Alice", "Bob")
	cards := s.Cards()
	before, _, _ := kv.Get(store.KeyCards)

	sub := &recordingSubscriber{}
	s.Subscribe(sub)

	_ = s.MoveCardUp(cards[0].ID)
	_ = s.MoveCardDown(cards[1].ID)

	if got := names(s.Cards()); got != "Alice,Bob" {
		t.Errorf("Expected unchanged order, got %s", got)
	}
	after, _, _ := kv.Get(store.KeyCards)
	if before != after {
		t.Error("Expected storage untouched")
	}
	if sub.count(ChangeCards) != 0 {
		t.Error("Expected no notifications")
	}
}

func TestBoardService_ReorderByDrag(t *testing.T) {
	s, _ := seededService(t, "A", "B", "C", "D")

	if err := s.ReorderByDrag(0, 2); err != nil {
		t.Fatalf("ReorderByDrag failed: %v", err)
	}
	if got := names(s.Cards()); got != "B,C,A,D" {
		t.Errorf("Expected B,C,A,D, got %s", got)
	}

	_ = s.ReorderByDrag(9, 0)
	if got := names(s.Cards()); got != "B,C,A,D" {
		t.Errorf("Expected out-of-range to be a no-op, got %s", got)
	}
}

// ============================================================================
// Drag session
// ============================================================================

func TestBoardService_DragSession(t *testing.T) {
	s, _ := seededService(t, "A", "B", "C", "D")

	if s.DraggedIndex() != NoDrag {
		t.Fatalf("Expected no drag at start")
	}

	if err := s.BeginDrag(0); err != nil {
		t.Fatalf("BeginDrag failed: %v", err)
	}
	if err := s.DragOver(1); err != nil {
		t.Fatalf("DragOver failed: %v", err)
	}
	if got := names(s.Cards()); got != "B,A,C,D" {
		t.Errorf("After first over: %s", got)
	}
	if s.DraggedIndex() != 1 {
		t.Errorf("Expected dragged index 1, got %d", s.DraggedIndex())
	}

	if err := s.DragOver(3); err != nil {
		t.Fatalf("DragOver failed: %v", err)
	}
	if got := names(s.Cards()); got != "B,C,D,A" {
		t.Errorf("After second over: %s", got)
	}

	// Hovering the same slot again changes nothing
	_ = s.DragOver(3)
	if got := names(s.Cards()); got != "B,C,D,A" {
		t.Errorf("After repeat over: %s", got)
	}

	s.EndDrag()
	if s.DraggedIndex() != NoDrag {
		t.Errorf("Expected drag cleared")
	}
}

func TestBoardService_DragOverWithoutBeginIsNoop(t *testing.T) {
	s, _ := seededService(t, "A", "B")
	if err := s.DragOver(1); err != nil {
		t.Fatalf("DragOver failed: %v", err)
	}
	if got := names(s.Cards()); got != "A,B" {
		t.Errorf("Expected unchanged, got %s", got)
	}
}

func TestBoardService_BeginDrag_OutOfRange(t *testing.T) {
	s, _ := seededService(t, "A")
	if err := s.BeginDrag(5); !kanerr.IsValidationError(err) {
		t.Errorf("Expected ValidationError, got %v", err)
	}
}

// ============================================================================
// Delete all
// ============================================================================

func TestBoardService_DeleteAll_RequiresConfirmation(t *testing.T) {
	s, _ := seededService(t, "Alice")
	err := s.DeleteAll(false)
	if !errors.Is(err, kanerr.ErrNotConfirmed) {
		t.Fatalf("Expected ErrNotConfirmed, got %v", err)
	}
	if len(s.Cards()) != 1 {
		t.Error("Expected list unchanged")
	}
}

func TestBoardService_DeleteAll_ThenRestartSeeds(t *testing.T) {
	s, kv := seededService(t, "Alice", "Bob")

	if err := s.DeleteAll(true); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if len(s.Cards()) != 0 {
		t.Errorf("Expected empty list, got %d", len(s.Cards()))
	}
	if _, ok, _ := kv.Get(store.KeyCards); ok {
		t.Fatal("Expected stored cards removed")
	}

	restarted := newTestService(t, kv)
	cards := restarted.Cards()
	if len(cards) != 1 || cards[0].PatientName != "" || cards[0].Color != model.ColorWhite {
		t.Errorf("Expected one default card after restart, got %+v", cards)
	}
}

func TestBoardService_DeleteAll_ThenReloadStaysEmpty(t *testing.T) {
	s, _ := seededService(t, "Alice")
	_ = s.DeleteAll(true)

	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if len(s.Cards()) != 0 {
		t.Errorf("Expected our own delete not to reseed, got %d cards", len(s.Cards()))
	}
}

// ============================================================================
// Search and tally
// ============================================================================

func TestBoardService_Filtered(t *testing.T) {
	s, _ := seededService(t, "Alice", "Bob", "ALICJA")

	s.SetSearchQuery("ali")
	if got := names(s.Filtered()); got != "Alice,ALICJA" {
		t.Errorf("Expected Alice,ALICJA, got %s", got)
	}
	if s.SearchQuery() != "ali" {
		t.Errorf("Expected query kept, got %q", s.SearchQuery())
	}
	if len(s.Cards()) != 3 {
		t.Error("Expected filtering to leave the list alone")
	}

	s.SetSearchQuery("")
	if len(s.Filtered()) != 3 {
		t.Error("Expected empty query to match all")
	}
}

func TestBoardService_Tally(t *testing.T) {
	s, _ := seededService(t, "A", "B", "C")
	cards := s.Cards()
	red, green := model.ColorRed, model.ColorGreen
	_ = s.UpdateCard(cards[0].ID, model.CardPatch{Color: &red})
	_ = s.UpdateCard(cards[1].ID, model.CardPatch{Color: &green})

	tally := s.Tally()
	if tally.Red != 1 || tally.Green != 1 || tally.White != 1 || tally.Total != 3 {
		t.Errorf("Unexpected tally: %+v", tally)
	}
}

// ============================================================================
// Import / export
// ============================================================================

func TestBoardService_ExportImportRoundTrip(t *testing.T) {
	s, _ := seededService(t, "Alice", "Bob")
	red := model.ColorRed
	_ = s.UpdateCard(s.Cards()[0].ID, model.CardPatch{Color: &red})
	before := s.Cards()

	name, data, err := s.ExportJSON(time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	if name != "erflow-cards-2025-01-02.json" {
		t.Errorf("Unexpected filename %q", name)
	}

	other, _ := seededService(t, "Zed")
	n, err := other.ImportJSON(string(data))
	if err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 imported, got %d", n)
	}

	after := other.Cards()
	if len(after) != len(before) {
		t.Fatalf("Expected %d cards, got %d", len(before), len(after))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("Card %d: expected %+v, got %+v", i, before[i], after[i])
		}
	}
}

func TestBoardService_ImportJSON_RejectsAndKeepsList(t *testing.T) {
	for _, text := range []string{"not an array", "{}"} {
		t.Run(text, func(t *testing.T) {
			s, kv := seededService(t, "Alice", "Bob")
			before, _, _ := kv.Get(store.KeyCards)

			_, err := s.ImportJSON(text)
			if !kanerr.IsParseError(err) {
				t.Fatalf("Expected ParseError, got %v", err)
			}
			if got := names(s.Cards()); got != "Alice,Bob" {
				t.Errorf("Expected list unchanged, got %s", got)
			}
			after, _, _ := kv.Get(store.KeyCards)
			if before != after {
				t.Error("Expected storage unchanged")
			}
		})
	}
}

func TestBoardService_ImportJSON_Reconciles(t *testing.T) {
	s, _ := seededService(t, "Zed")

	_, err := s.ImportJSON(`[{"color":"purple","patientName":"Alice"}]`)
	if err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	cards := s.Cards()
	if len(cards) != 1 {
		t.Fatalf("Expected replace semantics, got %d cards", len(cards))
	}
	if cards[0].Color != model.ColorWhite || cards[0].PatientName != "Alice" || cards[0].ID == "" {
		t.Errorf("Unexpected card: %+v", cards[0])
	}
}

func TestBoardService_ImportFromText_Appends(t *testing.T) {
	s, _ := seededService(t, "Zed")

	n, err := s.ImportFromText("Alice\n\nBob\n")
	if err != nil {
		t.Fatalf("ImportFromText failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 added, got %d", n)
	}
	if got := names(s.Cards()); got != "Zed,Alice,Bob" {
		t.Errorf("Expected Zed,Alice,Bob, got %s", got)
	}
	cards := s.Cards()
	if cards[1].Content != "Alice" {
		t.Errorf("Expected content copied from line, got %q", cards[1].Content)
	}
	seen := map[string]bool{}
	for _, c := range cards {
		if seen[c.ID] {
			t.Errorf("Duplicate id %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestBoardService_ImportFromClipboard(t *testing.T) {
	s, _ := seededService(t, "Zed")

	n, err := s.ImportFromClipboard(fakeClipboard{text: "Alice\r\nBob"})
	if err != nil {
		t.Fatalf("ImportFromClipboard failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 added, got %d", n)
	}
}

func TestBoardService_ImportFromClipboard_Errors(t *testing.T) {
	s, _ := seededService(t, "Zed")

	_, err := s.ImportFromClipboard(fakeClipboard{err: errors.New("no display")})
	if !kanerr.IsEnvironmentError(err) {
		t.Errorf("Expected EnvironmentError, got %v", err)
	}

	_, err = s.ImportFromClipboard(fakeClipboard{text: "\n\n"})
	if !kanerr.IsParseError(err) {
		t.Errorf("Expected ParseError for empty clipboard, got %v", err)
	}
	if got := names(s.Cards()); got != "Zed" {
		t.Errorf("Expected list unchanged, got %s", got)
	}
}

// ============================================================================
// Preferences
// ============================================================================

func TestBoardService_DarkMode(t *testing.T) {
	kv := store.NewMemoryStore()
	s := newTestService(t, kv)

	if s.DarkMode() {
		t.Fatal("Expected dark mode off by default")
	}

	on, err := s.ToggleDarkMode()
	if err != nil {
		t.Fatalf("ToggleDarkMode failed: %v", err)
	}
	if !on || !s.DarkMode() {
		t.Error("Expected dark mode on")
	}
	if v, _, _ := kv.Get(store.KeyDarkMode); v != "true" {
		t.Errorf("Expected stored true, got %q", v)
	}

	if err := s.SetDarkMode(false); err != nil {
		t.Fatalf("SetDarkMode failed: %v", err)
	}
	if v, _, _ := kv.Get(store.KeyDarkMode); v != "false" {
		t.Errorf("Expected stored false, got %q", v)
	}
}

// ============================================================================
// Persistence failures, reload, subscribers
// ============================================================================

func TestBoardService_PersistFailureKeepsState(t *testing.T) {
	kv := newFailingStore()
	s := newTestService(t, kv)

	kv.failWrites = true
	_, err := s.AddCard()
	if !kanerr.IsEnvironmentError(err) {
		t.Fatalf("Expected EnvironmentError, got %v", err)
	}
	if len(s.Cards()) != 2 {
		t.Errorf("Expected in-memory list updated, got %d", len(s.Cards()))
	}
}

func TestBoardService_Reload_PicksUpExternalChanges(t *testing.T) {
	s, kv := seededService(t, "Alice")
	sub := &recordingSubscriber{}
	s.Subscribe(sub)

	_ = kv.Set(store.KeyCards, `[{"id":"x","patientName":"Bob"}]`)
	_ = kv.Set(store.KeyDarkMode, "true")

	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if got := names(s.Cards()); got != "Bob" {
		t.Errorf("Expected Bob, got %s", got)
	}
	if !s.DarkMode() {
		t.Error("Expected dark mode picked up")
	}
	if sub.count(ChangeCards) != 1 || sub.count(ChangePreferences) != 1 {
		t.Errorf("Expected one notification each, got %+v", sub.changes)
	}
}

func TestBoardService_Reload_IgnoresOwnWrites(t *testing.T) {
	s, _ := seededService(t, "Alice")
	_, _ = s.AddCard()
	_ = s.SetDarkMode(true)

	sub := &recordingSubscriber{}
	s.Subscribe(sub)

	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if len(sub.changes) != 0 {
		t.Errorf("Expected no notifications, got %+v", sub.changes)
	}
}

func TestBoardService_NotifiesSubscribers(t *testing.T) {
	s, _ := seededService(t, "Alice")
	sub := &recordingSubscriber{}
	s.Subscribe(sub)

	_, _ = s.AddCard()
	_ = s.CollapseAll()
	_ = s.SetDarkMode(true)

	if sub.count(ChangeCards) != 2 {
		t.Errorf("Expected 2 card notifications, got %d", sub.count(ChangeCards))
	}
	if sub.count(ChangePreferences) != 1 {
		t.Errorf("Expected 1 preference notification, got %d", sub.count(ChangePreferences))
	}
	last := sub.changes[1]
	if last.Tally.Total != 2 {
		t.Errorf("Expected tally in notification, got %+v", last.Tally)
	}
}

func TestBoardService_ConcurrentMutations(t *testing.T) {
	s, _ := seededService(t, "Alice")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AddCard()
		}()
	}
	wg.Wait()

	if len(s.Cards()) != 21 {
		t.Errorf("Expected 21 cards, got %d", len(s.Cards()))
	}
}
