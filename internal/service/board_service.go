package service

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	kanerr "github.com/emilianobruni/erflow/internal/errors"
	"github.com/emilianobruni/erflow/internal/id"
	"github.com/emilianobruni/erflow/internal/model"
	"github.com/emilianobruni/erflow/internal/store"
)

// ChangeType says which part of the board state changed.
type ChangeType string

const (
	ChangeCards       ChangeType = "cards_changed"
	ChangePreferences ChangeType = "preferences_changed"
)

// BoardChange is delivered to subscribers after a successful mutation.
type BoardChange struct {
	Type  ChangeType  `json:"type"`
	Tally model.Tally `json:"tally"`
}

// BoardSubscriber receives board change notifications.
type BoardSubscriber interface {
	OnBoardChange(change BoardChange)
}

// ClipboardReader reads plain text from the system clipboard.
type ClipboardReader interface {
	ReadText() (string, error)
}

// NoDrag is the dragged index when no drag is in progress.
const NoDrag = -1

// BoardService owns the card list and the board preferences.
//
// Every mutation swaps in a new list produced by a model.CardList transition
// and writes it to the key-value store straight away. A persistence failure
// leaves the in-memory state updated and is returned as an EnvironmentError.
// An empty list is never written: only DeleteAll clears stored cards.
type BoardService struct {
	kv store.KeyValueStore

	mu       sync.Mutex
	cards    model.CardList
	query    string
	darkMode bool
	dragged  int

	// Last values read from or written to kv, used by Reload to skip
	// notifications caused by our own writes.
	lastCards    string
	hasLastCards bool
	lastDark     string

	subMu       sync.RWMutex
	subscribers []BoardSubscriber

	newID func() string
}

// NewBoardService loads board state from kv.
// Missing or malformed stored cards are replaced by one default card.
func NewBoardService(kv store.KeyValueStore) (*BoardService, error) {
	return newBoardService(kv, id.Generate)
}

func newBoardService(kv store.KeyValueStore, newID func() string) (*BoardService, error) {
	s := &BoardService{
		kv:      kv,
		dragged: NoDrag,
		newID:   newID,
	}
	if _, _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads both keys from kv. Callers other than the constructor must hold mu.
// Reports which parts changed compared with the last known stored values.
func (s *BoardService) load() (cardsChanged, prefsChanged bool, err error) {
	raw, ok, err := s.kv.Get(store.KeyCards)
	if err != nil {
		return false, false, kanerr.Environment("storage", err)
	}

	if ok != s.hasLastCards || raw != s.lastCards || s.cards == nil {
		cardsChanged = true
		s.lastCards, s.hasLastCards = raw, ok

		var cards model.CardList
		if ok {
			cards, err = ReconcileJSON(raw, s.uniqueIDFunc(nil))
			if err != nil {
				log.Warnf("Failed to parse saved cards, starting over: %v", err)
			}
		}
		if !ok || err != nil {
			cards = model.CardList{model.NewCard(s.newID())}
			if perr := s.persistCards(cards); perr != nil {
				log.Warnf("Failed to save seed card: %v", perr)
			}
		}
		s.cards = cards
		s.dragged = NoDrag
	}

	dark, _, err := s.kv.Get(store.KeyDarkMode)
	if err != nil {
		return cardsChanged, false, kanerr.Environment("storage", err)
	}
	if dark != s.lastDark {
		prefsChanged = true
		s.lastDark = dark
	}
	s.darkMode = dark == "true"

	return cardsChanged, prefsChanged, nil
}

// Reload re-reads persisted state, e.g. after the storage file was changed
// by another process. Subscribers are notified only for parts that differ
// from what this service last read or wrote.
func (s *BoardService) Reload() error {
	s.mu.Lock()
	cardsChanged, prefsChanged, err := s.load()
	tally := s.cards.Tally()
	s.mu.Unlock()

	if cardsChanged {
		s.notify(BoardChange{Type: ChangeCards, Tally: tally})
	}
	if prefsChanged {
		s.notify(BoardChange{Type: ChangePreferences, Tally: tally})
	}
	return err
}

// Subscribe registers sub for change notifications.
func (s *BoardService) Subscribe(sub BoardSubscriber) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, sub)
}

func (s *BoardService) notify(change BoardChange) {
	s.subMu.RLock()
	subs := make([]BoardSubscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.RUnlock()

	for _, sub := range subs {
		sub.OnBoardChange(change)
	}
}

// persistCards writes cards to kv, skipping empty lists. Must hold mu (or be
// called from the constructor).
func (s *BoardService) persistCards(cards model.CardList) error {
	if len(cards) == 0 {
		return nil
	}
	data, err := MarshalCards(cards)
	if err != nil {
		return err
	}
	if err := s.kv.Set(store.KeyCards, string(data)); err != nil {
		return kanerr.Environment("storage", err)
	}
	s.lastCards, s.hasLastCards = string(data), true
	return nil
}

// commit swaps in next, persists it and notifies subscribers.
// Must be called with mu held; it releases mu before notifying.
func (s *BoardService) commit(next model.CardList) error {
	s.cards = next
	err := s.persistCards(next)
	tally := next.Tally()
	s.mu.Unlock()

	if err != nil {
		log.Errorf("Failed to save cards: %v", err)
	}
	s.notify(BoardChange{Type: ChangeCards, Tally: tally})
	return err
}

// uniqueIDFunc returns an ID generator that never yields an ID already in
// existing.
func (s *BoardService) uniqueIDFunc(existing model.CardList) func() string {
	taken := make(map[string]bool, len(existing))
	for _, c := range existing {
		taken[c.ID] = true
	}
	return func() string {
		for {
			next := s.newID()
			if !taken[next] {
				taken[next] = true
				return next
			}
		}
	}
}

// --- Queries ---

// Cards returns a copy of the full list.
func (s *BoardService) Cards() model.CardList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cards.Clone()
}

// Get returns the card with the given ID.
func (s *BoardService) Get(cardID string) (model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.cards.IndexOf(cardID)
	if idx < 0 {
		return model.Card{}, kanerr.CardNotFound(cardID)
	}
	return s.cards[idx], nil
}

// Filtered returns the cards matching the current search query.
func (s *BoardService) Filtered() model.CardList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cards.Filter(s.query)
}

// Tally returns colour counts for the full list.
func (s *BoardService) Tally() model.Tally {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cards.Tally()
}

// SetSearchQuery stores the filter text. The card list is not touched.
func (s *BoardService) SetSearchQuery(query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
}

func (s *BoardService) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// --- Card mutations ---

// AddCard appends a new default card and returns it.
func (s *BoardService) AddCard() (model.Card, error) {
	s.mu.Lock()
	card := model.NewCard(s.uniqueIDFunc(s.cards)())
	return card, s.commit(s.cards.WithCard(card))
}

// RemoveCard removes the card with the given ID. Unknown IDs are ignored.
func (s *BoardService) RemoveCard(cardID string) error {
	s.mu.Lock()
	if s.cards.IndexOf(cardID) < 0 {
		s.mu.Unlock()
		return nil
	}
	return s.commit(s.cards.Without(cardID))
}

// UpdateCard merges patch into the card with the given ID.
// Unknown IDs are ignored; invalid enum values are rejected before anything changes.
func (s *BoardService) UpdateCard(cardID string, patch model.CardPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	next, ok := s.cards.Patched(cardID, patch)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	return s.commit(next)
}

// CollapseAll collapses every card.
func (s *BoardService) CollapseAll() error {
	s.mu.Lock()
	return s.commit(s.cards.AllCollapsed(true))
}

// ExpandAll expands every card.
func (s *BoardService) ExpandAll() error {
	s.mu.Lock()
	return s.commit(s.cards.AllCollapsed(false))
}

// MoveCardUp swaps the card with its predecessor.
func (s *BoardService) MoveCardUp(cardID string) error {
	s.mu.Lock()
	idx := s.cards.IndexOf(cardID)
	if idx <= 0 {
		s.mu.Unlock()
		return nil
	}
	return s.commit(s.cards.MovedUp(cardID))
}

// MoveCardDown swaps the card with its successor.
func (s *BoardService) MoveCardDown(cardID string) error {
	s.mu.Lock()
	idx := s.cards.IndexOf(cardID)
	if idx < 0 || idx >= len(s.cards)-1 {
		s.mu.Unlock()
		return nil
	}
	return s.commit(s.cards.MovedDown(cardID))
}

// ReorderByDrag moves the card at from to position to.
// Out-of-range or equal indices are a no-op.
func (s *BoardService) ReorderByDrag(from, to int) error {
	s.mu.Lock()
	if from == to || from < 0 || to < 0 || from >= len(s.cards) || to >= len(s.cards) {
		s.mu.Unlock()
		return nil
	}
	return s.commit(s.cards.Reordered(from, to))
}

// DeleteAll clears the list and erases the stored cards.
// Returns ErrNotConfirmed unless confirmed is true.
func (s *BoardService) DeleteAll(confirmed bool) error {
	if !confirmed {
		return kanerr.ErrNotConfirmed
	}

	s.mu.Lock()
	s.cards = model.CardList{}
	s.dragged = NoDrag
	err := s.kv.Remove(store.KeyCards)
	if err == nil {
		s.lastCards, s.hasLastCards = "", false
	}
	s.mu.Unlock()

	if err != nil {
		log.Errorf("Failed to erase saved cards: %v", err)
		err = kanerr.Environment("storage", err)
	}
	s.notify(BoardChange{Type: ChangeCards})
	return err
}

// --- Drag session ---

// BeginDrag records index as the card being dragged.
func (s *BoardService) BeginDrag(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.cards) {
		return kanerr.InvalidField("index", "out of range")
	}
	s.dragged = index
	return nil
}

// DragOver moves the dragged card to index and makes index the new dragged
// position. Every pointer-over event on a new target produces a new order.
func (s *BoardService) DragOver(index int) error {
	s.mu.Lock()
	from := s.dragged
	if from == NoDrag || from == index || index < 0 || index >= len(s.cards) {
		s.mu.Unlock()
		return nil
	}
	s.dragged = index
	return s.commit(s.cards.Reordered(from, index))
}

// EndDrag clears the drag state.
func (s *BoardService) EndDrag() {
	s.mu.Lock()
	s.dragged = NoDrag
	s.mu.Unlock()
}

// DraggedIndex returns the index being dragged, or NoDrag.
func (s *BoardService) DraggedIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragged
}

// --- Import / export ---

// ExportJSON returns the pretty-printed list and the file name to save it under.
func (s *BoardService) ExportJSON(now time.Time) (string, []byte, error) {
	s.mu.Lock()
	cards := s.cards.Clone()
	s.mu.Unlock()

	data, err := MarshalCards(cards)
	if err != nil {
		return "", nil, err
	}
	return ExportFileName(now), data, nil
}

// ImportJSON replaces the whole list with the cards reconciled from text.
// On a parse error the list is left unchanged.
func (s *BoardService) ImportJSON(text string) (int, error) {
	cards, err := ReconcileJSON(text, s.uniqueIDFunc(nil))
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.dragged = NoDrag
	return len(cards), s.commit(cards)
}

// ImportFromText appends one card per non-empty line of text.
// On a parse error the list is left unchanged.
func (s *BoardService) ImportFromText(text string) (int, error) {
	s.mu.Lock()
	cards, err := CardsFromText(text, s.uniqueIDFunc(s.cards))
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	return len(cards), s.commit(s.cards.WithCards(cards))
}

// ImportFromClipboard reads the clipboard and appends its lines as cards.
func (s *BoardService) ImportFromClipboard(clip ClipboardReader) (int, error) {
	text, err := clip.ReadText()
	if err != nil {
		return 0, kanerr.Environment("clipboard", err)
	}
	return s.ImportFromText(text)
}

// --- Preferences ---

// DarkMode reports the dark-mode preference.
func (s *BoardService) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode
}

// SetDarkMode stores the dark-mode preference.
func (s *BoardService) SetDarkMode(on bool) error {
	s.mu.Lock()
	s.darkMode = on
	value := "false"
	if on {
		value = "true"
	}
	err := s.kv.Set(store.KeyDarkMode, value)
	if err == nil {
		s.lastDark = value
	}
	tally := s.cards.Tally()
	s.mu.Unlock()

	if err != nil {
		log.Errorf("Failed to save dark mode: %v", err)
		err = kanerr.Environment("storage", err)
	}
	s.notify(BoardChange{Type: ChangePreferences, Tally: tally})
	return err
}

// ToggleDarkMode flips the preference and returns the new value.
func (s *BoardService) ToggleDarkMode() (bool, error) {
	next := !s.DarkMode()
	return next, s.SetDarkMode(next)
}
