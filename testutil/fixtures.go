package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/emilianobruni/erflow/internal/config"
	"github.com/emilianobruni/erflow/internal/model"
	"github.com/emilianobruni/erflow/internal/service"
	"github.com/emilianobruni/erflow/internal/store"
)

// TestCard returns a card with sensible test defaults.
func TestCard(id, patientName string) model.Card {
	card := model.NewCard(id)
	card.PatientName = patientName
	return card
}

// SeedCards writes cards to kv under the cards key.
func SeedCards(t *testing.T, kv store.KeyValueStore, cards ...model.Card) {
	t.Helper()

	data, err := service.MarshalCards(model.CardList(cards))
	if err != nil {
		t.Fatalf("failed to marshal cards: %v", err)
	}
	if err := kv.Set(store.KeyCards, string(data)); err != nil {
		t.Fatalf("failed to seed cards: %v", err)
	}
}

// NewMemoryBoard returns a BoardService over a fresh in-memory store
// holding the given cards. With no cards the service seeds its default card.
func NewMemoryBoard(t *testing.T, cards ...model.Card) (*service.BoardService, *store.MemoryStore) {
	t.Helper()

	kv := store.NewMemoryStore()
	if len(cards) > 0 {
		SeedCards(t, kv, cards...)
	}
	board, err := service.NewBoardService(kv)
	if err != nil {
		t.Fatalf("failed to create board service: %v", err)
	}
	return board, kv
}

// TempDataDir creates a temporary .erflow data directory and returns its
// Paths. Removed automatically when the test ends.
func TempDataDir(t *testing.T) *config.Paths {
	t.Helper()

	dir := filepath.Join(t.TempDir(), config.DefaultDataDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create data dir: %v", err)
	}
	return config.NewPaths(dir)
}
