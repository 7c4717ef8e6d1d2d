package chatrepo

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"chat-api/internal/domain/chat"
	"chat-api/internal/infrastructure/database/entities"
)

func TestToTurnsReversedFlipsToOldestFirst(t *testing.T) {
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	// Rows arrive newest first, as fetched for windowing.
	rows := []entities.Message{
		{ID: 3, Role: "user", Content: "how are you", CreatedAt: base.Add(2 * time.Second)},
		{ID: 2, Role: "assistant", Content: "hello", CreatedAt: base.Add(time.Second)},
		{ID: 1, Role: "user", Content: "hi", CreatedAt: base},
	}

	turns := toTurnsReversed(rows)

	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	want := []chat.Turn{
		{Role: chat.RoleUser, Content: "hi", CreatedAt: base},
		{Role: chat.RoleAssistant, Content: "hello", CreatedAt: base.Add(time.Second)},
		{Role: chat.RoleUser, Content: "how are you", CreatedAt: base.Add(2 * time.Second)},
	}
	for i, turn := range turns {
		if turn != want[i] {
			t.Fatalf("turn %d out of order:\ngot  %+v\nwant %+v", i, turn, want[i])
		}
	}
}

func TestToTurnsReversedSingleAndEmpty(t *testing.T) {
	if got := toTurnsReversed(nil); len(got) != 0 {
		t.Fatalf("empty input should yield no turns, got %d", len(got))
	}

	rows := []entities.Message{{ID: 1, Role: "user", Content: "only"}}
	turns := toTurnsReversed(rows)
	if len(turns) != 1 || turns[0].Content != "only" || turns[0].Role != chat.RoleUser {
		t.Fatalf("unexpected turns: %+v", turns)
	}
}

func TestLoadRecentZeroLimitSkipsQuery(t *testing.T) {
	// A nil DB proves the zero window never reaches the store.
	store := NewPostgresStore(nil, zerolog.Nop())

	turns, err := store.LoadRecent(context.Background(), "id", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turns != nil {
		t.Fatalf("expected no turns for zero limit, got %+v", turns)
	}
}
