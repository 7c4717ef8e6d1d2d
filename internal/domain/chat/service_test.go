package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"chat-api/internal/utils/apperrors"
)

type appendedTurn struct {
	conversationID string
	role           Role
	content        string
}

type fakeStore struct {
	history   []Turn
	ensureErr error
	loadErr   error
	appendErr error
	listErr   error

	loadedLimit int
	appended    []appendedTurn
}

func (s *fakeStore) EnsureConversation(ctx context.Context, conversationID string) error {
	return s.ensureErr
}

func (s *fakeStore) LoadRecent(ctx context.Context, conversationID string, limit int) ([]Turn, error) {
	s.loadedLimit = limit
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.history, nil
}

func (s *fakeStore) List(ctx context.Context, conversationID string) ([]Turn, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.history, nil
}

func (s *fakeStore) AppendTurn(ctx context.Context, conversationID string, role Role, content string) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, appendedTurn{conversationID, role, content})
	return nil
}

func (s *fakeStore) Ping(ctx context.Context) error { return nil }

type fakeGenerator struct {
	reply string
	err   error

	calls  int
	model  string
	prompt string
}

func (g *fakeGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	g.calls++
	g.model = model
	g.prompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func storeErr() error {
	return apperrors.New(apperrors.LayerRepository, apperrors.TypeStoreUnavailable, "store down", errors.New("dial refused"))
}

func newTestService(store *fakeStore, gen *fakeGenerator) Service {
	return NewService(store, gen, "tinyllama", 10, zerolog.Nop())
}

func TestCompleteMintsConversationID(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeGenerator{reply: "hi there"}
	svc := newTestService(store, gen)

	first, err := svc.Complete(context.Background(), CompletionRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(first.ConversationID); err != nil {
		t.Fatalf("minted id is not a UUID: %q", first.ConversationID)
	}

	second, err := svc.Complete(context.Background(), CompletionRequest{Message: "hello again"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ConversationID == second.ConversationID {
		t.Fatalf("two minted ids should differ, both were %q", first.ConversationID)
	}
}

func TestCompleteEchoesSuppliedConversationID(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeGenerator{reply: "ok"}
	svc := newTestService(store, gen)

	id := uuid.NewString()
	result, err := svc.Complete(context.Background(), CompletionRequest{Message: "hello", ConversationID: id})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ConversationID != id {
		t.Fatalf("conversation id not echoed: got %q want %q", result.ConversationID, id)
	}
	if result.Model != "tinyllama" {
		t.Fatalf("unexpected model: %q", result.Model)
	}
}

func TestCompleteRejectsMalformedConversationID(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeGenerator{reply: "ok"}
	svc := newTestService(store, gen)

	_, err := svc.Complete(context.Background(), CompletionRequest{Message: "hello", ConversationID: "not-a-uuid"})
	if !apperrors.IsType(err, apperrors.TypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("generator should not be called for invalid input, got %d calls", gen.calls)
	}
}

func TestCompleteRejectsEmptyMessage(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeGenerator{reply: "ok"})

	for _, message := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Complete(context.Background(), CompletionRequest{Message: message}); !apperrors.IsType(err, apperrors.TypeValidation) {
			t.Fatalf("message %q: expected validation error, got %v", message, err)
		}
	}
}

func TestCompleteSucceedsWithStoreDown(t *testing.T) {
	store := &fakeStore{
		ensureErr: storeErr(),
		loadErr:   storeErr(),
		appendErr: storeErr(),
	}
	gen := &fakeGenerator{reply: "still here"}
	svc := newTestService(store, gen)

	result, err := svc.Complete(context.Background(), CompletionRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("store outage must not fail the request: %v", err)
	}
	if result.Response != "still here" {
		t.Fatalf("unexpected response: %q", result.Response)
	}
	// History degraded to empty: the prompt has no history lines.
	want := BuildPrompt(nil, "hello")
	if gen.prompt != want {
		t.Fatalf("prompt should use empty history:\ngot  %q\nwant %q", gen.prompt, want)
	}
}

func TestCompleteIncludesHistoryInPrompt(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "Hi"},
		{Role: RoleAssistant, Content: "Hello!"},
	}
	store := &fakeStore{history: history}
	gen := &fakeGenerator{reply: "fine, thanks"}
	svc := newTestService(store, gen)

	if _, err := svc.Complete(context.Background(), CompletionRequest{Message: "How are you?"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.loadedLimit != 10 {
		t.Fatalf("history window not applied: got limit %d", store.loadedLimit)
	}
	if gen.prompt != BuildPrompt(history, "How are you?") {
		t.Fatalf("prompt does not include history: %q", gen.prompt)
	}
	if gen.model != "tinyllama" {
		t.Fatalf("unexpected model: %q", gen.model)
	}
}

func TestCompleteBackendFailurePersistsNothing(t *testing.T) {
	backendErr := apperrors.New(apperrors.LayerInfrastructure, apperrors.TypeBackendError, "inference backend returned 500", nil)
	store := &fakeStore{}
	gen := &fakeGenerator{err: backendErr}
	svc := newTestService(store, gen)

	_, err := svc.Complete(context.Background(), CompletionRequest{Message: "hello"})
	if !apperrors.IsType(err, apperrors.TypeBackendError) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if len(store.appended) != 0 {
		t.Fatalf("no turns may be persisted for a failed exchange, got %d", len(store.appended))
	}
}

func TestCompleteBackendUnavailable(t *testing.T) {
	unavailable := apperrors.New(apperrors.LayerInfrastructure, apperrors.TypeBackendUnavailable, "inference backend unreachable", errors.New("connection refused"))
	svc := newTestService(&fakeStore{}, &fakeGenerator{err: unavailable})

	_, err := svc.Complete(context.Background(), CompletionRequest{Message: "hello"})
	if !apperrors.IsType(err, apperrors.TypeBackendUnavailable) {
		t.Fatalf("expected backend unavailable, got %v", err)
	}
}

func TestCompletePersistsUserThenAssistant(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeGenerator{reply: "hello back"}
	svc := newTestService(store, gen)

	result, err := svc.Complete(context.Background(), CompletionRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.appended) != 2 {
		t.Fatalf("expected 2 persisted turns, got %d", len(store.appended))
	}
	if store.appended[0].role != RoleUser || store.appended[0].content != "hello" {
		t.Fatalf("first persisted turn should be the user turn: %+v", store.appended[0])
	}
	if store.appended[1].role != RoleAssistant || store.appended[1].content != "hello back" {
		t.Fatalf("second persisted turn should be the assistant turn: %+v", store.appended[1])
	}
	for _, turn := range store.appended {
		if turn.conversationID != result.ConversationID {
			t.Fatalf("turn persisted under wrong conversation: %q", turn.conversationID)
		}
	}
}

func TestHistoryRejectsMalformedID(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeGenerator{})

	_, err := svc.History(context.Background(), "nope")
	if !apperrors.IsType(err, apperrors.TypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHistorySurfacesStoreFailure(t *testing.T) {
	store := &fakeStore{listErr: storeErr()}
	svc := newTestService(store, &fakeGenerator{})

	_, err := svc.History(context.Background(), uuid.NewString())
	if !apperrors.IsType(err, apperrors.TypeStoreUnavailable) {
		t.Fatalf("history fetch must fail loudly when the store is down, got %v", err)
	}
}

func TestHistoryReturnsTurnsInOrder(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
		{Role: RoleUser, Content: "how are you"},
	}
	store := &fakeStore{history: history}
	svc := newTestService(store, &fakeGenerator{})

	turns, err := svc.History(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	var contents []string
	for _, turn := range turns {
		contents = append(contents, turn.Content)
	}
	if got := strings.Join(contents, "|"); got != "hi|hello|how are you" {
		t.Fatalf("turns out of order: %s", got)
	}
}
