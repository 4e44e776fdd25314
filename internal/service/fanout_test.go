package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ssteja698/colony-events/internal/model"
)

type captureGateway struct {
	batches [][]Message
	err     error
}

func (g *captureGateway) Send(ctx context.Context, messages []Message) error {
	g.batches = append(g.batches, messages)
	return g.err
}

type mockTokenRepo struct {
	tokens   []*model.PushToken
	listErr  error
	listed   int
	byUserCt int
}

func (m *mockTokenRepo) ListAll(ctx context.Context) ([]*model.PushToken, error) {
	m.listed++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.tokens, nil
}

func (m *mockTokenRepo) ListByUser(ctx context.Context, userID string) ([]*model.PushToken, error) {
	m.byUserCt++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*model.PushToken
	for _, token := range m.tokens {
		if token.UserID == userID {
			result = append(result, token)
		}
	}
	return result, nil
}

type mockUpcomingRepo struct {
	events  []*model.Event
	gotFrom time.Time
	gotTo   time.Time
	err     error
}

func (m *mockUpcomingRepo) ListStartingBetween(ctx context.Context, from, to time.Time) ([]*model.Event, error) {
	m.gotFrom, m.gotTo = from, to
	if m.err != nil {
		return nil, m.err
	}
	return m.events, nil
}

func setupFanout(t *testing.T) (*FanoutService, *mockTokenRepo, *mockUpcomingRepo, *captureGateway) {
	t.Helper()

	tokenRepo := &mockTokenRepo{}
	eventRepo := &mockUpcomingRepo{}
	gateway := &captureGateway{}
	svc := NewFanoutService(FanoutServiceConfig{
		TokenRepo: tokenRepo,
		EventRepo: eventRepo,
		Gateway:   gateway,
	})
	return svc, tokenRepo, eventRepo, gateway
}

func TestFanoutService_OnEventCreated(t *testing.T) {
	svc, tokenRepo, _, gateway := setupFanout(t)

	tokenRepo.tokens = []*model.PushToken{
		{UserID: "alice", Token: "ExponentPushToken[a]"},
		{UserID: "bob", Token: "ExponentPushToken[b]"},
	}

	err := svc.OnEventCreated(context.Background(), &model.Event{
		ID:          "event:1",
		Name:        "Board Games",
		Description: "Bring snacks",
	})
	if err != nil {
		t.Fatalf("OnEventCreated failed: %v", err)
	}

	if len(gateway.batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(gateway.batches))
	}
	batch := gateway.batches[0]
	if len(batch) != 2 {
		t.Fatalf("expected one message per token, got %d", len(batch))
	}
	msg := batch[0]
	if msg.Title != "Board Games" || msg.Body != "Bring snacks" {
		t.Errorf("unexpected message %+v", msg)
	}
	if msg.Sound != "default" {
		t.Errorf("expected default sound, got %q", msg.Sound)
	}
	if msg.Data["id"] != "event:1" {
		t.Errorf("expected event id in data payload, got %v", msg.Data)
	}
}

func TestFanoutService_OnEventCreated_FallbackBody(t *testing.T) {
	svc, tokenRepo, _, gateway := setupFanout(t)
	tokenRepo.tokens = []*model.PushToken{{Token: "t1"}}

	err := svc.OnEventCreated(context.Background(), &model.Event{ID: "event:1", Name: "Quiet"})
	if err != nil {
		t.Fatalf("OnEventCreated failed: %v", err)
	}
	if gateway.batches[0][0].Body != FallbackBody {
		t.Errorf("expected fallback body, got %q", gateway.batches[0][0].Body)
	}
}

func TestFanoutService_OnEventCreated_TruncatesBody(t *testing.T) {
	svc, tokenRepo, _, gateway := setupFanout(t)
	tokenRepo.tokens = []*model.PushToken{{Token: "t1"}}

	long := strings.Repeat("x", 200)
	err := svc.OnEventCreated(context.Background(), &model.Event{
		ID:          "event:1",
		Name:        "Long",
		Description: long,
	})
	if err != nil {
		t.Fatalf("OnEventCreated failed: %v", err)
	}
	body := gateway.batches[0][0].Body
	if len([]rune(body)) != PushBodyLimit {
		t.Errorf("expected body cut to %d runes, got %d", PushBodyLimit, len([]rune(body)))
	}
}

func TestFanoutService_OnEventCreated_NoTokens(t *testing.T) {
	svc, _, _, gateway := setupFanout(t)

	err := svc.OnEventCreated(context.Background(), &model.Event{ID: "event:1", Name: "Nobody"})
	if err != nil {
		t.Fatalf("OnEventCreated failed: %v", err)
	}
	if len(gateway.batches) != 0 {
		t.Errorf("expected no gateway call without tokens, got %d", len(gateway.batches))
	}
}

func TestFanoutService_OnEventCreated_GatewayFailureSwallowed(t *testing.T) {
	svc, tokenRepo, _, gateway := setupFanout(t)
	tokenRepo.tokens = []*model.PushToken{{Token: "t1"}}
	gateway.err = errors.New("gateway down")

	if err := svc.OnEventCreated(context.Background(), &model.Event{ID: "event:1", Name: "X"}); err != nil {
		t.Errorf("expected gateway failure swallowed, got %v", err)
	}
}

func TestFanoutService_RemindUpcoming_Window(t *testing.T) {
	svc, tokenRepo, eventRepo, gateway := setupFanout(t)

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	tokenRepo.tokens = []*model.PushToken{{Token: "t1"}}
	eventRepo.events = []*model.Event{
		{ID: "event:1", Name: "Soon", StartTime: now.Add(5 * time.Minute)},
	}

	if err := svc.RemindUpcoming(context.Background(), now); err != nil {
		t.Fatalf("RemindUpcoming failed: %v", err)
	}

	if !eventRepo.gotFrom.Equal(now) || !eventRepo.gotTo.Equal(now.Add(UpcomingWindow)) {
		t.Errorf("expected window [%v, %v), got [%v, %v)", now, now.Add(UpcomingWindow), eventRepo.gotFrom, eventRepo.gotTo)
	}
	if len(gateway.batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(gateway.batches))
	}
	// Title is a fixed phrase regardless of the actual distance to start.
	if gateway.batches[0][0].Title != "Soon in 15 min" {
		t.Errorf("unexpected title %q", gateway.batches[0][0].Title)
	}
}

func TestFanoutService_RemindUpcoming_NoEvents(t *testing.T) {
	svc, tokenRepo, _, gateway := setupFanout(t)
	tokenRepo.tokens = []*model.PushToken{{Token: "t1"}}

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	if err := svc.RemindUpcoming(context.Background(), now); err != nil {
		t.Fatalf("RemindUpcoming failed: %v", err)
	}
	if tokenRepo.listed != 0 {
		t.Errorf("expected no token listing without events, got %d", tokenRepo.listed)
	}
	if len(gateway.batches) != 0 {
		t.Errorf("expected no gateway call without events, got %d", len(gateway.batches))
	}
}

func TestTruncateBody(t *testing.T) {
	short := "hello"
	if got := TruncateBody(short); got != short {
		t.Errorf("expected short body untouched, got %q", got)
	}

	// Multi-byte runes count as one character each.
	long := strings.Repeat("ü", PushBodyLimit+10)
	got := TruncateBody(long)
	if len([]rune(got)) != PushBodyLimit {
		t.Errorf("expected %d runes, got %d", PushBodyLimit, len([]rune(got)))
	}
}
