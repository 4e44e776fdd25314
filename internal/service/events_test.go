package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ssteja698/colony-events/internal/model"
)

func setupEvents(t *testing.T) (*EventService, *mockEventRepo, *mockUserRepo) {
	t.Helper()

	eventRepo := newMockEventRepo()
	userRepo := newMockUserRepo()
	svc := NewEventService(EventServiceConfig{
		EventRepo: eventRepo,
		UserRepo:  userRepo,
	})
	return svc, eventRepo, userRepo
}

func TestEventService_CreateEvent_Success(t *testing.T) {
	svc, _, _ := setupEvents(t)

	organizer := &model.User{ID: "alice", Name: "Alice"}
	start := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)

	event, err := svc.CreateEvent(context.Background(), organizer, &model.CreateEventRequest{
		Name:        "  Board Games  ",
		Description: "Bring snacks",
		StartTime:   start,
		OccursEvery: []int{2, 4},
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if event.Name != "Board Games" {
		t.Errorf("expected trimmed name, got %q", event.Name)
	}
	if event.OrganizerID != "alice" || event.OrganizerName != "Alice" {
		t.Errorf("expected organizer denormalized, got %s/%s", event.OrganizerID, event.OrganizerName)
	}
	if event.GroupID != model.PublicGroupID || event.GroupName != model.PublicGroupID {
		t.Errorf("expected new event public, got %s/%s", event.GroupID, event.GroupName)
	}
	if !event.StartTime.Equal(start) {
		t.Errorf("expected start %v, got %v", start, event.StartTime)
	}
}

func TestEventService_CreateEvent_DuplicateName(t *testing.T) {
	svc, eventRepo, _ := setupEvents(t)

	eventRepo.events["event:1"] = &model.Event{ID: "event:1", Name: "Board Games"}

	_, err := svc.CreateEvent(context.Background(), &model.User{ID: "alice"}, &model.CreateEventRequest{
		Name: "Board Games",
	})
	if !errors.Is(err, ErrEventNameExists) {
		t.Errorf("expected ErrEventNameExists, got %v", err)
	}
}

func TestEventService_GetEvent_NotFound(t *testing.T) {
	svc, _, _ := setupEvents(t)

	_, err := svc.GetEvent(context.Background(), "event:missing")
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventService_ListVisible_PassesUserGroups(t *testing.T) {
	svc, eventRepo, _ := setupEvents(t)

	user := &model.User{ID: "bob", Groups: []string{"event_group:g1", "event_group:g2"}}
	if _, err := svc.ListVisible(context.Background(), user); err != nil {
		t.Fatalf("ListVisible failed: %v", err)
	}
	if len(eventRepo.listVisibleGroups) != 2 {
		t.Errorf("expected the user's groups forwarded, got %v", eventRepo.listVisibleGroups)
	}
}

func TestEventService_InterestFeed_EmptyWithoutQuery(t *testing.T) {
	svc, eventRepo, _ := setupEvents(t)

	feed, err := svc.InterestFeed(context.Background(), &model.User{ID: "bob"})
	if err != nil {
		t.Fatalf("InterestFeed failed: %v", err)
	}
	if len(feed) != 0 {
		t.Errorf("expected empty feed, got %v", feed)
	}
	if eventRepo.listByIDsCalls != 0 {
		t.Errorf("expected no store query for an empty interest set, got %d", eventRepo.listByIDsCalls)
	}
}

func TestEventService_InterestFeed_ResolvesIDs(t *testing.T) {
	svc, eventRepo, _ := setupEvents(t)

	eventRepo.events["event:1"] = &model.Event{ID: "event:1", Name: "Hiking"}
	eventRepo.events["event:2"] = &model.Event{ID: "event:2", Name: "Climbing"}

	feed, err := svc.InterestFeed(context.Background(), &model.User{
		ID:        "bob",
		Interests: []string{"event:2", "event:missing"},
	})
	if err != nil {
		t.Fatalf("InterestFeed failed: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != "event:2" {
		t.Errorf("expected only the resolvable interest, got %v", feed)
	}
}

func TestUserService_EnsureUser(t *testing.T) {
	userRepo := newMockUserRepo()
	svc := NewUserService(UserServiceConfig{UserRepo: userRepo})

	user, err := svc.EnsureUser(context.Background(), "alice", &model.EnsureUserRequest{
		Name:  "Alice",
		Email: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if user.ID != "alice" || user.Name != "Alice" {
		t.Errorf("unexpected user %+v", user)
	}
	if user.Groups == nil || user.Interests == nil {
		t.Error("expected groups and interests initialized to empty sets")
	}
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	svc := NewUserService(UserServiceConfig{UserRepo: newMockUserRepo()})

	_, err := svc.GetUser(context.Background(), "missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
