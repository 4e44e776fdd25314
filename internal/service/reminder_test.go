package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ssteja698/colony-events/internal/model"
)

type memScheduler struct {
	reminders   []*model.Reminder
	scheduleErr error
	listErr     error
}

func (s *memScheduler) ScheduleAt(ctx context.Context, reminder *model.Reminder) error {
	if s.scheduleErr != nil {
		return s.scheduleErr
	}
	reminder.ID = "reminder:" + time.Now().Format("150405.000000000")
	s.reminders = append(s.reminders, reminder)
	return nil
}

func (s *memScheduler) ListScheduled(ctx context.Context, userID string) ([]*model.Reminder, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var result []*model.Reminder
	for _, reminder := range s.reminders {
		if reminder.UserID == userID && reminder.Status == model.ReminderStatusPending {
			result = append(result, reminder)
		}
	}
	return result, nil
}

type mockDueRepo struct {
	due     []*model.Reminder
	marked  []string
	listErr error
}

func (m *mockDueRepo) ListDue(ctx context.Context, asOf time.Time) ([]*model.Reminder, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.due, nil
}

func (m *mockDueRepo) MarkSent(ctx context.Context, ids []string) error {
	m.marked = append(m.marked, ids...)
	return nil
}

func setupReminders(t *testing.T) (*ReminderService, *memScheduler, *mockDueRepo, *mockTokenRepo, *captureGateway) {
	t.Helper()

	scheduler := &memScheduler{}
	dueRepo := &mockDueRepo{}
	tokenRepo := &mockTokenRepo{}
	gateway := &captureGateway{}
	svc := NewReminderService(ReminderServiceConfig{
		Scheduler: scheduler,
		DueRepo:   dueRepo,
		TokenRepo: tokenRepo,
		Gateway:   gateway,
	})
	return svc, scheduler, dueRepo, tokenRepo, gateway
}

func TestReminderService_Schedule_DefaultLead(t *testing.T) {
	svc, _, _, _, _ := setupReminders(t)

	start := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)
	event := &model.Event{ID: "event:1", Name: "Board Games", Description: "Bring snacks", StartTime: start}

	reminder, err := svc.Schedule(context.Background(), "alice", event, 0)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	want := start.Add(-time.Duration(model.DefaultReminderLeadMinutes) * time.Minute)
	if !reminder.TriggerAt.Equal(want) {
		t.Errorf("expected trigger %v, got %v", want, reminder.TriggerAt)
	}
	if reminder.Title != "Board Games" || reminder.Body != "Bring snacks" {
		t.Errorf("unexpected reminder content %+v", reminder)
	}
	if reminder.Status != model.ReminderStatusPending {
		t.Errorf("expected pending status, got %s", reminder.Status)
	}
}

func TestReminderService_Schedule_CustomLead(t *testing.T) {
	svc, _, _, _, _ := setupReminders(t)

	start := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)
	reminder, err := svc.Schedule(context.Background(), "alice", &model.Event{ID: "event:1", StartTime: start}, 30)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if !reminder.TriggerAt.Equal(start.Add(-30 * time.Minute)) {
		t.Errorf("expected trigger 30m before start, got %v", reminder.TriggerAt)
	}
}

func TestReminderService_Schedule_StacksDuplicates(t *testing.T) {
	svc, scheduler, _, _, _ := setupReminders(t)

	event := &model.Event{ID: "event:1", StartTime: time.Now().Add(time.Hour)}
	ctx := context.Background()

	if _, err := svc.Schedule(ctx, "alice", event, 0); err != nil {
		t.Fatalf("first Schedule failed: %v", err)
	}
	if _, err := svc.Schedule(ctx, "alice", event, 0); err != nil {
		t.Fatalf("second Schedule failed: %v", err)
	}
	if len(scheduler.reminders) != 2 {
		t.Errorf("expected duplicate reminders to stack, got %d", len(scheduler.reminders))
	}
}

func TestReminderService_IsScheduled(t *testing.T) {
	svc, scheduler, _, _, _ := setupReminders(t)
	ctx := context.Background()

	scheduler.reminders = []*model.Reminder{
		{UserID: "alice", EventID: "event:1", Status: model.ReminderStatusPending},
		{UserID: "alice", EventID: "event:2", Status: model.ReminderStatusSent},
	}

	if !svc.IsScheduled(ctx, "alice", "event:1") {
		t.Error("expected pending reminder reported as scheduled")
	}
	if svc.IsScheduled(ctx, "alice", "event:2") {
		t.Error("expected sent reminder not reported as scheduled")
	}
	if svc.IsScheduled(ctx, "bob", "event:1") {
		t.Error("expected other user's reminder not visible")
	}
}

func TestReminderService_IsScheduled_FalseOnError(t *testing.T) {
	svc, scheduler, _, _, _ := setupReminders(t)
	scheduler.listErr = errors.New("store down")

	if svc.IsScheduled(context.Background(), "alice", "event:1") {
		t.Error("expected false when the scheduler query fails")
	}
}

func TestReminderService_DispatchDue(t *testing.T) {
	svc, _, dueRepo, tokenRepo, gateway := setupReminders(t)

	tokenRepo.tokens = []*model.PushToken{{UserID: "alice", Token: "t-alice"}}
	dueRepo.due = []*model.Reminder{
		{ID: "reminder:1", UserID: "alice", EventID: "event:1", Title: "Board Games"},
		{ID: "reminder:2", UserID: "bob", EventID: "event:2", Title: "Hiking"},
	}

	if err := svc.DispatchDue(context.Background(), time.Now()); err != nil {
		t.Fatalf("DispatchDue failed: %v", err)
	}

	// Only alice has tokens, so only her reminder reaches the gateway,
	// but both are marked sent.
	if len(gateway.batches) != 1 {
		t.Fatalf("expected 1 gateway batch, got %d", len(gateway.batches))
	}
	if gateway.batches[0][0].To != "t-alice" || gateway.batches[0][0].Title != "Board Games" {
		t.Errorf("unexpected message %+v", gateway.batches[0][0])
	}
	if len(dueRepo.marked) != 2 {
		t.Errorf("expected both reminders marked sent, got %v", dueRepo.marked)
	}
}

func TestReminderService_DispatchDue_GatewayFailureStillMarksSent(t *testing.T) {
	svc, _, dueRepo, tokenRepo, gateway := setupReminders(t)

	tokenRepo.tokens = []*model.PushToken{{UserID: "alice", Token: "t-alice"}}
	dueRepo.due = []*model.Reminder{{ID: "reminder:1", UserID: "alice", EventID: "event:1"}}
	gateway.err = errors.New("gateway down")

	if err := svc.DispatchDue(context.Background(), time.Now()); err != nil {
		t.Fatalf("DispatchDue failed: %v", err)
	}
	if len(dueRepo.marked) != 1 || dueRepo.marked[0] != "reminder:1" {
		t.Errorf("expected failed reminder still marked sent, got %v", dueRepo.marked)
	}
}

func TestStoreScheduler_RoundTrip(t *testing.T) {
	repo := &memReminderStore{}
	scheduler := NewStoreScheduler(repo)
	ctx := context.Background()

	reminder := &model.Reminder{UserID: "alice", EventID: "event:1", Status: model.ReminderStatusPending}
	if err := scheduler.ScheduleAt(ctx, reminder); err != nil {
		t.Fatalf("ScheduleAt failed: %v", err)
	}

	pending, err := scheduler.ListScheduled(ctx, "alice")
	if err != nil {
		t.Fatalf("ListScheduled failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventID != "event:1" {
		t.Errorf("unexpected pending reminders %v", pending)
	}
}

type memReminderStore struct {
	reminders []*model.Reminder
}

func (m *memReminderStore) Create(ctx context.Context, reminder *model.Reminder) error {
	m.reminders = append(m.reminders, reminder)
	return nil
}

func (m *memReminderStore) ListPendingByUser(ctx context.Context, userID string) ([]*model.Reminder, error) {
	var result []*model.Reminder
	for _, reminder := range m.reminders {
		if reminder.UserID == userID && reminder.Status == model.ReminderStatusPending {
			result = append(result, reminder)
		}
	}
	return result, nil
}
