package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssteja698/colony-events/internal/model"
	"github.com/ssteja698/colony-events/internal/service"
)

type stubEvents struct {
	createFn func(ctx context.Context, organizer *model.User, req *model.CreateEventRequest) (*model.Event, error)
	getFn    func(ctx context.Context, eventID string) (*model.Event, error)
	listFn   func(ctx context.Context, user *model.User) ([]*model.Event, error)
	feedFn   func(ctx context.Context, user *model.User) ([]*model.Event, error)
}

func (s *stubEvents) CreateEvent(ctx context.Context, organizer *model.User, req *model.CreateEventRequest) (*model.Event, error) {
	return s.createFn(ctx, organizer, req)
}

func (s *stubEvents) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	return s.getFn(ctx, eventID)
}

func (s *stubEvents) ListVisible(ctx context.Context, user *model.User) ([]*model.Event, error) {
	return s.listFn(ctx, user)
}

func (s *stubEvents) InterestFeed(ctx context.Context, user *model.User) ([]*model.Event, error) {
	return s.feedFn(ctx, user)
}

type stubUsers struct {
	ensureFn func(ctx context.Context, userID string, req *model.EnsureUserRequest) (*model.User, error)
	getFn    func(ctx context.Context, userID string) (*model.User, error)
}

func (s *stubUsers) EnsureUser(ctx context.Context, userID string, req *model.EnsureUserRequest) (*model.User, error) {
	return s.ensureFn(ctx, userID, req)
}

func (s *stubUsers) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.getFn(ctx, userID)
}

type stubInterests struct {
	added   [][2]string
	removed [][2]string
}

func (s *stubInterests) AddInterest(ctx context.Context, userID, eventID string) error {
	s.added = append(s.added, [2]string{userID, eventID})
	return nil
}

func (s *stubInterests) RemoveInterest(ctx context.Context, userID, eventID string) error {
	s.removed = append(s.removed, [2]string{userID, eventID})
	return nil
}

func knownUser(id string) *stubUsers {
	return &stubUsers{
		getFn: func(ctx context.Context, userID string) (*model.User, error) {
			if userID != id {
				return nil, service.ErrUserNotFound
			}
			return &model.User{ID: id, Name: "Alice", Groups: []string{}, Interests: []string{}}, nil
		},
	}
}

func TestEventHandler_Create(t *testing.T) {
	events := &stubEvents{
		createFn: func(ctx context.Context, organizer *model.User, req *model.CreateEventRequest) (*model.Event, error) {
			assert.Equal(t, "alice", organizer.ID)
			return &model.Event{
				ID:            "event:1",
				Name:          req.Name,
				OrganizerID:   organizer.ID,
				OrganizerName: organizer.Name,
				GroupID:       model.PublicGroupID,
			}, nil
		},
	}
	h := NewEventHandler(events, knownUser("alice"), &stubInterests{})

	req := authedRequest(t, http.MethodPost, "/v1/events", "alice", model.CreateEventRequest{
		Name:      "Board Games",
		StartTime: time.Now().Add(24 * time.Hour),
	})
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data model.Event `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "event:1", resp.Data.ID)
	assert.Equal(t, "Alice", resp.Data.OrganizerName)
}

func TestEventHandler_Create_DuplicateName(t *testing.T) {
	events := &stubEvents{
		createFn: func(ctx context.Context, organizer *model.User, req *model.CreateEventRequest) (*model.Event, error) {
			return nil, service.ErrEventNameExists
		},
	}
	h := NewEventHandler(events, knownUser("alice"), &stubInterests{})

	req := authedRequest(t, http.MethodPost, "/v1/events", "alice", model.CreateEventRequest{
		Name:      "Board Games",
		StartTime: time.Now().Add(24 * time.Hour),
	})
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestEventHandler_Feed(t *testing.T) {
	events := &stubEvents{
		feedFn: func(ctx context.Context, user *model.User) ([]*model.Event, error) {
			return []*model.Event{{ID: "event:1", Name: "Hiking"}}, nil
		},
	}
	h := NewEventHandler(events, knownUser("alice"), &stubInterests{})

	req := authedRequest(t, http.MethodGet, "/v1/events/feed", "alice", nil)
	rec := httptest.NewRecorder()
	h.Feed(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []model.Event `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "event:1", resp.Data[0].ID)
}

func TestEventHandler_InterestToggle(t *testing.T) {
	interests := &stubInterests{}
	h := NewEventHandler(&stubEvents{}, knownUser("bob"), interests)

	req := authedRequest(t, http.MethodPut, "/v1/events/event:1/interest", "bob", nil)
	req.SetPathValue("eventId", "event:1")
	rec := httptest.NewRecorder()
	h.AddInterest(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = authedRequest(t, http.MethodDelete, "/v1/events/event:1/interest", "bob", nil)
	req.SetPathValue("eventId", "event:1")
	rec = httptest.NewRecorder()
	h.RemoveInterest(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, [][2]string{{"bob", "event:1"}}, interests.added)
	assert.Equal(t, [][2]string{{"bob", "event:1"}}, interests.removed)
}

func TestEventHandler_Get_MissingID(t *testing.T) {
	h := NewEventHandler(&stubEvents{}, knownUser("alice"), &stubInterests{})

	req := httptest.NewRequest(http.MethodGet, "/v1/events/", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
