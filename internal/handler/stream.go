package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ssteja698/colony-events/internal/middleware"
	"github.com/ssteja698/colony-events/internal/model"
	"github.com/ssteja698/colony-events/internal/service"
)

// SnapshotHub interface for the stream handler
type SnapshotHub interface {
	Subscribe(ctx context.Context, topic, table string, fetch service.SnapshotFetcher) (<-chan []byte, func(), error)
}

// StreamHandler serves server-sent-event change feeds. Each event on the
// wire carries the full current result set of the topic, re-emitted on
// every underlying change.
type StreamHandler struct {
	hub    SnapshotHub
	events EventService
	groups MembershipService
	users  UserService
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(hub SnapshotHub, events EventService, groups MembershipService, users UserService) *StreamHandler {
	return &StreamHandler{hub: hub, events: events, groups: groups, users: users}
}

// Stream handles GET /v1/stream/{topic} for topics "events", "groups",
// and "profile" (the caller's own user document).
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	topic := r.PathValue("topic")
	name, table, fetch, err := h.source(topic, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, model.NewInternalError("streaming not supported"))
		return
	}

	snapshots, stop, err := h.hub.Subscribe(ctx, name, table, fetch)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	defer stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-snapshots:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", snapshot); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// source resolves a topic name to its backing table and fetcher
func (h *StreamHandler) source(topic, userID string) (string, string, service.SnapshotFetcher, error) {
	switch topic {
	case "events":
		// Visibility depends on the caller's groups, so the topic is
		// per user even though the live query watches the same table.
		return "events/" + userID, "event", func(ctx context.Context) (interface{}, error) {
			user, err := h.users.GetUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			return h.events.ListVisible(ctx, user)
		}, nil
	case "groups":
		return "groups", "event_group", func(ctx context.Context) (interface{}, error) {
			return h.groups.ListGroups(ctx)
		}, nil
	case "profile":
		return "profile/" + userID, "user", func(ctx context.Context) (interface{}, error) {
			return h.users.GetUser(ctx, userID)
		}, nil
	default:
		return "", "", nil, service.ErrUnknownTopic
	}
}
