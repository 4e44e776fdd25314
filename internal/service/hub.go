package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ssteja698/colony-events/internal/database"
)

// SnapshotFetcher loads the full current result set for a topic.
type SnapshotFetcher func(ctx context.Context) (interface{}, error)

// SnapshotHub fans database change subscriptions out to stream
// consumers. One live query is held per topic; on every underlying
// change the topic's fetcher re-loads the full result set and the JSON
// snapshot is broadcast to every subscriber, matching the
// re-emit-everything semantics of the store's change feeds.
//
// Subscribers own their cancel: the returned stop function must be
// called before the consumer goes away. When the last subscriber of a
// topic stops, the live query is killed.
type SnapshotHub struct {
	db     database.Database
	logger *slog.Logger

	mu     sync.Mutex
	topics map[string]*hubTopic
}

type hubTopic struct {
	table string
	fetch SnapshotFetcher

	sub         *database.Subscription
	subscribers map[int]chan []byte
	nextID      int
}

// NewSnapshotHub creates a new snapshot hub
func NewSnapshotHub(db database.Database, logger *slog.Logger) *SnapshotHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotHub{
		db:     db,
		logger: logger,
		topics: make(map[string]*hubTopic),
	}
}

// Subscribe attaches to a topic backed by a table's live query. The
// first subscriber of a topic establishes the live query; later ones
// share it. The current snapshot is delivered first, then one snapshot
// per change. Slow consumers miss intermediate snapshots rather than
// blocking the feed.
func (h *SnapshotHub) Subscribe(ctx context.Context, topic, table string, fetch SnapshotFetcher) (<-chan []byte, func(), error) {
	h.mu.Lock()
	t, ok := h.topics[topic]
	if !ok {
		sub, err := h.db.Live(ctx, table)
		if err != nil {
			h.mu.Unlock()
			return nil, nil, err
		}
		t = &hubTopic{
			table:       table,
			fetch:       fetch,
			sub:         sub,
			subscribers: make(map[int]chan []byte),
		}
		h.topics[topic] = t
		go h.pump(topic, t)
	}

	id := t.nextID
	t.nextID++
	ch := make(chan []byte, 4)
	t.subscribers[id] = ch
	h.mu.Unlock()

	if snapshot, err := h.snapshot(ctx, t.fetch); err == nil {
		// pump closes subscriber channels under the lock when the live
		// feed dies; only send while this subscriber is still registered.
		h.mu.Lock()
		if cur, ok := h.topics[topic]; ok && cur == t {
			if _, live := t.subscribers[id]; live {
				select {
				case ch <- snapshot:
				default:
				}
			}
		}
		h.mu.Unlock()
	} else {
		h.logger.Warn("initial snapshot failed", "topic", topic, "error", err)
	}

	stop := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		t, ok := h.topics[topic]
		if !ok {
			return
		}
		if _, ok := t.subscribers[id]; !ok {
			return
		}
		delete(t.subscribers, id)
		close(ch)
		if len(t.subscribers) == 0 {
			t.sub.Close()
			delete(h.topics, topic)
		}
	}

	return ch, stop, nil
}

// pump forwards one snapshot per change to every subscriber of a topic
func (h *SnapshotHub) pump(topic string, t *hubTopic) {
	for change := range t.sub.Changes() {
		if change.Err != nil {
			h.logger.Warn("live subscription failed", "topic", topic, "error", change.Err)
			continue
		}

		snapshot, err := h.snapshot(context.Background(), t.fetch)
		if err != nil {
			h.logger.Warn("snapshot refresh failed", "topic", topic, "error", err)
			continue
		}

		h.mu.Lock()
		for _, ch := range t.subscribers {
			select {
			case ch <- snapshot:
			default:
			}
		}
		h.mu.Unlock()
	}

	// The live query closed underneath us; drop remaining subscribers so
	// consumers can re-establish.
	h.mu.Lock()
	if cur, ok := h.topics[topic]; ok && cur == t {
		for _, ch := range t.subscribers {
			close(ch)
		}
		delete(h.topics, topic)
	}
	h.mu.Unlock()
}

func (h *SnapshotHub) snapshot(ctx context.Context, fetch SnapshotFetcher) ([]byte, error) {
	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(data)
}
