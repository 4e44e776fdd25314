package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ssteja698/colony-events/internal/database"
	"github.com/ssteja698/colony-events/internal/model"
	"github.com/ssteja698/colony-events/internal/repository"
	"github.com/ssteja698/colony-events/internal/service"
)

// EventFanout is the fan-out entry point the watcher invokes
type EventFanout interface {
	OnEventCreated(ctx context.Context, event *model.Event) error
}

// EventWatcher subscribes to event creations through a live query and
// triggers the push fan-out for each one. If the subscription drops it
// is re-established after a backoff; notifications arriving while
// disconnected are lost, same as the original create trigger.
type EventWatcher struct {
	db      database.Database
	fanout  EventFanout
	logger  *slog.Logger
	backoff time.Duration

	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

// EventWatcherConfig holds configuration for the event watcher
type EventWatcherConfig struct {
	DB      database.Database
	Fanout  EventFanout
	Logger  *slog.Logger
	Backoff time.Duration // reconnect delay, defaults to 5s
}

// NewEventWatcher creates a new event watcher
func NewEventWatcher(cfg EventWatcherConfig) *EventWatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	backoff := cfg.Backoff
	if backoff == 0 {
		backoff = 5 * time.Second
	}
	return &EventWatcher{
		db:      cfg.DB,
		fanout:  cfg.Fanout,
		logger:  logger,
		backoff: backoff,
		stopCh:  make(chan struct{}),
	}
}

// Start begins watching for created events
func (w *EventWatcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run()
	w.logger.Info("event watcher started")
}

// Stop gracefully stops the watcher
func (w *EventWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	w.wg.Wait()
	w.logger.Info("event watcher stopped")
}

func (w *EventWatcher) run() {
	defer w.wg.Done()

	for {
		sub, err := w.db.Live(context.Background(), "event")
		if err != nil {
			w.logger.Warn("event live query failed", "error", err)
			if !w.sleep() {
				return
			}
			continue
		}

		if !w.consume(sub) {
			sub.Close()
			return
		}

		// Subscription ended; the previous one is already torn down, so
		// re-establishing cannot leak it.
		sub.Close()
		if !w.sleep() {
			return
		}
	}
}

// consume drains one subscription. Returns false when the watcher is
// stopping.
func (w *EventWatcher) consume(sub *database.Subscription) bool {
	for {
		select {
		case <-w.stopCh:
			return false
		case change, ok := <-sub.Changes():
			if !ok {
				return true
			}
			if change.Err != nil {
				w.logger.Warn("event subscription error", "error", change.Err)
				continue
			}
			if change.Action != database.ActionCreate {
				continue
			}

			event, err := repository.DecodeEvent(change.Record)
			if err != nil {
				w.logger.Warn("decoding created event failed", "error", err)
				continue
			}
			if err := w.fanout.OnEventCreated(context.Background(), event); err != nil {
				w.logger.Warn("event-created fan-out failed", "event_id", event.ID, "error", err)
			}
		}
	}
}

// sleep waits the reconnect backoff. Returns false when stopping.
func (w *EventWatcher) sleep() bool {
	select {
	case <-w.stopCh:
		return false
	case <-time.After(w.backoff):
		return true
	}
}

// UpcomingSweep is the fixed-interval job notifying about events
// starting soon. Wired to the cron scheduler at a 5 minute cadence; runs
// have no overlap protection.
type UpcomingSweep struct {
	fanout *service.FanoutService
	logger *slog.Logger
}

// NewUpcomingSweep creates the upcoming-events sweep job
func NewUpcomingSweep(fanout *service.FanoutService, logger *slog.Logger) *UpcomingSweep {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpcomingSweep{fanout: fanout, logger: logger}
}

// Run executes one sweep
func (j *UpcomingSweep) Run() {
	if err := j.fanout.RemindUpcoming(context.Background(), time.Now()); err != nil {
		j.logger.Error("upcoming sweep failed", "error", err)
	}
}

// ReminderDispatch is the fixed-interval job delivering due reminders.
type ReminderDispatch struct {
	reminders *service.ReminderService
	logger    *slog.Logger
}

// NewReminderDispatch creates the due-reminder dispatch job
func NewReminderDispatch(reminders *service.ReminderService, logger *slog.Logger) *ReminderDispatch {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReminderDispatch{reminders: reminders, logger: logger}
}

// Run executes one dispatch pass
func (j *ReminderDispatch) Run() {
	if err := j.reminders.DispatchDue(context.Background(), time.Now()); err != nil {
		j.logger.Error("reminder dispatch failed", "error", err)
	}
}
