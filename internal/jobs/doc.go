// Package jobs implements background processing for Colony Events.
//
// Two kinds of triggers exist:
//
//   - EventWatcher holds a live query on the event table and invokes the
//     push fan-out for every created event, replacing the store-side
//     create trigger of the original deployment.
//   - Fixed-interval sweeps (the upcoming-events reminder and due
//     reminder dispatch) are driven by the cron scheduler wired in
//     cmd/server; the jobs here only expose the Run entry points.
//
// Jobs log errors and keep running; a failed invocation is not retried
// before its next trigger, and overlapping sweep runs are not prevented.
package jobs
