package core

import (
	"context"
	"time"
)

// tokenRefresher schedules proactive token refreshes for one App. Single
// slot: every schedule call cancels the previous pending task first, so at
// most one refresh is ever outstanding. Not thread safe on its own; the
// owning App invokes it while holding its instance lock.
type tokenRefresher struct {
	app    *App
	cancel func()
}

func newTokenRefresher(app *App) *tokenRefresher {
	return &tokenRefresher{app: app}
}

// scheduleRefresh arms a forced refresh to run after delay. The fired task
// re-enters App.Token(forceRefresh=true) off the caller's path; completion
// does not re-arm; the refresh itself schedules the next one when it
// computes a positive delay.
func (r *tokenRefresher) scheduleRefresh(delay time.Duration) {
	if r == nil || r.app == nil {
		return
	}
	r.cancelPrevious()

	app := r.app
	cancel, err := app.schedule(func() {
		app.submit(func() {
			if _, tokenErr := app.Token(context.Background(), true); tokenErr != nil {
				app.logError("background token refresh failed, will retry on next access", map[string]any{
					"app":   app.name,
					"error": tokenErr.Error(),
				})
			}
		})
	}, delay)
	if err != nil {
		// Delayed scheduling is unsupported in this runtime. Proactive
		// refresh is best effort; reactive refresh on the next read still
		// holds.
		app.logWarn("proactive refresh scheduling unavailable", map[string]any{
			"app":   app.name,
			"error": err.Error(),
		})
		return
	}
	r.cancel = cancel
}

func (r *tokenRefresher) cancelPrevious() {
	if r == nil {
		return
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// cleanup cancels any pending task. Terminal: called once, at App deletion.
func (r *tokenRefresher) cleanup() {
	r.cancelPrevious()
}
