package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/minhvu/activity-notify/internal/model"
	"github.com/minhvu/activity-notify/internal/notify"
)

// RefreshResultMsg is a tea.Msg sent when a notification evaluation
// completes.
type RefreshResultMsg struct {
	Notifications []model.Notification
	UnreadCount   int
	NewCount      int
	At            time.Time
}

// refreshTimeout is the maximum time allowed for a single evaluation,
// covering all of its underlying fetches.
const refreshTimeout = 30 * time.Second

// Refresher periodically re-evaluates notifications in the background
// and feeds results to the Bubble Tea runtime. Evaluations never fail
// outright; a broken endpoint just shortens the list.
type Refresher struct {
	agg       *notify.Aggregator
	interval  time.Duration
	resultCh  chan RefreshResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
}

// New creates a Refresher over the given aggregator. interval is how
// often to re-evaluate; values <= 0 default to 60 seconds.
func New(agg *notify.Aggregator, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Refresher{
		agg:       agg,
		interval:  interval,
		resultCh:  make(chan RefreshResultMsg, 16),
		triggerCh: make(chan struct{}, 16),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the background loop and returns a command that waits
// for the first result.
func (r *Refresher) Start() tea.Cmd {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	go r.loop()

	return r.waitForResult()
}

// Stop halts the background loop.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	close(r.stopCh)
	r.running = false
}

// Refresh triggers an immediate re-evaluation.
func (r *Refresher) Refresh() tea.Cmd {
	select {
	case r.triggerCh <- struct{}{}:
	default:
		// Channel full; a refresh is already queued.
	}
	return nil
}

// loop evaluates immediately, then on every tick or manual trigger.
func (r *Refresher) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.evaluate()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.evaluate()
		case <-r.triggerCh:
			r.evaluate()
		}
	}
}

// evaluate runs one aggregation pass and sends the result without
// blocking.
func (r *Refresher) evaluate() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	notifications := r.agg.Notifications(ctx)

	unread := 0
	fresh := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
		if n.IsNew {
			fresh++
		}
	}

	msg := RefreshResultMsg{
		Notifications: notifications,
		UnreadCount:   unread,
		NewCount:      fresh,
		At:            time.Now(),
	}

	select {
	case r.resultCh <- msg:
	default:
		// Drop if the channel is full to avoid blocking the loop.
	}
}

// waitForResult returns a command that waits for the next result.
func (r *Refresher) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-r.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a command that waits for the next refresh
// result. Call after processing a RefreshResultMsg to keep listening.
func (r *Refresher) WaitForNextResult() tea.Cmd {
	return r.waitForResult()
}
