// Package mentorship replaces the SPA's fire-and-forget mentorship request
// stub with cancellable tickets: submitting issues a handle, the request
// completes after a delay, and cancelling the handle before then prevents
// the completion from ever landing.
package mentorship

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusCancelled = "cancelled"
)

type Ticket struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"-"`
	Topic     string    `json:"topic"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`

	cancel context.CancelFunc
}

// Tracker owns all tickets. Completed and cancelled tickets stay in the map
// so status queries keep answering after the fact.
type Tracker struct {
	mu      sync.Mutex
	delay   time.Duration
	tickets map[string]*Ticket
}

func NewTracker(delay time.Duration) *Tracker {
	return &Tracker{
		delay:   delay,
		tickets: make(map[string]*Ticket),
	}
}

// Submit registers a pending ticket and schedules its completion. The status
// update is guarded by the ticket's context, so a cancelled ticket never
// transitions to sent. The returned value is a snapshot; the live ticket
// stays inside the tracker where only the lock touches it.
func (t *Tracker) Submit(userID uint, topic, message string) Ticket {
	ctx, cancel := context.WithCancel(context.Background())
	ticket := &Ticket{
		ID:        uuid.NewString(),
		UserID:    userID,
		Topic:     topic,
		Message:   message,
		Status:    StatusPending,
		CreatedAt: time.Now(),
		cancel:    cancel,
	}

	t.mu.Lock()
	t.tickets[ticket.ID] = ticket
	snapshot := snapshotOf(ticket)
	t.mu.Unlock()

	go func() {
		timer := time.NewTimer(t.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		t.mu.Lock()
		defer t.mu.Unlock()
		// Re-check under the lock: Cancel may have won the race.
		if ticket.Status == StatusPending {
			ticket.Status = StatusSent
		}
	}()

	return snapshot
}

// Cancel aborts a pending ticket. Cancelling a completed or already
// cancelled ticket reports false.
func (t *Tracker) Cancel(userID uint, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	ticket, ok := t.tickets[id]
	if !ok || ticket.UserID != userID || ticket.Status != StatusPending {
		return false
	}
	ticket.Status = StatusCancelled
	ticket.cancel()
	return true
}

// Get returns a snapshot of the user's ticket by id. Snapshots are safe to
// marshal while the completion goroutine updates the stored ticket.
func (t *Tracker) Get(userID uint, id string) (Ticket, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ticket, ok := t.tickets[id]
	if !ok || ticket.UserID != userID {
		return Ticket{}, false
	}
	return snapshotOf(ticket), true
}

func snapshotOf(ticket *Ticket) Ticket {
	snapshot := *ticket
	snapshot.cancel = nil
	return snapshot
}
