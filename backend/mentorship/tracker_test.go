package mentorship

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForStatus(t *testing.T, tracker *Tracker, userID uint, id, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ticket, ok := tracker.Get(userID, id); ok && ticket.Status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("ticket never reached status %q", want)
}

func TestSubmitCompletesAfterDelay(t *testing.T) {
	tracker := NewTracker(10 * time.Millisecond)

	ticket := tracker.Submit(1, "growth", "How do I price?")
	require.NotEmpty(t, ticket.ID)
	assert.Equal(t, StatusPending, ticket.Status)

	waitForStatus(t, tracker, 1, ticket.ID, StatusSent)
}

func TestCancelPreventsCompletion(t *testing.T) {
	tracker := NewTracker(50 * time.Millisecond)

	ticket := tracker.Submit(1, "sales", "")
	require.True(t, tracker.Cancel(1, ticket.ID))

	cancelled, ok := tracker.Get(1, ticket.ID)
	require.True(t, ok)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	// The delayed completion must never overwrite the cancellation.
	time.Sleep(100 * time.Millisecond)
	after, ok := tracker.Get(1, ticket.ID)
	require.True(t, ok)
	assert.Equal(t, StatusCancelled, after.Status)
}

func TestCancelNonPending(t *testing.T) {
	tracker := NewTracker(time.Millisecond)

	ticket := tracker.Submit(1, "topic", "")
	waitForStatus(t, tracker, 1, ticket.ID, StatusSent)
	assert.False(t, tracker.Cancel(1, ticket.ID))
}

func TestTicketsAreOwned(t *testing.T) {
	tracker := NewTracker(time.Hour)

	ticket := tracker.Submit(1, "topic", "")
	_, ok := tracker.Get(2, ticket.ID)
	assert.False(t, ok)
	assert.False(t, tracker.Cancel(2, ticket.ID))
	assert.True(t, tracker.Cancel(1, ticket.ID))
}

// Snapshots returned by Submit and Get must stay marshalable while the
// completion goroutine flips the stored ticket's status.
func TestSnapshotsSafeDuringCompletion(t *testing.T) {
	tracker := NewTracker(time.Millisecond)

	ticket := tracker.Submit(1, "topic", "message")
	_, err := json.Marshal(ticket)
	require.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snapshot, ok := tracker.Get(1, ticket.ID)
		require.True(t, ok)
		_, err := json.Marshal(snapshot)
		require.NoError(t, err)
		if snapshot.Status == StatusSent {
			return
		}
	}
	t.Fatal("ticket never completed")
}

// A snapshot is a copy; later transitions must not reach into it.
func TestSnapshotIsDetached(t *testing.T) {
	tracker := NewTracker(time.Hour)

	ticket := tracker.Submit(1, "topic", "")
	require.True(t, tracker.Cancel(1, ticket.ID))
	assert.Equal(t, StatusPending, ticket.Status)

	current, ok := tracker.Get(1, ticket.ID)
	require.True(t, ok)
	assert.Equal(t, StatusCancelled, current.Status)
}
