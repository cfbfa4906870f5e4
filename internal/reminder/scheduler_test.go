package reminder

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lumabook/scheduling-backend/internal/notify"
	"github.com/lumabook/scheduling-backend/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReminderRepo struct {
	mu     sync.Mutex
	nextID int
	rows   []*Reminder
}

func (r *fakeReminderRepo) CreateBatch(_ context.Context, reminders []*Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rem := range reminders {
		r.nextID++
		rem.ID = fmt.Sprintf("rem-%d", r.nextID)
		r.rows = append(r.rows, rem)
	}
	return nil
}

func (r *fakeReminderRepo) CancelPendingByBooking(_ context.Context, bookingID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, rem := range r.rows {
		if rem.BookingID == bookingID && rem.Status == StatusPending {
			rem.Status = StatusCancelled
			n++
		}
	}
	return n, nil
}

func (r *fakeReminderRepo) ClaimDue(_ context.Context, now time.Time, limit int) ([]*Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []*Reminder
	for _, rem := range r.rows {
		if len(due) == limit {
			break
		}
		if rem.Status == StatusPending && !rem.FireAt.After(now) {
			rem.Status = StatusSent
			due = append(due, rem)
		}
	}
	return due, nil
}

func (r *fakeReminderRepo) pending(bookingID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, rem := range r.rows {
		if rem.BookingID == bookingID && rem.Status == StatusPending {
			n++
		}
	}
	return n
}

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (d *recordingDispatcher) SendConfirmation(_ context.Context, msg notify.Message) error {
	return d.append(msg)
}

func (d *recordingDispatcher) SendCancellation(_ context.Context, msg notify.Message) error {
	return d.append(msg)
}

func (d *recordingDispatcher) SendReminder(_ context.Context, msg notify.Message) error {
	return d.append(msg)
}

func (d *recordingDispatcher) append(msg notify.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, msg)
	return nil
}

func info(bookingID string, start time.Time) BookingInfo {
	return BookingInfo{
		BookingID:     bookingID,
		GuestName:     "Dana Guest",
		GuestEmail:    "dana@example.com",
		EventTypeName: "Intro Call",
		StartTime:     start,
		EndTime:       start.Add(30 * time.Minute),
		Timezone:      "UTC",
	}
}

func TestScheduleArmsOneReminderPerOffset(t *testing.T) {
	now := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	repo := &fakeReminderRepo{}
	s := NewPollingScheduler(repo, &recordingDispatcher{}, clock.Fixed{Instant: now}, zap.NewNop(), time.Minute)

	armed, err := s.Schedule(context.Background(), info("b-1", now.Add(48*time.Hour)), DefaultOffsets)
	require.NoError(t, err)
	assert.Equal(t, 2, armed)

	require.Len(t, repo.rows, 2)
	assert.Equal(t, now.Add(24*time.Hour), repo.rows[0].FireAt)
	assert.Equal(t, now.Add(47*time.Hour), repo.rows[1].FireAt)
	assert.Equal(t, StatusPending, repo.rows[0].Status)
}

func TestScheduleSkipsPastOffsets(t *testing.T) {
	now := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	repo := &fakeReminderRepo{}
	s := NewPollingScheduler(repo, &recordingDispatcher{}, clock.Fixed{Instant: now}, zap.NewNop(), time.Minute)

	// Start in 2 hours: the 24h reminder would fire in the past.
	armed, err := s.Schedule(context.Background(), info("b-1", now.Add(2*time.Hour)), DefaultOffsets)
	require.NoError(t, err)
	assert.Equal(t, 1, armed)
	require.Len(t, repo.rows, 1)
	assert.Equal(t, now.Add(time.Hour), repo.rows[0].FireAt)

	// Start in 30 minutes: every default offset is already past.
	armed, err = s.Schedule(context.Background(), info("b-2", now.Add(30*time.Minute)), DefaultOffsets)
	require.NoError(t, err)
	assert.Zero(t, armed)
}

func TestCancelForBookingRetractsPending(t *testing.T) {
	now := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	repo := &fakeReminderRepo{}
	s := NewPollingScheduler(repo, &recordingDispatcher{}, clock.Fixed{Instant: now}, zap.NewNop(), time.Minute)

	_, err := s.Schedule(context.Background(), info("b-1", now.Add(48*time.Hour)), DefaultOffsets)
	require.NoError(t, err)
	_, err = s.Schedule(context.Background(), info("b-2", now.Add(48*time.Hour)), DefaultOffsets)
	require.NoError(t, err)

	retracted, err := s.CancelForBooking(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, 2, retracted)

	assert.Zero(t, repo.pending("b-1"))
	assert.Equal(t, 2, repo.pending("b-2"))
}

func TestDispatchDueSendsOnlyDueReminders(t *testing.T) {
	armedAt := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	repo := &fakeReminderRepo{}
	disp := &recordingDispatcher{}
	armer := NewPollingScheduler(repo, disp, clock.Fixed{Instant: armedAt}, zap.NewNop(), time.Minute)

	_, err := armer.Schedule(context.Background(), info("b-due", armedAt.Add(26*time.Hour)), DefaultOffsets)
	require.NoError(t, err)
	_, err = armer.Schedule(context.Background(), info("b-later", armedAt.Add(72*time.Hour)), DefaultOffsets)
	require.NoError(t, err)

	// Three hours later the 24h reminder for b-due has come due.
	s := NewPollingScheduler(repo, disp, clock.Fixed{Instant: armedAt.Add(3 * time.Hour)}, zap.NewNop(), time.Minute)
	s.dispatchDue(context.Background())

	require.Len(t, disp.sent, 1)
	assert.Equal(t, notify.KindReminder, disp.sent[0].Kind)
	assert.Equal(t, "b-due", disp.sent[0].BookingID)
	assert.Equal(t, "dana@example.com", disp.sent[0].RecipientEmail)

	// A second sweep does not resend the claimed row.
	s.dispatchDue(context.Background())
	assert.Len(t, disp.sent, 1)
}
