package reminder

import (
	"context"
	"time"

	"github.com/lumabook/scheduling-backend/internal/notify"
	"github.com/lumabook/scheduling-backend/internal/pkg/clock"
	"go.uber.org/zap"
)

// Scheduler is the booking engine's view of reminder arming. Reminders
// are persisted rows, so pending ones survive a restart and can be
// retracted by booking id on cancel or reschedule.
type Scheduler interface {
	Schedule(ctx context.Context, info BookingInfo, offsets []time.Duration) (int, error)
	CancelForBooking(ctx context.Context, bookingID string) (int, error)
}

// PollingScheduler arms reminders and runs the background dispatch loop.
type PollingScheduler struct {
	repo       Repository
	dispatcher notify.Dispatcher
	clock      clock.Clock
	logger     *zap.Logger
	pollEvery  time.Duration
	batchSize  int
	stopChan   chan struct{}
}

func NewPollingScheduler(repo Repository, dispatcher notify.Dispatcher, clk clock.Clock, logger *zap.Logger, pollEvery time.Duration) *PollingScheduler {
	return &PollingScheduler{
		repo:       repo,
		dispatcher: dispatcher,
		clock:      clk,
		logger:     logger,
		pollEvery:  pollEvery,
		batchSize:  100,
		stopChan:   make(chan struct{}),
	}
}

// Schedule arms one reminder per offset whose fire time is still in the
// future. Past fire times are skipped silently.
func (s *PollingScheduler) Schedule(ctx context.Context, info BookingInfo, offsets []time.Duration) (int, error) {
	now := s.clock.Now()

	var reminders []*Reminder
	for _, offset := range offsets {
		fireAt := info.StartTime.Add(-offset)
		if !fireAt.After(now) {
			continue
		}
		reminders = append(reminders, &Reminder{
			BookingID:     info.BookingID,
			FireAt:        fireAt,
			Status:        StatusPending,
			GuestName:     info.GuestName,
			GuestEmail:    info.GuestEmail,
			EventTypeName: info.EventTypeName,
			EventStart:    info.StartTime,
			EventEnd:      info.EndTime,
			Timezone:      info.Timezone,
			MeetingLink:   info.MeetingLink,
		})
	}

	if err := s.repo.CreateBatch(ctx, reminders); err != nil {
		return 0, err
	}
	return len(reminders), nil
}

func (s *PollingScheduler) CancelForBooking(ctx context.Context, bookingID string) (int, error) {
	return s.repo.CancelPendingByBooking(ctx, bookingID)
}

// Start launches the dispatch loop.
func (s *PollingScheduler) Start(ctx context.Context) {
	s.logger.Info("starting reminder scheduler", zap.Duration("poll_every", s.pollEvery))
	go s.run(ctx)
}

// Stop halts the dispatch loop.
func (s *PollingScheduler) Stop() {
	s.logger.Info("stopping reminder scheduler")
	close(s.stopChan)
}

func (s *PollingScheduler) run(ctx context.Context) {
	// First sweep right away so restarts pick up overdue reminders.
	s.dispatchDue(ctx)

	ticker := time.NewTicker(s.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.dispatchDue(ctx)
		case <-s.stopChan:
			s.logger.Info("reminder dispatch loop stopped")
			return
		case <-ctx.Done():
			s.logger.Info("reminder dispatch loop cancelled")
			return
		}
	}
}

// dispatchDue claims due reminders and sends each one. A failed send is
// logged and dropped; the claim already consumed the row, mirroring the
// best-effort policy of the other notification calls.
func (s *PollingScheduler) dispatchDue(ctx context.Context) {
	due, err := s.repo.ClaimDue(ctx, s.clock.Now(), s.batchSize)
	if err != nil {
		s.logger.Error("failed to claim due reminders", zap.Error(err))
		return
	}

	for _, rem := range due {
		msg := notify.Message{
			Kind:           notify.KindReminder,
			BookingID:      rem.BookingID,
			EventTypeName:  rem.EventTypeName,
			RecipientName:  rem.GuestName,
			RecipientEmail: rem.GuestEmail,
			StartTime:      rem.EventStart,
			EndTime:        rem.EventEnd,
			Timezone:       rem.Timezone,
			MeetingLink:    rem.MeetingLink,
		}
		if err := s.dispatcher.SendReminder(ctx, msg); err != nil {
			s.logger.Error("failed to send reminder",
				zap.String("reminder_id", rem.ID),
				zap.String("booking_id", rem.BookingID),
				zap.Error(err))
			continue
		}
		s.logger.Debug("reminder sent",
			zap.String("reminder_id", rem.ID),
			zap.String("booking_id", rem.BookingID))
	}
}
