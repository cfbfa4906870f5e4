package booking

import (
	"context"
	"time"

	"github.com/lumabook/scheduling-backend/internal/analytics"
	"github.com/lumabook/scheduling-backend/internal/availability"
	"github.com/lumabook/scheduling-backend/internal/eventtype"
	"github.com/lumabook/scheduling-backend/internal/meeting"
	"github.com/lumabook/scheduling-backend/internal/notify"
	"github.com/lumabook/scheduling-backend/internal/pkg/clock"
	"github.com/lumabook/scheduling-backend/internal/pkg/localtime"
	"github.com/lumabook/scheduling-backend/internal/reminder"
	"go.uber.org/zap"
)

type CreateRequest struct {
	EventTypeID   string
	GuestName     string
	GuestEmail    string
	GuestPhone    string
	GuestTimezone string
	StartTime     time.Time
}

type Service interface {
	// Create books the interval [StartTime, StartTime+duration) for the
	// guest. The conflict check and insert are one atomic transaction;
	// everything in the returned report is best-effort and post-commit.
	Create(ctx context.Context, req CreateRequest) (*Booking, *SideEffectReport, error)

	// Cancel transitions confirmed -> cancelled. Cancelling an already
	// cancelled booking is rejected, not treated as a no-op.
	Cancel(ctx context.Context, id, ownerID, reason string) (*Booking, *SideEffectReport, error)

	// Reschedule moves a confirmed booking to a new start, preserving its
	// identity, guest fields and meeting link.
	Reschedule(ctx context.Context, id, ownerID string, newStart time.Time) (*Booking, *SideEffectReport, error)

	GetByID(ctx context.Context, id, ownerID string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
}

type service struct {
	repo         Repository
	etService    eventtype.Service
	availService availability.Service
	analytics    AnalyticsRecorder
	provisioner  meeting.Provisioner
	dispatcher   notify.Dispatcher
	reminders    reminder.Scheduler
	clock        clock.Clock
	logger       *zap.Logger
}

// AnalyticsRecorder is the slice of the analytics service the engine
// needs on its write path.
type AnalyticsRecorder interface {
	Increment(ctx context.Context, ownerID, eventTypeID string, date time.Time, field analytics.Field, delta int) error
}

func NewService(
	repo Repository,
	etService eventtype.Service,
	availService availability.Service,
	analytics AnalyticsRecorder,
	provisioner meeting.Provisioner,
	dispatcher notify.Dispatcher,
	reminders reminder.Scheduler,
	clk clock.Clock,
	logger *zap.Logger,
) Service {
	return &service{
		repo:         repo,
		etService:    etService,
		availService: availService,
		analytics:    analytics,
		provisioner:  provisioner,
		dispatcher:   dispatcher,
		reminders:    reminders,
		clock:        clk,
		logger:       logger,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, *SideEffectReport, error) {
	et, err := s.etService.GetByID(ctx, req.EventTypeID)
	if err != nil {
		return nil, nil, ErrEventTypeNotFound
	}
	// An inactive event type is indistinguishable from a missing one on
	// the guest-facing path.
	if !et.IsActive {
		return nil, nil, ErrEventTypeNotFound
	}

	now := s.clock.Now()
	if req.StartTime.Before(now) {
		return nil, nil, ErrStartTimePast
	}
	if et.MinNoticeMinutes > 0 {
		if req.StartTime.Before(now.Add(time.Duration(et.MinNoticeMinutes) * time.Minute)) {
			return nil, nil, ErrTooSoon
		}
	}
	if et.MaxWindowDays > 0 {
		if req.StartTime.After(now.AddDate(0, 0, et.MaxWindowDays)) {
			return nil, nil, ErrTooFarAhead
		}
	}

	b := &Booking{
		EventTypeID:   et.ID,
		OwnerID:       et.OwnerID,
		GuestName:     req.GuestName,
		GuestEmail:    req.GuestEmail,
		GuestPhone:    req.GuestPhone,
		GuestTimezone: req.GuestTimezone,
		StartTime:     req.StartTime.UTC(),
		EndTime:       req.StartTime.UTC().Add(et.Duration()),
		Status:        StatusConfirmed,
	}

	// Atomic step: conflict re-check and insert, all or nothing.
	if err := s.repo.CreateIfFree(ctx, b); err != nil {
		return nil, nil, err
	}

	// Everything below is best-effort and must never undo the booking.
	report := &SideEffectReport{}

	s.provisionMeeting(ctx, b, et, report)
	s.consumeSlot(ctx, b, et, report)

	err = s.analytics.Increment(ctx, b.OwnerID, b.EventTypeID, now, analytics.FieldBookingCount, 1)
	report.record("analytics_increment", err)

	guestMsg, ownerMsg := s.messages(b, et, notify.KindConfirmation, "")
	report.record("notify_guest", s.dispatcher.SendConfirmation(ctx, guestMsg))
	report.record("notify_owner", s.dispatcher.SendConfirmation(ctx, ownerMsg))

	armed, err := s.reminders.Schedule(ctx, s.reminderInfo(b, et), reminder.DefaultOffsets)
	report.record("schedule_reminders", err)
	if err == nil {
		s.logger.Debug("reminders armed", zap.String("booking_id", b.ID), zap.Int("count", armed))
	}

	s.logEffects("create", b.ID, report)
	return b, report, nil
}

func (s *service) Cancel(ctx context.Context, id, ownerID, reason string) (*Booking, *SideEffectReport, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	// Not-owned bookings are reported as missing, not forbidden.
	if b.OwnerID != ownerID {
		return nil, nil, ErrNotFound
	}
	if b.Status != StatusConfirmed {
		return nil, nil, ErrAlreadyCancelled
	}

	now := s.clock.Now()
	b.Status = StatusCancelled
	b.CancelledAt = &now
	if reason != "" {
		b.CancelReason = &reason
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, nil, err
	}

	report := &SideEffectReport{}

	et, err := s.etService.GetByID(ctx, b.EventTypeID)
	report.record("load_event_type", err)
	if err == nil {
		// Release matches the original start exactly; see DESIGN.md for
		// why this is narrower than the consume-side intersection.
		s.releaseSlot(ctx, b, et, b.StartTime, report)

		guestMsg, ownerMsg := s.messages(b, et, notify.KindCancellation, reason)
		report.record("notify_guest", s.dispatcher.SendCancellation(ctx, guestMsg))
		report.record("notify_owner", s.dispatcher.SendCancellation(ctx, ownerMsg))

		if b.ExternalMeetingID != nil {
			report.record("delete_meeting", s.provisioner.Delete(ctx, *b.ExternalMeetingID))
		}
	}

	err = s.analytics.Increment(ctx, b.OwnerID, b.EventTypeID, now, analytics.FieldCancellationCount, 1)
	report.record("analytics_increment", err)

	retracted, err := s.reminders.CancelForBooking(ctx, b.ID)
	report.record("cancel_reminders", err)
	if err == nil {
		s.logger.Debug("reminders retracted", zap.String("booking_id", b.ID), zap.Int("count", retracted))
	}

	s.logEffects("cancel", b.ID, report)
	return b, report, nil
}

func (s *service) Reschedule(ctx context.Context, id, ownerID string, newStart time.Time) (*Booking, *SideEffectReport, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if b.OwnerID != ownerID {
		return nil, nil, ErrNotFound
	}
	if b.Status != StatusConfirmed {
		return nil, nil, ErrAlreadyCancelled
	}

	et, err := s.etService.GetByID(ctx, b.EventTypeID)
	if err != nil {
		return nil, nil, ErrEventTypeNotFound
	}

	if newStart.Before(s.clock.Now()) {
		return nil, nil, ErrStartTimePast
	}

	oldStart := b.StartTime
	b.StartTime = newStart.UTC()
	b.EndTime = newStart.UTC().Add(et.Duration())

	// Atomic step: overlap re-check excluding this booking, then update.
	if err := s.repo.UpdateTimeIfFree(ctx, b); err != nil {
		b.StartTime = oldStart // restore in-memory copy for the caller
		b.EndTime = oldStart.Add(et.Duration())
		return nil, nil, err
	}

	report := &SideEffectReport{}

	s.releaseSlot(ctx, b, et, oldStart, report)
	s.consumeSlot(ctx, b, et, report)

	if b.ExternalMeetingID != nil {
		report.record("update_meeting", s.provisioner.Update(ctx, *b.ExternalMeetingID, meeting.Spec{
			BookingID:     b.ID,
			EventTypeName: et.Name,
			GuestName:     b.GuestName,
			GuestEmail:    b.GuestEmail,
			StartTime:     b.StartTime,
			EndTime:       b.EndTime,
		}))
	}

	guestMsg, _ := s.messages(b, et, notify.KindReschedule, "")
	report.record("notify_guest", s.dispatcher.SendConfirmation(ctx, guestMsg))

	// Re-arm reminders against the new start.
	retracted, err := s.reminders.CancelForBooking(ctx, b.ID)
	report.record("cancel_reminders", err)
	if err == nil {
		s.logger.Debug("reminders retracted", zap.String("booking_id", b.ID), zap.Int("count", retracted))
	}
	_, err = s.reminders.Schedule(ctx, s.reminderInfo(b, et), reminder.DefaultOffsets)
	report.record("schedule_reminders", err)

	s.logEffects("reschedule", b.ID, report)
	return b, report, nil
}

func (s *service) GetByID(ctx context.Context, id, ownerID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

// provisionMeeting asks the provider for a link. On failure the booking
// keeps a null link and the error goes into the report only.
func (s *service) provisionMeeting(ctx context.Context, b *Booking, et *eventtype.EventType, report *SideEffectReport) {
	details, err := s.provisioner.Create(ctx, meeting.Spec{
		BookingID:     b.ID,
		EventTypeName: et.Name,
		GuestName:     b.GuestName,
		GuestEmail:    b.GuestEmail,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
	})
	if err != nil {
		report.record("provision_meeting", err)
		return
	}

	if err := s.repo.SetMeeting(ctx, b.ID, details.Link, details.ExternalID); err != nil {
		report.record("provision_meeting", err)
		return
	}
	b.MeetingLink = &details.Link
	b.ExternalMeetingID = &details.ExternalID
	report.record("provision_meeting", nil)
}

func (s *service) consumeSlot(ctx context.Context, b *Booking, et *eventtype.EventType, report *SideEffectReport) {
	loc, err := et.Location()
	if err != nil {
		report.record("consume_slot", err)
		return
	}
	day, start := localtime.Project(b.StartTime, loc)
	end := start + localtime.TimeOfDay(et.DurationMinutes)
	_, err = s.availService.ConsumeSlot(ctx, b.EventTypeID, day, start, end)
	report.record("consume_slot", err)
}

func (s *service) releaseSlot(ctx context.Context, b *Booking, et *eventtype.EventType, originalStart time.Time, report *SideEffectReport) {
	loc, err := et.Location()
	if err != nil {
		report.record("release_slot", err)
		return
	}
	day, start := localtime.Project(originalStart, loc)
	_, err = s.availService.ReleaseSlot(ctx, b.EventTypeID, day, start)
	report.record("release_slot", err)
}

func (s *service) messages(b *Booking, et *eventtype.EventType, kind notify.Kind, reason string) (guest, owner notify.Message) {
	link := ""
	if b.MeetingLink != nil {
		link = *b.MeetingLink
	}
	base := notify.Message{
		Kind:          kind,
		BookingID:     b.ID,
		OwnerID:       b.OwnerID,
		EventTypeName: et.Name,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		MeetingLink:   link,
		Reason:        reason,
	}

	guest = base
	guest.RecipientName = b.GuestName
	guest.RecipientEmail = b.GuestEmail
	guest.Timezone = b.GuestTimezone

	owner = base
	owner.Timezone = et.Timezone
	return guest, owner
}

func (s *service) reminderInfo(b *Booking, et *eventtype.EventType) reminder.BookingInfo {
	link := ""
	if b.MeetingLink != nil {
		link = *b.MeetingLink
	}
	return reminder.BookingInfo{
		BookingID:     b.ID,
		GuestName:     b.GuestName,
		GuestEmail:    b.GuestEmail,
		EventTypeName: et.Name,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Timezone:      b.GuestTimezone,
		MeetingLink:   link,
	}
}

func (s *service) logEffects(op, bookingID string, report *SideEffectReport) {
	for _, failed := range report.Failed() {
		s.logger.Warn("best-effort side effect failed",
			zap.String("op", op),
			zap.String("booking_id", bookingID),
			zap.String("effect", failed.Name),
			zap.Error(failed.Err))
	}
}
