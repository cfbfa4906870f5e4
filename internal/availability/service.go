package availability

import (
	"context"
	"sort"
	"time"

	"github.com/lumabook/scheduling-backend/internal/eventtype"
	"github.com/lumabook/scheduling-backend/internal/pkg/localtime"
)

type SlotInput struct {
	Day   localtime.DayOfWeek
	Start localtime.TimeOfDay
	End   localtime.TimeOfDay
}

type BlockedTimeInput struct {
	OwnerID   string
	StartTime time.Time
	EndTime   time.Time
	Reason    string
}

type Service interface {
	// ReplaceSlots swaps the entire weekly template of an event type.
	ReplaceSlots(ctx context.Context, eventTypeID, ownerID string, inputs []SlotInput) ([]*Slot, error)
	GetActiveSlots(ctx context.Context, eventTypeID string) ([]*Slot, error)

	// ConsumeSlot deactivates every template row on the given day whose
	// interval intersects [start, end), half-open.
	ConsumeSlot(ctx context.Context, eventTypeID string, day localtime.DayOfWeek, start, end localtime.TimeOfDay) (int, error)

	// ReleaseSlot reactivates only rows whose start exactly equals the
	// original start. A row partially overlapped and deactivated by
	// ConsumeSlot stays inactive unless its start matches. Release is
	// deliberately narrower than consume; see DESIGN.md.
	ReleaseSlot(ctx context.Context, eventTypeID string, day localtime.DayOfWeek, start localtime.TimeOfDay) (int, error)

	CreateBlocked(ctx context.Context, input BlockedTimeInput) (*BlockedTime, error)
	ListBlocked(ctx context.Context, ownerID string, from, to *time.Time) ([]*BlockedTime, error)
	DeleteBlocked(ctx context.Context, id, ownerID string) error
}

type service struct {
	repo      Repository
	etService eventtype.Service
}

func NewService(repo Repository, etService eventtype.Service) Service {
	return &service{
		repo:      repo,
		etService: etService,
	}
}

func (s *service) ReplaceSlots(ctx context.Context, eventTypeID, ownerID string, inputs []SlotInput) ([]*Slot, error) {
	et, err := s.etService.GetByID(ctx, eventTypeID)
	if err != nil {
		return nil, err
	}
	if et.OwnerID != ownerID {
		return nil, ErrPermissionDenied
	}

	for _, in := range inputs {
		if !in.Day.Valid() {
			return nil, ErrInvalidDay
		}
		if !in.Start.Valid() || !in.End.Valid() || in.Start >= in.End {
			return nil, ErrInvalidTimeRange
		}
	}

	// Template rows on the same day must not intersect each other.
	sorted := make([]SlotInput, len(inputs))
	copy(sorted, inputs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Day != sorted[j].Day {
			return sorted[i].Day < sorted[j].Day
		}
		return sorted[i].Start < sorted[j].Start
	})
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Day == cur.Day && localtime.Overlaps(prev.Start, prev.End, cur.Start, cur.End) {
			return nil, ErrSlotOverlap
		}
	}

	slots := make([]*Slot, len(inputs))
	for i, in := range inputs {
		slots[i] = &Slot{
			EventTypeID: eventTypeID,
			Day:         in.Day,
			Start:       in.Start,
			End:         in.End,
			IsActive:    true,
		}
	}

	if err := s.repo.ReplaceSlots(ctx, eventTypeID, slots); err != nil {
		return nil, err
	}
	return s.repo.ListSlots(ctx, eventTypeID, false)
}

func (s *service) GetActiveSlots(ctx context.Context, eventTypeID string) ([]*Slot, error) {
	if _, err := s.etService.GetByID(ctx, eventTypeID); err != nil {
		return nil, err
	}
	return s.repo.ListSlots(ctx, eventTypeID, true)
}

func (s *service) ConsumeSlot(ctx context.Context, eventTypeID string, day localtime.DayOfWeek, start, end localtime.TimeOfDay) (int, error) {
	if !day.Valid() {
		return 0, ErrInvalidDay
	}
	if start >= end {
		return 0, ErrInvalidTimeRange
	}
	return s.repo.DeactivateOverlapping(ctx, eventTypeID, day, start, end)
}

func (s *service) ReleaseSlot(ctx context.Context, eventTypeID string, day localtime.DayOfWeek, start localtime.TimeOfDay) (int, error) {
	if !day.Valid() {
		return 0, ErrInvalidDay
	}
	return s.repo.ActivateByExactStart(ctx, eventTypeID, day, start)
}

func (s *service) CreateBlocked(ctx context.Context, input BlockedTimeInput) (*BlockedTime, error) {
	if !input.StartTime.Before(input.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	bt := &BlockedTime{
		OwnerID:   input.OwnerID,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Reason:    input.Reason,
	}
	if err := s.repo.CreateBlocked(ctx, bt); err != nil {
		return nil, err
	}
	return bt, nil
}

func (s *service) ListBlocked(ctx context.Context, ownerID string, from, to *time.Time) ([]*BlockedTime, error) {
	return s.repo.ListBlocked(ctx, ownerID, from, to)
}

func (s *service) DeleteBlocked(ctx context.Context, id, ownerID string) error {
	return s.repo.DeleteBlocked(ctx, id, ownerID)
}
