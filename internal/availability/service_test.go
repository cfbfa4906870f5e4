package availability

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/lumabook/scheduling-backend/internal/eventtype"
	"github.com/lumabook/scheduling-backend/internal/pkg/localtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSlotRepo mirrors the deactivate/activate semantics of the pgx
// implementation against an in-memory slice.
type fakeSlotRepo struct {
	slots   []*Slot
	blocked []*BlockedTime
	nextID  int
}

func (r *fakeSlotRepo) ReplaceSlots(_ context.Context, eventTypeID string, slots []*Slot) error {
	var kept []*Slot
	for _, s := range r.slots {
		if s.EventTypeID != eventTypeID {
			kept = append(kept, s)
		}
	}
	r.slots = append(kept, slots...)
	return nil
}

func (r *fakeSlotRepo) ListSlots(_ context.Context, eventTypeID string, activeOnly bool) ([]*Slot, error) {
	var out []*Slot
	for _, s := range r.slots {
		if s.EventTypeID != eventTypeID {
			continue
		}
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].Start < out[j].Start
	})
	return out, nil
}

func (r *fakeSlotRepo) DeactivateOverlapping(_ context.Context, eventTypeID string, day localtime.DayOfWeek, start, end localtime.TimeOfDay) (int, error) {
	var n int
	for _, s := range r.slots {
		if s.EventTypeID == eventTypeID && s.Day == day && s.IsActive &&
			localtime.Overlaps(s.Start, s.End, start, end) {
			s.IsActive = false
			n++
		}
	}
	return n, nil
}

func (r *fakeSlotRepo) ActivateByExactStart(_ context.Context, eventTypeID string, day localtime.DayOfWeek, start localtime.TimeOfDay) (int, error) {
	var n int
	for _, s := range r.slots {
		if s.EventTypeID == eventTypeID && s.Day == day && !s.IsActive && s.Start == start {
			s.IsActive = true
			n++
		}
	}
	return n, nil
}

func (r *fakeSlotRepo) CreateBlocked(_ context.Context, bt *BlockedTime) error {
	r.nextID++
	bt.ID = fmt.Sprintf("blocked-%d", r.nextID)
	bt.CreatedAt = time.Now()
	r.blocked = append(r.blocked, bt)
	return nil
}

func (r *fakeSlotRepo) ListBlocked(_ context.Context, ownerID string, _, _ *time.Time) ([]*BlockedTime, error) {
	var out []*BlockedTime
	for _, bt := range r.blocked {
		if bt.OwnerID == ownerID {
			out = append(out, bt)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) DeleteBlocked(_ context.Context, id, ownerID string) error {
	for i, bt := range r.blocked {
		if bt.ID == id && bt.OwnerID == ownerID {
			r.blocked = append(r.blocked[:i], r.blocked[i+1:]...)
			return nil
		}
	}
	return ErrBlockedNotFound
}

type stubEventTypes struct {
	et *eventtype.EventType
}

func (s *stubEventTypes) Create(context.Context, eventtype.CreateRequest) (*eventtype.EventType, error) {
	panic("not used")
}

func (s *stubEventTypes) GetByID(_ context.Context, id string) (*eventtype.EventType, error) {
	if s.et == nil || s.et.ID != id {
		return nil, eventtype.ErrNotFound
	}
	return s.et, nil
}

func (s *stubEventTypes) GetByOwnerSlug(context.Context, string, string) (*eventtype.EventType, error) {
	panic("not used")
}

func (s *stubEventTypes) List(context.Context, eventtype.Filter) ([]*eventtype.EventType, int, error) {
	panic("not used")
}

func (s *stubEventTypes) Update(context.Context, string, string, eventtype.UpdateRequest) (*eventtype.EventType, error) {
	panic("not used")
}

func (s *stubEventTypes) Delete(context.Context, string, string) error {
	panic("not used")
}

func newTestService() (Service, *fakeSlotRepo) {
	repo := &fakeSlotRepo{}
	et := &eventtype.EventType{ID: "et-1", OwnerID: "owner-1", Timezone: "UTC", IsActive: true}
	return NewService(repo, &stubEventTypes{et: et}), repo
}

func mustTime(t *testing.T, s string) localtime.TimeOfDay {
	t.Helper()
	tod, err := localtime.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func TestReplaceSlots(t *testing.T) {
	svc, _ := newTestService()

	slots, err := svc.ReplaceSlots(context.Background(), "et-1", "owner-1", []SlotInput{
		{Day: localtime.Wednesday, Start: mustTime(t, "14:00"), End: mustTime(t, "17:00")},
		{Day: localtime.Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "12:00")},
	})
	require.NoError(t, err)

	// Returned ordered by day then start.
	require.Len(t, slots, 2)
	assert.Equal(t, localtime.Monday, slots[0].Day)
	assert.Equal(t, localtime.Wednesday, slots[1].Day)
	assert.True(t, slots[0].IsActive)
}

func TestReplaceSlotsRejectsOverlap(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ReplaceSlots(context.Background(), "et-1", "owner-1", []SlotInput{
		{Day: localtime.Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "11:00")},
		{Day: localtime.Monday, Start: mustTime(t, "10:30"), End: mustTime(t, "12:00")},
	})
	assert.ErrorIs(t, err, ErrSlotOverlap)

	// Touching intervals are fine: [9,11) and [11,12).
	_, err = svc.ReplaceSlots(context.Background(), "et-1", "owner-1", []SlotInput{
		{Day: localtime.Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "11:00")},
		{Day: localtime.Monday, Start: mustTime(t, "11:00"), End: mustTime(t, "12:00")},
	})
	assert.NoError(t, err)

	// Same times on different days never overlap.
	_, err = svc.ReplaceSlots(context.Background(), "et-1", "owner-1", []SlotInput{
		{Day: localtime.Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "11:00")},
		{Day: localtime.Tuesday, Start: mustTime(t, "09:00"), End: mustTime(t, "11:00")},
	})
	assert.NoError(t, err)
}

func TestReplaceSlotsValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ReplaceSlots(context.Background(), "et-1", "owner-1", []SlotInput{
		{Day: localtime.DayOfWeek(9), Start: mustTime(t, "09:00"), End: mustTime(t, "10:00")},
	})
	assert.ErrorIs(t, err, ErrInvalidDay)

	_, err = svc.ReplaceSlots(context.Background(), "et-1", "owner-1", []SlotInput{
		{Day: localtime.Monday, Start: mustTime(t, "10:00"), End: mustTime(t, "10:00")},
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.ReplaceSlots(context.Background(), "et-1", "intruder", nil)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestConsumeAndReleaseAsymmetry(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ReplaceSlots(context.Background(), "et-1", "owner-1", []SlotInput{
		{Day: localtime.Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "10:00")},
		{Day: localtime.Monday, Start: mustTime(t, "10:00"), End: mustTime(t, "11:00")},
	})
	require.NoError(t, err)

	// A booking spanning 09:30-10:30 deactivates both intersecting rows.
	n, err := svc.ConsumeSlot(context.Background(), "et-1", localtime.Monday, mustTime(t, "09:30"), mustTime(t, "10:30"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	active, err := svc.GetActiveSlots(context.Background(), "et-1")
	require.NoError(t, err)
	assert.Empty(t, active)

	// Release matches the exact booking start; neither row started at
	// 09:30, so both stay inactive.
	n, err = svc.ReleaseSlot(context.Background(), "et-1", localtime.Monday, mustTime(t, "09:30"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Releasing at a real row start brings only that row back.
	n, err = svc.ReleaseSlot(context.Background(), "et-1", localtime.Monday, mustTime(t, "10:00"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	active, err = svc.GetActiveSlots(context.Background(), "et-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, mustTime(t, "10:00"), active[0].Start)
}

func TestConsumeSlotBoundaries(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ReplaceSlots(context.Background(), "et-1", "owner-1", []SlotInput{
		{Day: localtime.Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "10:00")},
	})
	require.NoError(t, err)

	// A booking starting exactly at the slot end does not touch it.
	n, err := svc.ConsumeSlot(context.Background(), "et-1", localtime.Monday, mustTime(t, "10:00"), mustTime(t, "10:30"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Same times on another day leave the slot alone too.
	n, err = svc.ConsumeSlot(context.Background(), "et-1", localtime.Tuesday, mustTime(t, "09:00"), mustTime(t, "10:00"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestBlockedTimes(t *testing.T) {
	svc, _ := newTestService()

	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	bt, err := svc.CreateBlocked(context.Background(), BlockedTimeInput{
		OwnerID:   "owner-1",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Reason:    "dentist",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, bt.ID)

	_, err = svc.CreateBlocked(context.Background(), BlockedTimeInput{
		OwnerID:   "owner-1",
		StartTime: start,
		EndTime:   start,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	listed, err := svc.ListBlocked(context.Background(), "owner-1", nil, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	err = svc.DeleteBlocked(context.Background(), bt.ID, "other-owner")
	assert.ErrorIs(t, err, ErrBlockedNotFound)

	err = svc.DeleteBlocked(context.Background(), bt.ID, "owner-1")
	assert.NoError(t, err)
}
