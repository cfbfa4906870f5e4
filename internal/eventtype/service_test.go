package eventtype

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventTypeRepo struct {
	nextID int
	rows   map[string]*EventType
}

func newFakeEventTypeRepo() *fakeEventTypeRepo {
	return &fakeEventTypeRepo{rows: make(map[string]*EventType)}
}

func (r *fakeEventTypeRepo) Create(_ context.Context, et *EventType) error {
	for _, existing := range r.rows {
		if existing.OwnerID == et.OwnerID && existing.Slug == et.Slug && existing.DeletedAt == nil {
			return ErrSlugTaken
		}
	}
	r.nextID++
	et.ID = fmt.Sprintf("et-%d", r.nextID)
	stored := *et
	r.rows[et.ID] = &stored
	return nil
}

func (r *fakeEventTypeRepo) GetByID(_ context.Context, id string) (*EventType, error) {
	et, ok := r.rows[id]
	if !ok || et.DeletedAt != nil {
		return nil, ErrNotFound
	}
	copied := *et
	return &copied, nil
}

func (r *fakeEventTypeRepo) GetByOwnerSlug(_ context.Context, ownerID, slug string) (*EventType, error) {
	for _, et := range r.rows {
		if et.OwnerID == ownerID && et.Slug == slug && et.DeletedAt == nil {
			copied := *et
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeEventTypeRepo) List(_ context.Context, filter Filter) ([]*EventType, int, error) {
	var out []*EventType
	for _, et := range r.rows {
		if et.DeletedAt != nil || et.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Active != nil && et.IsActive != *filter.Active {
			continue
		}
		copied := *et
		out = append(out, &copied)
	}
	return out, len(out), nil
}

func (r *fakeEventTypeRepo) Update(_ context.Context, et *EventType) error {
	stored, ok := r.rows[et.ID]
	if !ok || stored.DeletedAt != nil {
		return ErrNotFound
	}
	for _, existing := range r.rows {
		if existing.ID != et.ID && existing.OwnerID == et.OwnerID &&
			existing.Slug == et.Slug && existing.DeletedAt == nil {
			return ErrSlugTaken
		}
	}
	copied := *et
	r.rows[et.ID] = &copied
	return nil
}

func (r *fakeEventTypeRepo) SoftDelete(_ context.Context, id string) error {
	stored, ok := r.rows[id]
	if !ok || stored.DeletedAt != nil {
		return ErrNotFound
	}
	now := stored.CreatedAt
	stored.DeletedAt = &now
	return nil
}

func validCreate() CreateRequest {
	return CreateRequest{
		OwnerID:         "owner-1",
		Name:            "Intro Call",
		Slug:            "intro-call",
		DurationMinutes: 30,
		Timezone:        "Europe/Berlin",
	}
}

func TestCreateEventType(t *testing.T) {
	svc := NewService(newFakeEventTypeRepo())

	et, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	assert.NotEmpty(t, et.ID)
	assert.True(t, et.IsActive)
	assert.Equal(t, "Europe/Berlin", et.Timezone)
}

func TestCreateEventTypeValidation(t *testing.T) {
	svc := NewService(newFakeEventTypeRepo())

	req := validCreate()
	req.Name = "   "
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmptyName)

	req = validCreate()
	req.Slug = "Intro Call"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSlug)

	req = validCreate()
	req.DurationMinutes = 0
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	req = validCreate()
	req.MinNoticeMinutes = -1
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	req = validCreate()
	req.Timezone = "Mars/Olympus"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestCreateEventTypeDefaultsTimezone(t *testing.T) {
	svc := NewService(newFakeEventTypeRepo())

	req := validCreate()
	req.Timezone = ""
	et, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "UTC", et.Timezone)
}

func TestCreateEventTypeSlugScopedPerOwner(t *testing.T) {
	svc := NewService(newFakeEventTypeRepo())

	_, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validCreate())
	assert.ErrorIs(t, err, ErrSlugTaken)

	// The same slug under a different owner is fine.
	req := validCreate()
	req.OwnerID = "owner-2"
	_, err = svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestUpdateEventType(t *testing.T) {
	svc := NewService(newFakeEventTypeRepo())

	et, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	newDuration := 45
	inactive := false
	updated, err := svc.Update(context.Background(), et.ID, "owner-1", UpdateRequest{
		DurationMinutes: &newDuration,
		IsActive:        &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.DurationMinutes)
	assert.False(t, updated.IsActive)

	_, err = svc.Update(context.Background(), et.ID, "intruder", UpdateRequest{})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	bad := 0
	_, err = svc.Update(context.Background(), et.ID, "owner-1", UpdateRequest{DurationMinutes: &bad})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestDeleteEventType(t *testing.T) {
	svc := NewService(newFakeEventTypeRepo())

	et, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), et.ID, "intruder")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = svc.Delete(context.Background(), et.ID, "owner-1")
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), et.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The slug frees up after the soft delete.
	_, err = svc.Create(context.Background(), validCreate())
	assert.NoError(t, err)
}
