package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewHUNGNguyen/devx-events/internal/event"
	"github.com/AndrewHUNGNguyen/devx-events/internal/storage"
)

func newTestService(t *testing.T, events []*event.Event) *Static {
	t.Helper()
	store, err := storage.New(t.TempDir(), "events.json")
	require.NoError(t, err)
	if events != nil {
		require.NoError(t, store.SaveEvents(events))
	}
	return NewStatic(store)
}

func sampleEvents() []*event.Event {
	return []*event.Event{
		{ID: "evt-a", Name: "AI Builders Night", StartAt: time.Date(2025, 6, 12, 1, 30, 0, 0, time.UTC)},
		{ID: "evt-b", Name: "Hardware Hack Day", StartAt: time.Date(2025, 2, 8, 18, 0, 0, 0, time.UTC)},
	}
}

func TestListEvents(t *testing.T) {
	svc := newTestService(t, sampleEvents())
	events, err := svc.ListEvents()
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestListEventsEmptyDataset(t *testing.T) {
	svc := newTestService(t, nil)
	events, err := svc.ListEvents()
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestGetEvent(t *testing.T) {
	svc := newTestService(t, sampleEvents())

	evt, err := svc.GetEvent("evt-b")
	require.NoError(t, err)
	assert.Equal(t, "Hardware Hack Day", evt.Name)

	_, err = svc.GetEvent("evt-missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRegisterForEvent(t *testing.T) {
	svc := newTestService(t, sampleEvents())

	require.NoError(t, svc.RegisterForEvent("evt-a", "member@example.com"))

	registered, err := svc.CheckRegistration("evt-a", "member@example.com")
	require.NoError(t, err)
	assert.True(t, registered)

	// Email matching is case-insensitive.
	registered, err = svc.CheckRegistration("evt-a", "Member@Example.COM")
	require.NoError(t, err)
	assert.True(t, registered)

	registered, err = svc.CheckRegistration("evt-b", "member@example.com")
	require.NoError(t, err)
	assert.False(t, registered)
}

func TestRegisterForEventIdempotent(t *testing.T) {
	svc := newTestService(t, sampleEvents())

	require.NoError(t, svc.RegisterForEvent("evt-a", "member@example.com"))
	require.NoError(t, svc.RegisterForEvent("evt-a", "MEMBER@example.com"))

	regs, err := svc.store.LoadRegistrations()
	require.NoError(t, err)
	assert.Len(t, regs, 1)
}

func TestRegisterForUnknownEvent(t *testing.T) {
	svc := newTestService(t, sampleEvents())
	err := svc.RegisterForEvent("evt-missing", "member@example.com")
	assert.True(t, errors.Is(err, ErrNotFound))
}
