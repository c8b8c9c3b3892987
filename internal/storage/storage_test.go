package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewHUNGNguyen/devx-events/internal/event"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir(), "events.json")
	require.NoError(t, err)
	return store
}

func TestLoadEventsMissingFile(t *testing.T) {
	store := newTestStore(t)
	events, err := store.LoadEvents()
	require.NoError(t, err)
	assert.Nil(t, events)
}

func TestSaveAndLoadEvents(t *testing.T) {
	store := newTestStore(t)
	in := []*event.Event{
		{
			ID:         "evt-a",
			Name:       "AI Builders Night",
			StartAt:    time.Date(2025, 6, 12, 1, 30, 0, 0, time.UTC),
			EndAt:      time.Date(2025, 6, 12, 4, 0, 0, 0, time.UTC),
			URL:        "https://lu.ma/evt-a",
			GuestCount: 42,
			Visibility: event.VisibilityPublic,
		},
		{
			ID:         "evt-b",
			Name:       "Hardware Hack Day",
			GuestCount: event.GuestCountUnknown,
		},
	}
	require.NoError(t, store.SaveEvents(in))

	out, err := store.LoadEvents()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "evt-a", out[0].ID)
	assert.Equal(t, 42, out[0].GuestCount)
	assert.Equal(t, event.GuestCountUnknown, out[1].GuestCount)
}

func TestSaveEventsFileFormat(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveEvents([]*event.Event{{ID: "evt-a", Name: "Meetup"}}))

	data, err := os.ReadFile(store.EventsPath())
	require.NoError(t, err)

	// The dataset file is tab-indented with a trailing newline.
	assert.True(t, strings.HasSuffix(string(data), "\n"), "file should end with a newline")
	assert.Contains(t, string(data), "\t\"api_id\": \"evt-a\"")
	assert.False(t, strings.Contains(string(data), "  \"api_id\""), "indentation should be tabs, not spaces")
}

func TestSaveEventsCorruptDataset(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.EventsPath(), []byte("not json"), 0644))

	_, err := store.LoadEvents()
	assert.Error(t, err)
}

func TestRegistrations(t *testing.T) {
	store := newTestStore(t)

	regs, err := store.LoadRegistrations()
	require.NoError(t, err)
	assert.Empty(t, regs)

	in := []Registration{{
		EventID:      "evt-a",
		Email:        "member@example.com",
		RegisteredAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}}
	require.NoError(t, store.SaveRegistrations(in))

	out, err := store.LoadRegistrations()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "evt-a", out[0].EventID)
	assert.Equal(t, "member@example.com", out[0].Email)
}

func TestCookieCache(t *testing.T) {
	store := newTestStore(t)

	cookie, err := store.LoadCookie()
	require.NoError(t, err)
	assert.Empty(t, cookie)

	require.NoError(t, store.SaveCookie("sealed-payload"))
	cookie, err = store.LoadCookie()
	require.NoError(t, err)
	assert.Equal(t, "sealed-payload", cookie)
}

func TestNewCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := New(dir, "events.json")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
