// Package storage persists the event dataset and the scraper's bookkeeping
// files (registrations, cached session cookie) as JSON in a data directory.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AndrewHUNGNguyen/devx-events/internal/event"
)

const (
	registrationsFile = "registrations.json"
	cookieFile        = "manage-cookie.enc"
)

// Store handles persistence rooted at a data directory.
type Store struct {
	dataDir    string
	eventsFile string
}

// New creates a Store, expanding a leading ~/ and creating the directory if
// needed.
func New(dataDir, eventsFile string) (*Store, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{dataDir: dataDir, eventsFile: eventsFile}, nil
}

// EventsPath returns the dataset location.
func (s *Store) EventsPath() string {
	return filepath.Join(s.dataDir, s.eventsFile)
}

// LoadEvents reads the persisted dataset. A missing file is a fresh start,
// not an error.
func (s *Store) LoadEvents() ([]*event.Event, error) {
	data, err := os.ReadFile(s.EventsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading events: %w", err)
	}

	var events []*event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing events: %w", err)
	}
	return events, nil
}

// SaveEvents overwrites the dataset. The file is tab-indented with a
// trailing newline to stay byte-compatible with the file the site already
// tracks. Callers only invoke this after the full merge has completed in
// memory, so a crash mid-run never corrupts the previous dataset.
func (s *Store) SaveEvents(events []*event.Event) error {
	data, err := json.MarshalIndent(events, "", "\t")
	if err != nil {
		return fmt.Errorf("encoding events: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.EventsPath(), data, 0644); err != nil {
		return fmt.Errorf("writing events: %w", err)
	}
	return nil
}

// Registration records a local RSVP against an event.
type Registration struct {
	EventID      string    `json:"event_id"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// LoadRegistrations reads the local registration log. Missing file means
// no registrations yet.
func (s *Store) LoadRegistrations() ([]Registration, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, registrationsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading registrations: %w", err)
	}

	var regs []Registration
	if err := json.Unmarshal(data, &regs); err != nil {
		return nil, fmt.Errorf("parsing registrations: %w", err)
	}
	return regs, nil
}

// SaveRegistrations overwrites the registration log.
func (s *Store) SaveRegistrations(regs []Registration) error {
	data, err := json.MarshalIndent(regs, "", "\t")
	if err != nil {
		return fmt.Errorf("encoding registrations: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(filepath.Join(s.dataDir, registrationsFile), data, 0600); err != nil {
		return fmt.Errorf("writing registrations: %w", err)
	}
	return nil
}

// SaveCookie caches the (already encrypted) manage-calendar session cookie.
func (s *Store) SaveCookie(encrypted string) error {
	path := filepath.Join(s.dataDir, cookieFile)
	if err := os.WriteFile(path, []byte(encrypted), 0600); err != nil {
		return fmt.Errorf("writing cookie cache: %w", err)
	}
	return nil
}

// LoadCookie returns the cached encrypted cookie, or "" when none exists.
func (s *Store) LoadCookie() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, cookieFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading cookie cache: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
