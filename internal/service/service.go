// Package service exposes the event dataset to the rest of the application
// behind a small read/register facade. The static implementation serves the
// file the scraper maintains; a live third-party API variant satisfies the
// same interface elsewhere.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AndrewHUNGNguyen/devx-events/internal/event"
	"github.com/AndrewHUNGNguyen/devx-events/internal/storage"
)

// ErrNotFound reports an unknown event ID.
var ErrNotFound = errors.New("event not found")

// Service is the contract the site consumes.
type Service interface {
	ListEvents() ([]*event.Event, error)
	GetEvent(id string) (*event.Event, error)
	RegisterForEvent(id, email string) error
	CheckRegistration(id, email string) (bool, error)
}

// Static serves the persisted dataset and keeps registration bookkeeping in
// a local file.
type Static struct {
	store  *storage.Store
	events []*event.Event
	loaded bool
}

// NewStatic creates a Static service over a store.
func NewStatic(store *storage.Store) *Static {
	return &Static{store: store}
}

func (s *Static) load() ([]*event.Event, error) {
	if s.loaded {
		return s.events, nil
	}
	events, err := s.store.LoadEvents()
	if err != nil {
		return nil, err
	}
	s.events = events
	s.loaded = true
	return events, nil
}

// ListEvents returns every event in the dataset.
func (s *Static) ListEvents() ([]*event.Event, error) {
	return s.load()
}

// GetEvent returns the event with the given ID, or ErrNotFound.
func (s *Static) GetEvent(id string) (*event.Event, error) {
	events, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, evt := range events {
		if evt.ID == id {
			return evt, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// RegisterForEvent records a local registration after verifying the event
// exists. Duplicate registrations are idempotent.
func (s *Static) RegisterForEvent(id, email string) error {
	if _, err := s.GetEvent(id); err != nil {
		return err
	}

	regs, err := s.store.LoadRegistrations()
	if err != nil {
		return err
	}
	for _, reg := range regs {
		if reg.EventID == id && strings.EqualFold(reg.Email, email) {
			return nil
		}
	}

	regs = append(regs, storage.Registration{
		EventID:      id,
		Email:        email,
		RegisteredAt: time.Now().UTC(),
	})
	return s.store.SaveRegistrations(regs)
}

// CheckRegistration reports whether the email has registered for the event.
func (s *Static) CheckRegistration(id, email string) (bool, error) {
	regs, err := s.store.LoadRegistrations()
	if err != nil {
		return false, err
	}
	for _, reg := range regs {
		if reg.EventID == id && strings.EqualFold(reg.Email, email) {
			return true, nil
		}
	}
	return false, nil
}
