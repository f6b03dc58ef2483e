// Package memory is an in-process stand-in for the remote wash backend,
// used in tests and for WASH_BACKEND=memory runs.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"washlog/internal/core"
	"washlog/internal/washapi"
)

type account struct {
	session  core.Session
	password string
}

type Store struct {
	mu       sync.Mutex
	accounts map[string]account // keyed by mobile
	vehicles map[string][]core.VehicleEntry
	nextID   int
}

// Ensure interface conformance
var _ washapi.Backend = (*Store)(nil)

func New() *Store {
	return &Store{
		accounts: make(map[string]account),
		vehicles: make(map[string][]core.VehicleEntry),
	}
}

func (s *Store) Login(_ context.Context, req core.LoginRequest) (core.Session, error) {
	if err := req.Validate(); err != nil {
		return core.Session{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[req.Mobile]
	if !ok || acc.password != req.Password {
		return core.Session{}, &washapi.ServerError{Message: "Invalid credentials"}
	}
	return acc.session, nil
}

func (s *Store) Register(_ context.Context, req core.SignupRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Mobile]; exists {
		return &washapi.ServerError{Message: "Mobile number already registered"}
	}
	s.nextID++
	s.accounts[req.Mobile] = account{
		session: core.Session{
			ID:     fmt.Sprintf("mem:%d", s.nextID),
			Name:   strings.TrimSpace(req.Name),
			Mobile: req.Mobile,
		},
		password: req.Password,
	}
	return nil
}

func (s *Store) ListVehicles(_ context.Context, userID string) ([]core.VehicleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.VehicleEntry, len(s.vehicles[userID]))
	copy(out, s.vehicles[userID])
	return out, nil
}

func (s *Store) AddVehicle(_ context.Context, userID string, e core.VehicleEntry) (core.VehicleEntry, bool, error) {
	if err := e.Validate(); err != nil {
		return core.VehicleEntry{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = fmt.Sprintf("mem:%d", s.nextID)
	e.CreatedAt = time.Now().UTC()
	e.Pending = false
	s.vehicles[userID] = append([]core.VehicleEntry{e}, s.vehicles[userID]...)
	return e, true, nil
}

func (s *Store) DeleteEntry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, entries := range s.vehicles {
		for i, e := range entries {
			if e.ID == id {
				s.vehicles[userID] = append(entries[:i:i], entries[i+1:]...)
				return nil
			}
		}
	}
	return &washapi.ServerError{Message: "Entry not found"}
}

// Seed installs entries for a user directly, bypassing validation.
func (s *Store) Seed(userID string, entries ...core.VehicleEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[userID] = append(s.vehicles[userID], entries...)
}
