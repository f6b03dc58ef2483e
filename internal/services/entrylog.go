// Package services orchestrates the screens' use cases over the remote
// backend and the local session store.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"washlog/internal/core"
	"washlog/internal/washapi"
)

// ErrBusy is returned when the same action is re-triggered while a previous
// request for it is still in flight (rapid double-taps).
var ErrBusy = errors.New("previous request still in progress")

// ErrReloadFailed reports a delete that reached the backend while the
// followup reload did not. The projection may still hold the deleted entry
// until the next successful load.
var ErrReloadFailed = errors.New("reload after delete failed")

// EntryLog holds the read-mostly projection of one user's vehicle entries.
// The backend stays authoritative: a successful list replaces the projection
// wholesale, and failures never touch it.
type EntryLog struct {
	lister  washapi.VehicleLister
	writer  washapi.VehicleWriter
	deleter washapi.VehicleDeleter

	group singleflight.Group

	mu       sync.Mutex
	entries  []core.VehicleEntry
	inFlight map[string]bool
}

func NewEntryLog(l washapi.VehicleLister, w washapi.VehicleWriter, d washapi.VehicleDeleter) *EntryLog {
	return &EntryLog{
		lister:   l,
		writer:   w,
		deleter:  d,
		inFlight: make(map[string]bool),
	}
}

// Entries returns a snapshot copy of the projection.
func (el *EntryLog) Entries() []core.VehicleEntry {
	el.mu.Lock()
	defer el.mu.Unlock()
	out := make([]core.VehicleEntry, len(el.entries))
	copy(out, el.entries)
	return out
}

// Load fetches all entries for the user and, on success, replaces the
// projection. Concurrent loads for the same user collapse into one request.
// On failure the prior projection stays untouched.
func (el *EntryLog) Load(ctx context.Context, userID string) ([]core.VehicleEntry, error) {
	v, err, _ := el.group.Do("list:"+userID, func() (any, error) {
		entries, err := el.lister.ListVehicles(ctx, userID)
		if err != nil {
			return nil, err
		}
		el.mu.Lock()
		el.entries = entries
		el.mu.Unlock()
		slog.InfoContext(ctx, "Entry log reloaded", "user_id", userID, "count", len(entries))
		return entries, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	return v.([]core.VehicleEntry), nil
}

// Add validates the entry, sends it to the backend and prepends the created
// record so the screen reflects the write without a full reload. When the
// backend does not echo the record, a Pending placeholder with a synthetic id
// and client timestamp stands in until the next reload reconciles it.
func (el *EntryLog) Add(ctx context.Context, userID string, e core.VehicleEntry) (core.VehicleEntry, error) {
	if err := e.Validate(); err != nil {
		return core.VehicleEntry{}, err
	}
	if !el.begin("add") {
		return core.VehicleEntry{}, ErrBusy
	}
	defer el.end("add")

	created, echoed, err := el.writer.AddVehicle(ctx, userID, e)
	if err != nil {
		return core.VehicleEntry{}, fmt.Errorf("add entry: %w", err)
	}
	if !echoed {
		created = e
		created.ID = "pending-" + uuid.NewString()
		created.CreatedAt = time.Now().UTC()
		created.Pending = true
		slog.InfoContext(ctx, "Backend did not echo created entry, tagging as pending",
			"user_id", userID, "placeholder_id", created.ID)
	}

	el.mu.Lock()
	el.entries = append([]core.VehicleEntry{created}, el.entries...)
	el.mu.Unlock()
	return created, nil
}

// Remove deletes the entry and re-syncs the projection from the backend, as
// the local copy may be stale. Callers are responsible for having asked the
// user to confirm first.
func (el *EntryLog) Remove(ctx context.Context, userID, id string) error {
	if !el.begin("delete") {
		return ErrBusy
	}
	defer el.end("delete")

	if err := el.deleter.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if _, err := el.Load(ctx, userID); err != nil {
		return fmt.Errorf("%w: %v", ErrReloadFailed, err)
	}
	return nil
}

// View filters the projection by calendar day and query, in that order, and
// summarizes the result. Both filters are pure; order does not matter.
func (el *EntryLog) View(day core.Day, query string) ([]core.VehicleEntry, core.Summary) {
	filtered := core.FilterByQuery(core.FilterByDate(el.Entries(), day), query)
	return filtered, core.Summarize(filtered)
}

func (el *EntryLog) begin(action string) bool {
	el.mu.Lock()
	defer el.mu.Unlock()
	if el.inFlight[action] {
		return false
	}
	el.inFlight[action] = true
	return true
}

func (el *EntryLog) end(action string) {
	el.mu.Lock()
	delete(el.inFlight, action)
	el.mu.Unlock()
}
