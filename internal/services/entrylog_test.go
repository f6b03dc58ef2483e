package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"washlog/internal/core"
	"washlog/internal/washapi"
)

type fakeBackend struct {
	mu         sync.Mutex
	entries    []core.VehicleEntry
	listCalls  int
	listErr    error
	echo       bool
	addErr     error
	deleteErr  error
	deletedIDs []string
	block      chan struct{}
}

func (f *fakeBackend) ListVehicles(ctx context.Context, userID string) ([]core.VehicleEntry, error) {
	f.mu.Lock()
	f.listCalls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.VehicleEntry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeBackend) AddVehicle(ctx context.Context, userID string, e core.VehicleEntry) (core.VehicleEntry, bool, error) {
	if f.addErr != nil {
		return core.VehicleEntry{}, false, f.addErr
	}
	if !f.echo {
		return core.VehicleEntry{}, false, nil
	}
	e.ID = "srv-1"
	e.CreatedAt = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	f.mu.Lock()
	f.entries = append([]core.VehicleEntry{e}, f.entries...)
	f.mu.Unlock()
	return e, true, nil
}

func (f *fakeBackend) DeleteEntry(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedIDs = append(f.deletedIDs, id)
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

func validEntry() core.VehicleEntry {
	return core.VehicleEntry{
		Type:    core.FourWheeler,
		Number:  "KA01AB1234",
		Model:   "Swift",
		Price:   core.Money{Paise: 30000},
		Payment: core.PayCash,
	}
}

func TestLoadReplacesProjection(t *testing.T) {
	backend := &fakeBackend{entries: []core.VehicleEntry{
		{ID: "a", Type: core.TwoWheeler, Number: "KA01", Model: "Activa", Price: core.Money{Paise: 10000}, Payment: core.PayCash},
	}}
	log := NewEntryLog(backend, backend, backend)

	got, err := log.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected entries: %+v", got)
	}

	backend.mu.Lock()
	backend.entries = nil
	backend.mu.Unlock()
	if got, err = log.Load(context.Background(), "u1"); err != nil || len(got) != 0 {
		t.Fatalf("reload must replace wholesale, got %v err=%v", got, err)
	}
}

func TestLoadFailureKeepsPriorProjection(t *testing.T) {
	backend := &fakeBackend{entries: []core.VehicleEntry{{ID: "a"}}}
	log := NewEntryLog(backend, backend, backend)
	if _, err := log.Load(context.Background(), "u1"); err != nil {
		t.Fatalf("load: %v", err)
	}

	backend.listErr = washapi.ErrUnavailable
	if _, err := log.Load(context.Background(), "u1"); !errors.Is(err, washapi.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if got := log.Entries(); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("failed reload must not touch the projection, got %+v", got)
	}
}

func TestLoadIsIdempotentWithoutWrites(t *testing.T) {
	day := core.NewDay(2026, time.March, 14)
	backend := &fakeBackend{entries: []core.VehicleEntry{
		{ID: "a", Type: core.TwoWheeler, Number: "KA01AB1111", Price: core.Money{Paise: 10000}, CreatedAt: day.Time.Add(9 * time.Hour)},
		{ID: "b", Type: core.FourWheeler, Number: "KA02CD2222", Price: core.Money{Paise: 30000}, CreatedAt: day.Time.Add(15 * time.Hour)},
	}}
	log := NewEntryLog(backend, backend, backend)

	if _, err := log.Load(context.Background(), "u1"); err != nil {
		t.Fatalf("first load: %v", err)
	}
	first, firstSummary := log.View(day, "")

	if _, err := log.Load(context.Background(), "u1"); err != nil {
		t.Fatalf("second load: %v", err)
	}
	second, secondSummary := log.View(day, "")

	if len(first) != len(second) {
		t.Fatalf("repeated load changed the view: %d vs %d entries", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("entry %d differs: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
	if firstSummary.GrandTotal() != secondSummary.GrandTotal() {
		t.Fatalf("repeated load changed the summary: %+v vs %+v",
			firstSummary.GrandTotal(), secondSummary.GrandTotal())
	}
}

func TestConcurrentLoadsCollapse(t *testing.T) {
	backend := &fakeBackend{block: make(chan struct{})}
	log := NewEntryLog(backend, backend, backend)

	const n = 5
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Load(context.Background(), "u1")
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(backend.block)
	wg.Wait()

	backend.mu.Lock()
	calls := backend.listCalls
	backend.mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected 1 backend call for %d concurrent loads, got %d", n, calls)
	}
}

func TestAddValidatesBeforeNetwork(t *testing.T) {
	backend := &fakeBackend{addErr: errors.New("must not be reached")}
	log := NewEntryLog(backend, backend, backend)

	e := validEntry()
	e.Number = "  "
	if _, err := log.Add(context.Background(), "u1", e); !errors.Is(err, core.ErrEmptyNumber) {
		t.Fatalf("expected ErrEmptyNumber, got %v", err)
	}
	if got := log.Entries(); len(got) != 0 {
		t.Fatalf("invalid add must not touch the projection, got %+v", got)
	}
}

func TestAddPrependsEchoedEntry(t *testing.T) {
	backend := &fakeBackend{echo: true, entries: []core.VehicleEntry{{ID: "old"}}}
	log := NewEntryLog(backend, backend, backend)
	if _, err := log.Load(context.Background(), "u1"); err != nil {
		t.Fatalf("load: %v", err)
	}

	created, err := log.Add(context.Background(), "u1", validEntry())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID != "srv-1" || created.Pending {
		t.Fatalf("echoed record expected, got %+v", created)
	}
	got := log.Entries()
	if len(got) != 2 || got[0].ID != "srv-1" {
		t.Fatalf("created entry must be prepended, got %+v", got)
	}
}

func TestAddWithoutEchoTagsPending(t *testing.T) {
	backend := &fakeBackend{}
	log := NewEntryLog(backend, backend, backend)

	before := time.Now().UTC()
	created, err := log.Add(context.Background(), "u1", validEntry())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !created.Pending {
		t.Fatalf("placeholder must be pending: %+v", created)
	}
	if !strings.HasPrefix(created.ID, "pending-") {
		t.Fatalf("placeholder id must be synthetic, got %q", created.ID)
	}
	if created.CreatedAt.Before(before) {
		t.Fatalf("placeholder must carry a client timestamp, got %v", created.CreatedAt)
	}
}

func TestAddFailureLeavesProjectionUntouched(t *testing.T) {
	backend := &fakeBackend{addErr: &washapi.ServerError{StatusCode: 400, Message: "duplicate"}}
	log := NewEntryLog(backend, backend, backend)

	_, err := log.Add(context.Background(), "u1", validEntry())
	var se *washapi.ServerError
	if !errors.As(err, &se) || se.Message != "duplicate" {
		t.Fatalf("server message must survive verbatim, got %v", err)
	}
	if got := log.Entries(); len(got) != 0 {
		t.Fatalf("failed add must not touch the projection, got %+v", got)
	}
}

func TestRemoveReloadsAfterDelete(t *testing.T) {
	backend := &fakeBackend{entries: []core.VehicleEntry{{ID: "a"}, {ID: "b"}}}
	log := NewEntryLog(backend, backend, backend)
	if _, err := log.Load(context.Background(), "u1"); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := log.Remove(context.Background(), "u1", "a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := log.Entries(); len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("projection must reflect the authoritative reload, got %+v", got)
	}
	if len(backend.deletedIDs) != 1 || backend.deletedIDs[0] != "a" {
		t.Fatalf("unexpected deletes: %v", backend.deletedIDs)
	}
}

func TestRemoveFailureKeepsProjection(t *testing.T) {
	backend := &fakeBackend{entries: []core.VehicleEntry{{ID: "a"}}}
	log := NewEntryLog(backend, backend, backend)
	if _, err := log.Load(context.Background(), "u1"); err != nil {
		t.Fatalf("load: %v", err)
	}

	backend.deleteErr = washapi.ErrUnavailable
	if err := log.Remove(context.Background(), "u1", "a"); !errors.Is(err, washapi.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if got := log.Entries(); len(got) != 1 {
		t.Fatalf("failed delete must not touch the projection, got %+v", got)
	}
}

func TestRemoveTagsFailedReload(t *testing.T) {
	backend := &fakeBackend{entries: []core.VehicleEntry{{ID: "a"}, {ID: "b"}}}
	log := NewEntryLog(backend, backend, backend)
	if _, err := log.Load(context.Background(), "u1"); err != nil {
		t.Fatalf("load: %v", err)
	}

	backend.listErr = washapi.ErrUnavailable
	if err := log.Remove(context.Background(), "u1", "a"); !errors.Is(err, ErrReloadFailed) {
		t.Fatalf("expected ErrReloadFailed, got %v", err)
	}
	if len(backend.deletedIDs) != 1 || backend.deletedIDs[0] != "a" {
		t.Fatalf("delete must have reached the backend, got %v", backend.deletedIDs)
	}
	if got := log.Entries(); len(got) != 2 {
		t.Fatalf("failed reload must not touch the projection, got %+v", got)
	}
}

func TestViewFiltersAndSummarizes(t *testing.T) {
	day := core.NewDay(2026, time.March, 14)
	backend := &fakeBackend{entries: []core.VehicleEntry{
		{ID: "a", Type: core.TwoWheeler, Number: "KA01AB1111", Price: core.Money{Paise: 10000}, CreatedAt: day.Time.Add(9 * time.Hour)},
		{ID: "b", Type: core.FourWheeler, Number: "KA02CD2222", Price: core.Money{Paise: 30000}, CreatedAt: day.Time.Add(15 * time.Hour)},
		{ID: "c", Type: core.FourWheeler, Number: "KA03EF3333", Price: core.Money{Paise: 30000}, CreatedAt: day.Time.AddDate(0, 0, -1)},
	}}
	log := NewEntryLog(backend, backend, backend)
	if _, err := log.Load(context.Background(), "u1"); err != nil {
		t.Fatalf("load: %v", err)
	}

	entries, summary := log.View(day, "ka02")
	if len(entries) != 1 || entries[0].ID != "b" {
		t.Fatalf("expected only the matching same-day entry, got %+v", entries)
	}
	if got := summary.GrandTotal(); got.Count != 1 || got.Total.Paise != 30000 {
		t.Fatalf("summary must cover the filtered view, got %+v", got)
	}
}
