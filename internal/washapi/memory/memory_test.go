package memory

import (
	"context"
	"testing"

	"washlog/internal/core"
)

func TestRegisterLoginRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	req := core.SignupRequest{Name: "Ravi", Mobile: "9876543210", Password: "secret1", ConfirmPassword: "secret1"}
	if err := s.Register(ctx, req); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.Register(ctx, req); err == nil {
		t.Fatalf("duplicate mobile must be rejected")
	}

	sess, err := s.Login(ctx, core.LoginRequest{Mobile: "9876543210", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Name != "Ravi" || sess.ID == "" {
		t.Fatalf("unexpected session %+v", sess)
	}

	if _, err := s.Login(ctx, core.LoginRequest{Mobile: "9876543210", Password: "nope"}); err == nil {
		t.Fatalf("wrong password must fail")
	}
}

func TestVehicleLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, echoed, err := s.AddVehicle(ctx, "u1", core.VehicleEntry{
		Type: core.TwoWheeler, Number: "MH12AB1234", Model: "Splendor",
		Price: core.Money{Paise: 10000}, Payment: core.PayCash,
	})
	if err != nil || !echoed {
		t.Fatalf("add: echoed=%v err=%v", echoed, err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("created record must carry id and timestamp: %+v", created)
	}

	entries, err := s.ListVehicles(ctx, "u1")
	if err != nil || len(entries) != 1 {
		t.Fatalf("list: %v %d", err, len(entries))
	}

	if err := s.DeleteEntry(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteEntry(ctx, created.ID); err == nil {
		t.Fatalf("deleting a missing entry must fail")
	}

	if _, _, err := s.AddVehicle(ctx, "u1", core.VehicleEntry{}); err != core.ErrEmptyType {
		t.Fatalf("invalid entry must be rejected before storage, got %v", err)
	}
}
