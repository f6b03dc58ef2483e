package services

import (
	"context"
	"fmt"
	"log/slog"

	"washlog/internal/core"
	"washlog/internal/session"
	"washlog/internal/washapi"
)

// Auth gates the root screen: a stored session renders home, none renders
// login. It is the only place that writes or clears the session store.
type Auth struct {
	api      washapi.Authenticator
	sessions session.Store
}

func NewAuth(api washapi.Authenticator, sessions session.Store) *Auth {
	return &Auth{api: api, sessions: sessions}
}

// Login signs in against the backend and persists the returned identity.
// A failed session write is logged, not fatal: the user is signed in for
// this run and simply starts logged out next time.
func (a *Auth) Login(ctx context.Context, req core.LoginRequest) (core.Session, error) {
	if err := req.Validate(); err != nil {
		return core.Session{}, err
	}
	sess, err := a.api.Login(ctx, req)
	if err != nil {
		return core.Session{}, err
	}
	if err := a.sessions.Save(ctx, sess); err != nil {
		slog.WarnContext(ctx, "Signed in but session not persisted", "error", err)
	}
	return sess, nil
}

// Signup registers the account. The register endpoint does not return the
// backend-assigned user id, so no session is synthesized here; the user logs
// in afterwards to obtain the authoritative identity.
func (a *Auth) Signup(ctx context.Context, req core.SignupRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := a.api.Register(ctx, req); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Account registered", "mobile", req.Mobile)
	return nil
}

// Logout destroys the stored session.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Current returns the stored session, or nil when signed out. Storage read
// failures fail safe to the signed-out state inside the store.
func (a *Auth) Current(ctx context.Context) *core.Session {
	sess, err := a.sessions.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Session load failed, treating as signed out", "error", err)
		return nil
	}
	return sess
}
