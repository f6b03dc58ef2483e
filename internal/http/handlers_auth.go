package http

import (
	"errors"
	"log/slog"
	"net/http"

	"washlog/internal/core"
	"washlog/internal/washapi"
)

// handleIndex is the session gate: a stored session renders the home
// dashboard, none redirects to login. No flicker state in between.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	sess := s.auth.Current(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	entries, summary := s.entries.View(core.Today(), "")
	data := struct {
		Name       string
		Today      string
		TodayCount int
		TodayTotal string
	}{
		Name:       sess.Name,
		Today:      core.Today().String(),
		TodayCount: len(entries),
		TodayTotal: formatRupees(summary.GrandTotal().Total.Paise),
	}
	s.render(w, r, "home.html", data)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if s.auth.Current(r.Context()) != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		registered := r.URL.Query().Get("registered") == "1"
		s.render(w, r, "login.html", loginData{Registered: registered})
	case http.MethodPost:
		s.handleLoginPost(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type loginData struct {
	Error      string
	Mobile     string
	Registered bool
}

func (s *Server) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, r, "login.html", loginData{Error: "Invalid request"})
		return
	}

	req := core.LoginRequest{
		Mobile:   sanitizeInput(r.Form.Get("mobile")),
		Password: r.Form.Get("password"),
	}
	_, err := s.auth.Login(r.Context(), req)
	if err != nil {
		status, msg := authErrorMessage(err)
		slog.WarnContext(r.Context(), "Login failed", "mobile", req.Mobile, "error", err)
		w.WriteHeader(status)
		s.render(w, r, "login.html", loginData{Error: msg, Mobile: req.Mobile})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "signup.html", signupData{})
	case http.MethodPost:
		s.handleSignupPost(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type signupData struct {
	Error  string
	Name   string
	Mobile string
}

func (s *Server) handleSignupPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, r, "signup.html", signupData{Error: "Invalid request"})
		return
	}

	req := core.SignupRequest{
		Name:            sanitizeInput(r.Form.Get("name")),
		Mobile:          sanitizeInput(r.Form.Get("mobile")),
		Password:        r.Form.Get("password"),
		ConfirmPassword: r.Form.Get("confirm_password"),
	}
	if err := s.auth.Signup(r.Context(), req); err != nil {
		status, msg := authErrorMessage(err)
		slog.WarnContext(r.Context(), "Signup failed", "mobile", req.Mobile, "error", err)
		w.WriteHeader(status)
		s.render(w, r, "signup.html", signupData{Error: msg, Name: req.Name, Mobile: req.Mobile})
		return
	}
	http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.auth.Logout(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Logout failed", "error", err)
		http.Error(w, "Could not sign out", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// authErrorMessage maps an auth failure to a status code and the message
// shown to the user. Server-reported messages pass through verbatim.
func authErrorMessage(err error) (int, string) {
	if se, ok := washapi.AsServerError(err); ok {
		return http.StatusUnprocessableEntity, se.Message
	}
	if errors.Is(err, washapi.ErrUnavailable) {
		return http.StatusBadGateway, "Server not reachable. Please try again."
	}
	return http.StatusUnprocessableEntity, err.Error()
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
	}
}
