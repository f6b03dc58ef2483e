package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"washlog/internal/catalog"
	"washlog/internal/core"
	"washlog/internal/services"
	"washlog/internal/washapi"
)

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	type row struct {
		Title       string
		Description string
		From        string
	}
	var data struct {
		SignedIn bool
		Services []row
	}
	data.SignedIn = s.auth.Current(r.Context()) != nil
	for _, svc := range catalog.Services() {
		data.Services = append(data.Services, row{
			Title:       svc.Title,
			Description: svc.Description,
			From:        formatRupees(svc.From.Paise),
		})
	}
	s.render(w, r, "services.html", data)
}

type entryRow struct {
	ID      string
	Type    string
	Number  string
	Model   string
	Price   string
	Payment string
	Time    string
	Pending bool
	Flagged bool
}

type summaryRow struct {
	Type  string
	Count int
	Total string
}

type entriesPage struct {
	Name       string
	Day        string
	Query      string
	Entries    []entryRow
	Summary    []summaryRow
	GrandCount int
	GrandTotal string
	Flagged    int
	Error      string
	Types      []core.VehicleType
}

// handleEntries renders the entry log for one calendar day, optionally
// narrowed by a search query. The view is cached per user, day and query.
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess := s.auth.Current(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	day := parseDayParam(r)
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	view, errMsg := s.entriesView(r, sess.ID, day, query)
	page := buildEntriesPage(sess.Name, day, query, view)
	page.Error = errMsg
	s.render(w, r, "entries.html", page)
}

// entriesView returns the filtered view, loading from the backend on a
// cache miss. When the backend is unreachable the last known projection is
// rendered with an error banner instead of a dead screen.
func (s *Server) entriesView(r *http.Request, userID string, day core.Day, query string) (entriesView, string) {
	key := userID + "|" + day.String() + "|" + strings.ToLower(query)
	if view, ok := s.viewCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Entries view cache hit", "day", day.String(), "query", query)
		return view, ""
	}

	errMsg := ""
	if _, err := s.entries.Load(r.Context(), userID); err != nil {
		slog.ErrorContext(r.Context(), "Entry log load failed", "error", err, "user_id", userID)
		_, errMsg = remoteErrorMessage(err)
	}

	entries, summary := s.entries.View(day, query)
	view := entriesView{Entries: entries, Summary: summary}
	if errMsg == "" {
		s.viewCache.Set(key, view)
	}
	return view, errMsg
}

func buildEntriesPage(name string, day core.Day, query string, view entriesView) entriesPage {
	page := entriesPage{
		Name:    name,
		Day:     day.String(),
		Query:   query,
		Flagged: view.Summary.Flagged,
		Types:   core.VehicleTypes(),
	}
	for _, e := range view.Entries {
		row := entryRow{
			ID:      e.ID,
			Type:    string(e.Type),
			Number:  e.Number,
			Model:   e.Model,
			Price:   formatRupees(e.Price.Paise),
			Payment: string(e.Payment),
			Pending: e.Pending,
			Flagged: e.PriceFlagged,
		}
		if !e.CreatedAt.IsZero() {
			row.Time = e.CreatedAt.UTC().Format("15:04")
		}
		page.Entries = append(page.Entries, row)
	}
	for _, vt := range core.VehicleTypes() {
		tt := view.Summary.ByType[vt]
		page.Summary = append(page.Summary, summaryRow{
			Type:  string(vt),
			Count: tt.Count,
			Total: formatRupees(tt.Total.Paise),
		})
	}
	grand := view.Summary.GrandTotal()
	page.GrandCount = grand.Count
	page.GrandTotal = formatRupees(grand.Total.Paise)
	return page
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess := s.auth.Current(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	priceStr := strings.TrimSpace(r.Form.Get("price"))
	paise, err := core.ParseDecimalToPaise(priceStr)
	if err != nil {
		s.entriesError(w, r, http.StatusUnprocessableEntity, "Invalid price")
		return
	}

	entry := core.VehicleEntry{
		Type:    core.NormalizeVehicleType(r.Form.Get("type")),
		Number:  sanitizeInput(r.Form.Get("number")),
		Model:   sanitizeInput(r.Form.Get("model")),
		Price:   core.Money{Paise: paise},
		Payment: core.Payment(strings.ToLower(sanitizeInput(r.Form.Get("payment")))),
	}

	created, err := s.entries.Add(r.Context(), sess.ID, entry)
	if err != nil {
		status, msg := remoteErrorMessage(err)
		slog.WarnContext(r.Context(), "Add entry failed", "error", err, "user_id", sess.ID)
		s.entriesError(w, r, status, msg)
		return
	}

	s.viewCache.Purge()
	slog.InfoContext(r.Context(), "Entry added",
		"user_id", sess.ID,
		"entry_id", created.ID,
		"vehicle_type", string(created.Type),
		"price_paise", created.Price.Paise,
		"pending", created.Pending)
	http.Redirect(w, r, entriesURL(r.Form.Get("date"), r.Form.Get("q")), http.StatusSeeOther)
}

// handleDeleteEntry removes one entry. The first submit renders a
// confirmation page; only its second submit carries confirm=yes, so no
// delete reaches the backend without the user's explicit confirmation.
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess := s.auth.Current(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		s.entriesError(w, r, http.StatusBadRequest, "Missing entry id")
		return
	}
	if r.Form.Get("confirm") != "yes" {
		s.renderDeleteConfirm(w, r, id)
		return
	}

	if err := s.entries.Remove(r.Context(), sess.ID, id); err != nil {
		// The delete itself may have landed even when the reload did
		// not; cached views would keep showing the deleted entry.
		if errors.Is(err, services.ErrReloadFailed) {
			s.viewCache.Purge()
		}
		status, msg := remoteErrorMessage(err)
		slog.WarnContext(r.Context(), "Delete entry failed", "error", err, "entry_id", id)
		s.entriesError(w, r, status, msg)
		return
	}

	s.viewCache.Purge()
	slog.InfoContext(r.Context(), "Entry deleted", "user_id", sess.ID, "entry_id", id)
	http.Redirect(w, r, entriesURL(r.Form.Get("date"), r.Form.Get("q")), http.StatusSeeOther)
}

// renderDeleteConfirm shows the interstitial confirmation page for one
// entry. Its form is the only place confirm=yes originates.
func (s *Server) renderDeleteConfirm(w http.ResponseWriter, r *http.Request, id string) {
	day := strings.TrimSpace(r.Form.Get("date"))
	query := strings.TrimSpace(r.Form.Get("q"))
	data := struct {
		ID     string
		Found  bool
		Type   string
		Number string
		Model  string
		Price  string
		Day    string
		Query  string
		Cancel string
	}{ID: id, Day: day, Query: query, Cancel: entriesURL(day, query)}

	for _, e := range s.entries.Entries() {
		if e.ID == id {
			data.Found = true
			data.Type = string(e.Type)
			data.Number = e.Number
			data.Model = e.Model
			data.Price = formatRupees(e.Price.Paise)
			break
		}
	}
	s.render(w, r, "confirm_delete.html", data)
}

// entriesError re-renders the entries screen with an error banner, keeping
// the current view intact.
func (s *Server) entriesError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	sess := s.auth.Current(r.Context())
	if sess == nil {
		http.Error(w, msg, status)
		return
	}
	day := core.Today()
	if d, err := core.ParseDay(strings.TrimSpace(r.Form.Get("date"))); err == nil {
		day = d
	}
	query := strings.TrimSpace(r.Form.Get("q"))

	entries, summary := s.entries.View(day, query)
	page := buildEntriesPage(sess.Name, day, query, entriesView{Entries: entries, Summary: summary})
	page.Error = msg
	w.WriteHeader(status)
	s.render(w, r, "entries.html", page)
}

func entriesURL(date, query string) string {
	v := url.Values{}
	if date = strings.TrimSpace(date); date != "" {
		v.Set("date", date)
	}
	if query = strings.TrimSpace(query); query != "" {
		v.Set("q", query)
	}
	if len(v) == 0 {
		return "/entries"
	}
	return "/entries?" + v.Encode()
}

// remoteErrorMessage maps a failed backend operation to a status code and
// user-facing message. Server messages pass through verbatim.
func remoteErrorMessage(err error) (int, string) {
	if errors.Is(err, services.ErrBusy) {
		return http.StatusConflict, "Previous request still in progress"
	}
	if errors.Is(err, services.ErrReloadFailed) {
		return http.StatusBadGateway, "Entry deleted, but the list could not be refreshed. Please reload."
	}
	if se, ok := washapi.AsServerError(err); ok {
		return http.StatusUnprocessableEntity, se.Message
	}
	if errors.Is(err, washapi.ErrUnavailable) {
		return http.StatusBadGateway, "Server not reachable. Please try again."
	}
	return http.StatusUnprocessableEntity, err.Error()
}
