// Package washapi talks to the remote wash-center REST backend. The backend
// owns all vehicle data; this package only holds a typed projection of its
// {success, message, data} envelopes.
package washapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"washlog/internal/core"
)

const DefaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	httpc   *http.Client
}

// Ensure interface conformance
var (
	_ Authenticator  = (*Client)(nil)
	_ VehicleLister  = (*Client)(nil)
	_ VehicleWriter  = (*Client)(nil)
	_ VehicleDeleter = (*Client)(nil)
	_ Backend        = (*Client)(nil)
)

// NewClient builds a client for the given base URL. One timeout applies to
// every call; per-request contexts may shorten it further.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// envelope is the wire shape every endpoint responds with.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type sessionRecord struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

// vehicleRecord tolerates the backend's loose typing: ids under "id" or
// "_id", prices as number or string.
type vehicleRecord struct {
	ID        string          `json:"id"`
	MongoID   string          `json:"_id"`
	Type      string          `json:"type"`
	Number    string          `json:"number"`
	Model     string          `json:"model"`
	Price     json.RawMessage `json:"price"`
	Payment   string          `json:"payment"`
	CreatedAt string          `json:"createdAt"`
}

type credentialsBody struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type registerBody struct {
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type addVehicleBody struct {
	User    string  `json:"user"`
	Type    string  `json:"type"`
	Number  string  `json:"number"`
	Model   string  `json:"model"`
	Price   float64 `json:"price"`
	Payment string  `json:"payment"`
}

func (c *Client) Login(ctx context.Context, req core.LoginRequest) (core.Session, error) {
	if err := req.Validate(); err != nil {
		return core.Session{}, err
	}
	env, err := c.do(ctx, http.MethodPost, "/api/signin", credentialsBody{
		Mobile:   req.Mobile,
		Password: req.Password,
	})
	if err != nil {
		return core.Session{}, err
	}
	var rec sessionRecord
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		return core.Session{}, fmt.Errorf("decode session data: %w", err)
	}
	return core.Session{ID: rec.ID, Name: rec.Name, Mobile: rec.Mobile}, nil
}

func (c *Client) Register(ctx context.Context, req core.SignupRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPost, "/api/register", registerBody{
		Name:     req.Name,
		Mobile:   req.Mobile,
		Password: req.Password,
	})
	return err
}

func (c *Client) ListVehicles(ctx context.Context, userID string) ([]core.VehicleEntry, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/getVehicles/user/"+userID, nil)
	if err != nil {
		return nil, err
	}
	var recs []vehicleRecord
	if err := json.Unmarshal(env.Data, &recs); err != nil {
		return nil, fmt.Errorf("decode vehicle list: %w", err)
	}
	entries := make([]core.VehicleEntry, len(recs))
	for i, r := range recs {
		entries[i] = r.toEntry(ctx)
	}
	return entries, nil
}

func (c *Client) AddVehicle(ctx context.Context, userID string, e core.VehicleEntry) (core.VehicleEntry, bool, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/addVehicle", addVehicleBody{
		User:    userID,
		Type:    string(e.Type),
		Number:  e.Number,
		Model:   e.Model,
		Price:   e.Price.Rupees(),
		Payment: string(e.Payment),
	})
	if err != nil {
		return core.VehicleEntry{}, false, err
	}
	// Older backend revisions reply without the created record.
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return core.VehicleEntry{}, false, nil
	}
	var rec vehicleRecord
	if err := json.Unmarshal(env.Data, &rec); err != nil || rec.id() == "" {
		return core.VehicleEntry{}, false, nil
	}
	return rec.toEntry(ctx), true, nil
}

func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/delentry/"+id, nil)
	return err
}

// do issues one request and peels the envelope. Transport problems wrap
// ErrUnavailable; anything the server reported becomes a ServerError.
func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var payload *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(b)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &ServerError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("decode response for %s %s: %w", method, path, err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: msg}
	}
	return &env, nil
}

func (r vehicleRecord) id() string {
	if r.ID != "" {
		return r.ID
	}
	return r.MongoID
}

func (r vehicleRecord) toEntry(ctx context.Context) core.VehicleEntry {
	e := core.VehicleEntry{
		ID:      r.id(),
		Type:    core.VehicleType(r.Type),
		Number:  r.Number,
		Model:   r.Model,
		Payment: core.Payment(r.Payment),
	}

	paise, ok := parsePrice(r.Price)
	if !ok {
		// Counted as zero but flagged, never dropped.
		slog.WarnContext(ctx, "Unparseable price on vehicle entry",
			"id", e.ID, "raw", string(r.Price))
		e.PriceFlagged = true
	}
	e.Price = core.Money{Paise: paise}

	if r.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
			e.CreatedAt = ts
		} else {
			slog.WarnContext(ctx, "Unparseable createdAt on vehicle entry",
				"id", e.ID, "raw", r.CreatedAt)
		}
	}
	return e
}

// parsePrice accepts a JSON number or a quoted decimal string.
func parsePrice(raw json.RawMessage) (int64, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, false
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
	}
	if paise, err := core.ParseDecimalToPaise(s); err == nil {
		return paise, true
	}
	// Fall back for exotic but numeric forms (exponents).
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return int64(f*100 + 0.5), true
	}
	return 0, false
}
