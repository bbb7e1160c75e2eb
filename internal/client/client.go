// Package client is the Go client for the weekly planner HTTP API,
// used by the CLI. It carries the session token explicitly instead of
// a cookie jar so callers can persist it between runs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"weekplanner/internal/errs"
	"weekplanner/internal/model"
)

const cookieName = "token"

// Client talks to the planner server. Token may be empty for the
// public auth endpoints.
type Client struct {
	base  string
	http  *http.Client
	token string
}

// New constructs a Client for the given base URL, e.g. "http://localhost:8080".
func New(base string, token string) *Client {
	return &Client{
		base:  strings.TrimRight(base, "/"),
		http:  &http.Client{Timeout: 30 * time.Second},
		token: token,
	}
}

// Token returns the current session token (set after Signup/Login).
func (c *Client) Token() string { return c.token }

// --- auth ---

// Signup creates an account and captures the session token.
func (c *Client) Signup(ctx context.Context, email, password, name string) (*model.User, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	var u model.User
	if err := c.call(ctx, http.MethodPost, "/auth/signup", nil, body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login authenticates and captures the session token.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	body := map[string]string{"email": email, "password": password}
	var u model.User
	if err := c.call(ctx, http.MethodPost, "/auth/login", nil, body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Me returns the account behind the current session.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.call(ctx, http.MethodGet, "/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// --- events ---

// ListEvents returns the session user's events, optionally filtered.
func (c *Client) ListEvents(ctx context.Context, f model.EventFilters) ([]model.Event, error) {
	var events []model.Event
	if err := c.call(ctx, http.MethodGet, "/events", filterQuery(f), nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent returns one event by id.
func (c *Client) GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var ev model.Event
	if err := c.call(ctx, http.MethodGet, "/events/"+id.String(), nil, nil, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// CreateEvent creates an event for the session user.
func (c *Client) CreateEvent(ctx context.Context, in model.CreateEventInput) (*model.Event, error) {
	var ev model.Event
	if err := c.call(ctx, http.MethodPost, "/events", nil, in, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// UpdateEvent patches only the supplied fields.
func (c *Client) UpdateEvent(ctx context.Context, id uuid.UUID, upd model.UpdateEventInput) (*model.Event, error) {
	var ev model.Event
	if err := c.call(ctx, http.MethodPatch, "/events/"+id.String(), nil, upd, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/events/"+id.String(), nil, nil, nil)
}

// ExportICS downloads the user's calendar as an iCalendar document.
func (c *Client) ExportICS(ctx context.Context, f model.EventFilters) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/events/export.ics", filterQuery(f), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusErr(resp)
	}
	return io.ReadAll(resp.Body)
}

// --- user directory ---

// Users returns the full directory.
func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.call(ctx, http.MethodGet, "/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SearchUsers filters the full directory by case-insensitive substring
// match over name and email. The match runs client-side.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	users, err := c.Users(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return users, nil
	}
	q := strings.ToLower(query)
	var out []model.User
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), q) ||
			strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out, nil
}

// EventsByUser returns another user's events, read-only.
func (c *Client) EventsByUser(ctx context.Context, userID uuid.UUID) ([]model.Event, error) {
	var events []model.Event
	if err := c.call(ctx, http.MethodGet, "/events-by-user/"+userID.String(), nil, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// --- plumbing ---

func (c *Client) newRequest(ctx context.Context, method, path string, q url.Values, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(raw)
	}
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: c.token})
	}
	return req, nil
}

func (c *Client) call(ctx context.Context, method, path string, q url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, q, body)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusErr(resp)
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == cookieName && ck.Value != "" {
			c.token = ck.Value
		}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// statusErr maps an HTTP failure onto the error taxonomy, keeping the
// server's message when it sent one.
func statusErr(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	msg := payload.Error
	if msg == "" {
		msg = resp.Status
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		sentinel = errs.ErrValidation
	case http.StatusUnauthorized:
		sentinel = errs.ErrUnauthorized
	case http.StatusNotFound:
		sentinel = errs.ErrNotFound
	case http.StatusConflict:
		sentinel = errs.ErrConflict
	case http.StatusTooManyRequests:
		sentinel = errs.ErrRateLimited
	default:
		sentinel = errs.ErrUnavailable
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

func filterQuery(f model.EventFilters) url.Values {
	q := url.Values{}
	if !f.StartDate.IsZero() {
		q.Set("startDate", f.StartDate.Format(time.RFC3339))
	}
	if !f.EndDate.IsZero() {
		q.Set("endDate", f.EndDate.Format(time.RFC3339))
	}
	if f.Tag != "" {
		q.Set("tag", string(f.Tag))
	}
	return q
}
