// Package api is the typed client for the gym backend's mobile REST API.
// Wire shapes are decoded and normalized here, once; callers only see the
// canonical types in internal/models.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/gymtrack/internal/models"
)

// ErrUnauthorized is returned when the backend rejects the bearer token. The
// client clears the stored token before returning it, so callers only need to
// re-route to login.
var ErrUnauthorized = errors.New("unauthorized")

// TokenStore persists the bearer token between runs. *history.Store
// satisfies it.
type TokenStore interface {
	Token() (string, bool)
	SetToken(token string) error
	ClearToken() error
}

// Client calls the gym backend over HTTP with a persisted bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	log        *slog.Logger
}

// NewClient creates a client for the backend at baseURL (no trailing slash).
func NewClient(baseURL string, timeout time.Duration, tokens TokenStore, log *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		log:        log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Aluno       struct {
		ID     int    `json:"id"`
		Nome   string `json:"nome"`
		Email  string `json:"email"`
		Status string `json:"status"`
	} `json:"aluno"`
}

// Login authenticates the member and persists the returned bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (models.Member, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return models.Member{}, fmt.Errorf("marshaling login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/aluno/login", bytes.NewReader(body))
	if err != nil {
		return models.Member{}, fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Member{}, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return models.Member{}, fmt.Errorf("login: %w", ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		return models.Member{}, statusError("login", resp)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return models.Member{}, fmt.Errorf("decoding login response: %w", err)
	}
	if !lr.Success || lr.AccessToken == "" {
		return models.Member{}, fmt.Errorf("login rejected: %s", lr.Message)
	}

	if err := c.tokens.SetToken(lr.AccessToken); err != nil {
		return models.Member{}, fmt.Errorf("persisting token: %w", err)
	}

	return models.Member{
		ID:     lr.Aluno.ID,
		Name:   lr.Aluno.Nome,
		Status: lr.Aluno.Status,
	}, nil
}

// Logout notifies the backend and clears the local token. The remote call is
// best-effort: the token is cleared regardless of its outcome.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil); err != nil && !errors.Is(err, ErrUnauthorized) {
		c.log.Warn("remote logout failed, clearing local token anyway", "error", err)
	}
	return c.tokens.ClearToken()
}

// Profile fetches the signed-in member's profile.
func (c *Client) Profile(ctx context.Context) (models.Profile, error) {
	var wire models.ProfileWire
	if err := c.getJSON(ctx, "/mobile/profile", &wire); err != nil {
		return models.Profile{}, err
	}
	return models.NormalizeProfile(wire), nil
}

// Workouts fetches the member's workout list.
func (c *Client) Workouts(ctx context.Context) ([]models.Workout, error) {
	var wires []models.WorkoutWire
	if err := c.getJSON(ctx, "/mobile/treinos", &wires); err != nil {
		return nil, err
	}
	workouts := make([]models.Workout, 0, len(wires))
	for _, w := range wires {
		workouts = append(workouts, models.NormalizeWorkout(w))
	}
	return workouts, nil
}

// Workout fetches one workout with its exercises.
func (c *Client) Workout(ctx context.Context, id int) (models.Workout, error) {
	var wire models.WorkoutWire
	if err := c.getJSON(ctx, fmt.Sprintf("/mobile/treinos/%d", id), &wire); err != nil {
		return models.Workout{}, err
	}
	return models.NormalizeWorkout(wire), nil
}

// FinalizeWorkout sends the advisory completion notice for a workout.
func (c *Client) FinalizeWorkout(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/mobile/treinos/%d/finalizar", id), nil)
}

// NextMembership fetches the next-due billing record. A 404 means none is
// due and returns (nil, nil).
func (c *Client) NextMembership(ctx context.Context) (*models.Membership, error) {
	resp, err := c.send(ctx, http.MethodGet, "/mobile/mensalidades/proxima", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := c.checkStatus("next membership", resp); err != nil {
		return nil, err
	}

	var wire models.MembershipWire
	if err := decodeEnvelope(resp.Body, &wire); err != nil {
		return nil, fmt.Errorf("decoding next membership: %w", err)
	}
	m := models.NormalizeMembership(wire)
	return &m, nil
}

// getJSON GETs path and decodes the envelope's data field into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(path, resp); err != nil {
		return err
	}
	if err := decodeEnvelope(resp.Body, out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// do performs a request where only success matters, discarding any body.
func (c *Client) do(ctx context.Context, method, path string, body []byte) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkStatus(path, resp)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// checkStatus maps non-2xx responses to errors. A 401 clears the stored
// token so the caller's next screen re-routes to login.
func (c *Client) checkStatus(what string, resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.tokens.ClearToken(); err != nil {
			c.log.Warn("clearing token after 401 failed", "error", err)
		}
		return fmt.Errorf("%s: %w", what, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(what, resp)
	}
	return nil
}

func statusError(what string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var env models.Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return fmt.Errorf("%s failed (status %d): %s", what, resp.StatusCode, env.Message)
	}
	return fmt.Errorf("%s failed (status %d)", what, resp.StatusCode)
}

func decodeEnvelope(r io.Reader, out any) error {
	var env models.Envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return err
	}
	if !env.Success {
		if env.Message != "" {
			return fmt.Errorf("backend error: %s", env.Message)
		}
		return fmt.Errorf("backend reported failure")
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("backend response missing data")
	}
	return json.Unmarshal(env.Data, out)
}
