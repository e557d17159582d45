// Package api is the HTTP JSON client for the loan workflow service. Every
// operation is a POST of a JSON body to /api/<operation>; responses come back
// in a uniform envelope whose status distinguishes success, conflict, and
// failure. Each request carries a correlation ID so client and server logs
// line up.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"loandesk-cli/internal/model"
)

const defaultTimeout = 30 * time.Second

// Client talks to the workflow service. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        zerolog.Logger
}

// Config configures a Client.
type Config struct {
	BaseURL string

	// HTTPClient overrides the default client (for testing).
	HTTPClient *http.Client

	Timeout time.Duration

	Logger zerolog.Logger
}

// NewClient creates a workflow API client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api: base URL not configured")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		log:        cfg.Logger,
	}, nil
}

// Login authenticates and returns the signed-in user.
func (c *Client) Login(ctx context.Context, name, password string) (*model.User, error) {
	body := map[string]any{
		"username": name,
		"password": password,
	}
	return doPost[model.User](ctx, c, "login", body)
}

// GetApplications lists the applications currently in a status bucket.
func (c *Client) GetApplications(ctx context.Context, status model.Status) ([]model.ApplicationSummary, error) {
	body := map[string]any{"status": string(status)}
	apps, err := doPost[[]model.ApplicationSummary](ctx, c, "getApplications", body)
	if err != nil {
		return nil, err
	}
	return *apps, nil
}

// GetApplicationDetails fetches the full record for one application. The
// actor name is carried for server-side audit; it may be empty.
func (c *Client) GetApplicationDetails(ctx context.Context, appNumber, actorName string) (*model.ApplicationDetail, error) {
	body := map[string]any{
		"appNumber": appNumber,
		"actorName": actorName,
	}
	return doPost[model.ApplicationDetail](ctx, c, "getApplicationDetails", body)
}

// GetApplicationCounts fetches the per-section badge counts.
func (c *Client) GetApplicationCounts(ctx context.Context) (*model.Counts, error) {
	return doPost[model.Counts](ctx, c, "getApplicationCounts", map[string]any{})
}

// GetApplicationCountsForUser fetches the number of applications waiting on
// the given role.
func (c *Client) GetApplicationCountsForUser(ctx context.Context, role string) (int, error) {
	body := map[string]any{"role": role}
	resp, err := doPost[struct {
		Count int `json:"count"`
	}](ctx, c, "getApplicationCountsForUser", body)
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// GetUserPermissions fetches the server-issued permission set for a user.
// Satisfies workflow.PermissionSource.
func (c *Client) GetUserPermissions(ctx context.Context, actorName string) (*model.Permissions, error) {
	body := map[string]any{"username": actorName}
	return doPost[model.Permissions](ctx, c, "getUserPermissions", body)
}

// SubmitApplicationComment submits a comment with its action (SUBMIT or
// APPROVE) against the stage the client loaded. Returns ErrConflict when the
// application moved on since.
func (c *Client) SubmitApplicationComment(ctx context.Context, req SubmitRequest) error {
	_, err := doPost[struct{}](ctx, c, "submitApplicationComment", req)
	return err
}

// RevertApplicationStage rewinds an application to an earlier stage.
func (c *Client) RevertApplicationStage(ctx context.Context, req RevertRequest) error {
	_, err := doPost[struct{}](ctx, c, "revertApplicationStage", req)
	return err
}

// GetAllUsers lists the workflow participants.
func (c *Client) GetAllUsers(ctx context.Context) ([]model.User, error) {
	users, err := doPost[[]model.User](ctx, c, "getAllUsers", map[string]any{})
	if err != nil {
		return nil, err
	}
	return *users, nil
}

// AddUser creates a workflow participant. A level derived from the static
// role table is sent as a convenience default; the server recomputes the
// authoritative value from the role.
func (c *Client) AddUser(ctx context.Context, name, role, password string) error {
	body := map[string]any{
		"name":     name,
		"role":     role,
		"level":    model.LevelForRole(role),
		"password": password,
	}
	_, err := doPost[struct{}](ctx, c, "addUser", body)
	return err
}

// DeleteUser removes a workflow participant.
func (c *Client) DeleteUser(ctx context.Context, name string) error {
	body := map[string]any{"name": name}
	_, err := doPost[struct{}](ctx, c, "deleteUser", body)
	return err
}

// doPost performs one operation call and decodes the envelope payload.
func doPost[Resp any](ctx context.Context, c *Client, op string, reqBody any) (*Resp, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("api: marshal %s request: %w", op, err)
	}

	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/"+op, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("api: create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Str("op", op).Str("request_id", requestID).Err(err).Msg("request failed")
		return nil, fmt.Errorf("api: %s: %w", op, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("op", op).
		Str("request_id", requestID).
		Int("http_status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api: read %s response: %w", op, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw)), RequestID: requestID}
		}
		return nil, fmt.Errorf("api: decode %s envelope: %w", op, err)
	}
	if env.RequestID == "" {
		env.RequestID = requestID
	}

	switch {
	case env.Status == statusConflict || resp.StatusCode == http.StatusConflict:
		return nil, fmt.Errorf("%w: %s", ErrConflict, env.Message)
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK || env.Status != statusSuccess:
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       env.Code,
			Message:    env.Message,
			RequestID:  env.RequestID,
		}
	}

	var result Resp
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &result); err != nil {
			return nil, fmt.Errorf("api: decode %s payload: %w", op, err)
		}
	}
	return &result, nil
}
