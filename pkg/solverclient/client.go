// Package solverclient posts timetable requests to the external solver service.
package solverclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

const maxErrorBody = 2048

// Config configures the solver client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a thin JSON client for the solver's /solve endpoint.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// StatusError reports a non-2xx answer from the solver.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("solver responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("solver responded with status %d: %s", e.StatusCode, e.Body)
}

// New constructs a Client. cfg.Timeout bounds each Solve call through its context, so an
// expired call always matches context.DeadlineExceeded.
func New(cfg Config, httpClient *http.Client) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(cfg.BaseURL, "/"), timeout: timeout, http: httpClient}
}

// Solve posts the request and returns the solver's answer untouched.
func (c *Client) Solve(ctx context.Context, req dto.SolverRequest) (*dto.SolverResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode solver request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/solve", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build solver request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if id := req.RequestID; id != "" {
		httpReq.Header.Set(requestid.HeaderKey, id)
	} else if id := requestid.FromContext(ctx); id != "" {
		httpReq.Header.Set(requestid.HeaderKey, id)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call solver: %w", asDeadline(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out dto.SolverResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode solver response: %w", err)
	}
	if len(out.Schedule) == 0 {
		out.Schedule = json.RawMessage("null")
	}
	if len(out.Violations) == 0 {
		out.Violations = json.RawMessage("[]")
	}
	return &out, nil
}

// asDeadline marks transport timeouts, such as http.Client.Timeout on a caller supplied client,
// as context.DeadlineExceeded.
func asDeadline(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	return err
}
