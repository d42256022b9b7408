package solverclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(Config{BaseURL: server.URL + "/", Timeout: 5 * time.Second}, nil)
	t.Cleanup(client.http.CloseIdleConnections)
	return client
}

func TestSolvePassesResponseThrough(t *testing.T) {
	var received dto.SolverRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/solve", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-1", r.Header.Get(requestid.HeaderKey))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"schedule":{"entries":[{"id":"e1"}]},"violations":[{"code":"NO_GAPS","count":2}]}`))
	})

	resp, err := client.Solve(context.Background(), dto.SolverRequest{
		TenantID:  "school-1",
		RequestID: "req-1",
		Courses:   []dto.SolverCourseDTO{{ID: "c1", Credits: 2, Teachings: []dto.SolverTeachingDTO{}}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"entries":[{"id":"e1"}]}`, string(resp.Schedule))
	assert.JSONEq(t, `[{"code":"NO_GAPS","count":2}]`, string(resp.Violations))
	assert.Equal(t, "school-1", received.TenantID)
	require.Len(t, received.Courses, 1)
}

func TestSolveForwardsContextRequestID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ctx-id", r.Header.Get(requestid.HeaderKey))
		_, _ = w.Write([]byte(`{}`))
	})

	resp, err := client.Solve(requestid.WithValue(context.Background(), "ctx-id"), dto.SolverRequest{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(resp.Schedule))
	assert.Equal(t, "[]", string(resp.Violations))
}

func TestSolveStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "infeasible model", http.StatusUnprocessableEntity)
	})

	_, err := client.Solve(context.Background(), dto.SolverRequest{})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	assert.Equal(t, "infeasible model", statusErr.Body)
	assert.Contains(t, err.Error(), "422")
}

func TestSolveMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.Solve(context.Background(), dto.SolverRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode solver response")
}

func TestSolveHonoursContextCancellation(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Solve(ctx, dto.SolverRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestSolveConfiguredTimeoutIsDeadline(t *testing.T) {
	slow := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}

	cases := []struct {
		name       string
		httpClient *http.Client
	}{
		{name: "config timeout"},
		{name: "caller http client timeout", httpClient: &http.Client{Timeout: 50 * time.Millisecond}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(slow))
			t.Cleanup(server.Close)
			client := New(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, tc.httpClient)
			t.Cleanup(client.http.CloseIdleConnections)

			start := time.Now()
			_, err := client.Solve(context.Background(), dto.SolverRequest{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, context.DeadlineExceeded), err.Error())
			assert.Less(t, time.Since(start), time.Second)
		})
	}
}
