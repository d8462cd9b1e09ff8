package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/require"

	apperrors "github.com/RGisanEclipse/neuronote-go/pkg/errors"
)

type scriptedSession struct {
	statuses []int
	calls    int
	requests []*http.Request
	bodies   []string
}

func (s *scriptedSession) Do(req *http.Request) (*http.Response, error) {
	s.calls++
	s.requests = append(s.requests, req)
	body := ""
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		body = string(data)
	}
	s.bodies = append(s.bodies, body)

	status := s.statuses[len(s.statuses)-1]
	if s.calls <= len(s.statuses) {
		status = s.statuses[s.calls-1]
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("{}")),
		Header:     make(http.Header),
	}, nil
}

type fakeRefresher struct {
	token string
	err   error
	calls int
}

func (f *fakeRefresher) RefreshAccessToken(context.Context) (string, error) {
	f.calls++
	return f.token, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "http://api.test/api/v1/auth/signup/otp", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer stale-token")
	return req
}

func TestRetryingExecutor_PassesThroughNon401(t *testing.T) {
	for _, status := range []int{200, 400, 403, 500} {
		session := &scriptedSession{statuses: []int{status}}
		refresher := &fakeRefresher{token: "fresh"}
		executor := NewRetryingExecutor(session, refresher, testLogger())

		resp, err := executor.Do(newRequest(t, `{}`))
		require.NoError(t, err)
		require.Equal(t, status, resp.StatusCode)
		require.Equal(t, 1, session.calls)
		require.Zero(t, refresher.calls)
	}
}

func TestRetryingExecutor_RefreshesOnceThenSucceeds(t *testing.T) {
	session := &scriptedSession{statuses: []int{401, 200}}
	refresher := &fakeRefresher{token: "fresh-token"}
	executor := NewRetryingExecutor(session, refresher, testLogger())

	resp, err := executor.Do(newRequest(t, `{"userId":"12345"}`))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	require.Equal(t, 2, session.calls)
	require.Equal(t, 1, refresher.calls)

	// retried attempt carries the new token and replays the body
	require.Equal(t, "Bearer fresh-token", session.requests[1].Header.Get("Authorization"))
	require.Equal(t, `{"userId":"12345"}`, session.bodies[1])
}

func TestRetryingExecutor_BoundedToTwoAttempts(t *testing.T) {
	session := &scriptedSession{statuses: []int{401, 401, 401, 401}}
	refresher := &fakeRefresher{token: "fresh"}
	executor := NewRetryingExecutor(session, refresher, testLogger())

	_, err := executor.Do(newRequest(t, `{}`))
	require.True(t, apperrors.IsCode(err, apperrors.CodeAuthenticationRequired))
	require.Equal(t, 2, session.calls)
	require.Equal(t, 1, refresher.calls)
}

func TestRetryingExecutor_RefreshFailureIsTerminal(t *testing.T) {
	session := &scriptedSession{statuses: []int{401}}
	refresher := &fakeRefresher{err: errors.New("refresh endpoint down")}
	executor := NewRetryingExecutor(session, refresher, testLogger())

	_, err := executor.Do(newRequest(t, `{}`))
	require.True(t, apperrors.IsCode(err, apperrors.CodeAuthenticationRequired))
	require.Equal(t, 1, session.calls)
	require.Equal(t, 1, refresher.calls)
}

func TestRetryingExecutor_LeavesMissingAuthorizationAlone(t *testing.T) {
	session := &scriptedSession{statuses: []int{401, 200}}
	refresher := &fakeRefresher{token: "fresh"}
	executor := NewRetryingExecutor(session, refresher, testLogger())

	req, err := http.NewRequest(http.MethodPost, "http://api.test/x", bytes.NewReader(nil))
	require.NoError(t, err)

	_, err = executor.Do(req)
	require.NoError(t, err)
	require.Empty(t, session.requests[1].Header.Get("Authorization"))
}

type failingSession struct{ err error }

func (f *failingSession) Do(*http.Request) (*http.Response, error) { return nil, f.err }

func TestRetryingExecutor_TransportErrorIsClassified(t *testing.T) {
	session := &failingSession{err: context.DeadlineExceeded}
	executor := NewRetryingExecutor(session, &fakeRefresher{}, testLogger())

	_, err := executor.Do(newRequest(t, `{}`))
	require.True(t, IsNetworkError(err, KindTimeout))
}
