package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"log/slog"

	apperrors "github.com/RGisanEclipse/neuronote-go/pkg/errors"
)

const retryBodyLimit = 1 << 20 // 1 MiB

const maxRetries = 1

var errBodyTooLarge = errors.New("request body exceeds retry limit")

// TokenRefresher rotates an expired access token. The transport layer only
// needs the new access token; persistence of the rotated pair is owned by
// the implementor.
type TokenRefresher interface {
	RefreshAccessToken(ctx context.Context) (string, error)
}

// RetryingExecutor wraps a Session with a single automatic retry after a 401
// triggers a token refresh. Any other status is returned as-is. The retry is
// bounded: a server answering 401 forever costs at most two requests and one
// refresh per logical call.
type RetryingExecutor struct {
	session   Session
	refresher TokenRefresher
	logger    *slog.Logger
}

// NewRetryingExecutor constructs the executor.
func NewRetryingExecutor(session Session, refresher TokenRefresher, logger *slog.Logger) *RetryingExecutor {
	return &RetryingExecutor{
		session:   session,
		refresher: refresher,
		logger:    logger.With("component", "transport.retry"),
	}
}

// Do issues the request, refreshing the access token once on 401. The request
// body is buffered so the retried attempt can replay it.
func (e *RetryingExecutor) Do(req *http.Request) (*http.Response, error) {
	bodyBytes, err := readRequestBody(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnexpected, "buffer request body", err)
	}

	for retries := 0; ; retries++ {
		attempt := req.Clone(req.Context())
		if bodyBytes != nil {
			attempt.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			attempt.ContentLength = int64(len(bodyBytes))
		}

		resp, err := e.session.Do(attempt)
		if err != nil {
			return nil, Classify(err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			return resp, nil
		}
		_ = resp.Body.Close()

		if retries >= maxRetries {
			return nil, apperrors.Wrap(apperrors.CodeAuthenticationRequired, "unauthorized after token refresh", nil)
		}

		e.logger.Warn("unauthorized response, refreshing token", "path", req.URL.Path)
		token, err := e.refresher.RefreshAccessToken(req.Context())
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeAuthenticationRequired, "token refresh failed", err)
		}
		if req.Header.Get("Authorization") != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

func readRequestBody(req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}
	defer req.Body.Close()
	reader := io.LimitReader(req.Body, retryBodyLimit+1)
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if len(data) > retryBodyLimit {
		return nil, errBodyTooLarge
	}
	return data, nil
}
