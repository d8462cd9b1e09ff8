package auth

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"log/slog"

	"github.com/RGisanEclipse/neuronote-go/internal/infra/securestore"
	"github.com/RGisanEclipse/neuronote-go/internal/infra/transport"
	apperrors "github.com/RGisanEclipse/neuronote-go/pkg/errors"
)

const (
	pathSignUp        = "/api/v1/auth/signup"
	pathSignIn        = "/api/v1/auth/signin"
	pathResetPassword = "/api/v1/auth/password/reset"
	pathTokenRefresh  = "/api/v1/auth/token/refresh"

	cookieRefreshToken = "refreshToken"
)

// Client performs sign-in/sign-up/reset-password against the auth API and
// owns session persistence. Authenticate goes straight to the session; the
// 401-refresh retry only applies to authenticated calls, never here.
type Client struct {
	baseURL string
	session transport.Session
	store   securestore.Store
	logger  *slog.Logger
}

// NewClient constructs the auth client.
func NewClient(baseURL string, session transport.Session, store securestore.Store, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		store:   store,
		logger:  logger.With("component", "auth.client"),
	}
}

// Authenticate signs the user in or up and persists the resulting session.
// On success the access token (and refresh token, when the server set its
// cookie) are written to the secure store; sign-up additionally persists the
// user id extracted from the token's claims.
func (c *Client) Authenticate(ctx context.Context, email, password string, mode Mode) (Session, error) {
	path, err := mode.path()
	if err != nil {
		return Session{}, err
	}
	req, err := newJSONRequest(ctx, c.baseURL, path, Credentials{Email: email, Password: password})
	if err != nil {
		return Session{}, err
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return Session{}, transport.Classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		return Session{}, apperrors.Wrap(apperrors.CodeInvalidResponse, "read response body", err)
	}

	requestID := resp.Header.Get(headerRequestID)
	c.logger.Debug("authentication response", "status", resp.StatusCode, "mode", string(mode), "request_id", requestID)

	env, err := decodeEnvelope(body)
	if err != nil {
		return Session{}, err
	}
	if !env.Success {
		return Session{}, c.serverError(env, requestID)
	}

	var data authData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return Session{}, apperrors.Wrap(apperrors.CodeDecodingFailed, "decode auth payload", err)
		}
	}
	if data.Token == nil || *data.Token == "" {
		return Session{}, apperrors.Wrap(apperrors.CodeNoTokenReceived, "success response carried no token", nil)
	}
	token := *data.Token

	isVerified := false
	if data.IsVerified != nil {
		isVerified = *data.IsVerified
	}

	refreshToken := transport.CookieValue(resp, cookieRefreshToken)
	if refreshToken == "" {
		c.logger.Warn("response carried no refresh token cookie", "mode", string(mode), "request_id", requestID)
	}

	session := Session{Token: token, RefreshToken: refreshToken, IsVerified: isVerified}

	if mode == ModeSignUp {
		claims, ok := DecodeToken(token)
		if !ok {
			return Session{}, apperrors.Wrap(apperrors.CodeNoUserIDReceived, "token carries no user id", nil)
		}
		session.UserID = claims.UserID
		if err := c.store.Set(ctx, securestore.KeyUserID, claims.UserID); err != nil {
			return Session{}, apperrors.Wrap(apperrors.CodeUnexpected, "persist user id", err)
		}
	}

	if err := c.store.Set(ctx, securestore.KeyAuthToken, token); err != nil {
		return Session{}, apperrors.Wrap(apperrors.CodeUnexpected, "persist access token", err)
	}
	if refreshToken != "" {
		if err := c.store.Set(ctx, securestore.KeyRefreshToken, refreshToken); err != nil {
			return Session{}, apperrors.Wrap(apperrors.CodeUnexpected, "persist refresh token", err)
		}
	}

	return session, nil
}

// ResetPassword sets a new password for the given user. Returns true on a
// success envelope and surfaces the decoded API error otherwise.
func (c *Client) ResetPassword(ctx context.Context, userID, newPassword string) (bool, error) {
	req, err := newJSONRequest(ctx, c.baseURL, pathResetPassword, resetPasswordRequest{UserID: userID, Password: newPassword})
	if err != nil {
		return false, err
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return false, transport.Classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		return false, apperrors.Wrap(apperrors.CodeInvalidResponse, "read response body", err)
	}

	requestID := resp.Header.Get(headerRequestID)
	c.logger.Debug("reset password response", "status", resp.StatusCode, "request_id", requestID)

	env, err := decodeEnvelope(body)
	if err != nil {
		return false, err
	}
	if !env.Success {
		return false, c.serverError(env, requestID)
	}
	return true, nil
}

// Logout deletes the persisted session. There is no server-side invalidation
// call; clearing the store is the sole teardown path.
func (c *Client) Logout(ctx context.Context) error {
	for _, key := range []string{securestore.KeyAuthToken, securestore.KeyRefreshToken, securestore.KeyUserID} {
		if err := c.store.Delete(ctx, key); err != nil {
			return apperrors.Wrap(apperrors.CodeUnexpected, "clear session", err)
		}
	}
	return nil
}

// CurrentToken returns the persisted access token, if any.
func (c *Client) CurrentToken(ctx context.Context) (string, bool, error) {
	return c.store.Get(ctx, securestore.KeyAuthToken)
}

// CurrentUser returns the persisted user id, if any.
func (c *Client) CurrentUser(ctx context.Context) (string, bool, error) {
	return c.store.Get(ctx, securestore.KeyUserID)
}

func (c *Client) serverError(env envelope, requestID string) error {
	if env.Error == nil {
		return apperrors.Wrap(apperrors.CodeDecodingFailed, "failure response carried no error envelope", nil)
	}
	c.logger.Error("api error response",
		"code", env.Error.Code,
		"message", env.Error.Message,
		"status", env.Error.Status,
		"request_id", requestID)
	return env.Error
}
