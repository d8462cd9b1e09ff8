package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"log/slog"

	"github.com/RGisanEclipse/neuronote-go/internal/domain/auth"
	"github.com/RGisanEclipse/neuronote-go/internal/infra/securestore"
	"github.com/RGisanEclipse/neuronote-go/internal/infra/transport"
	apperrors "github.com/RGisanEclipse/neuronote-go/pkg/errors"
)

const responseBodyLimit = 1 << 20

const (
	headerRequestID = "X-Request-Id"
	cookieUserID    = "userId"
)

// Client requests and verifies one-time codes. OTP calls may run before the
// user is fully verified, so the bearer token is attached only when one is
// stored. Wire it with the retrying executor so a 401 triggers one token
// refresh before giving up.
type Client struct {
	baseURL string
	session transport.Session
	store   securestore.Store
	logger  *slog.Logger
}

// NewClient constructs the OTP client.
func NewClient(baseURL string, session transport.Session, store securestore.Store, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		store:   store,
		logger:  logger.With("component", "otp.client"),
	}
}

// RequestOTP asks the server to deliver a one-time code. For the forgot
// password purpose the server may also hand back the user id via a cookie,
// which is persisted for the verify step.
func (c *Client) RequestOTP(ctx context.Context, data RequestData, purpose Purpose) (Result, error) {
	if data.allowedPurpose() != purpose {
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidInput, "request data does not match purpose", nil)
	}

	resp, body, err := c.post(ctx, purpose.requestPath(), data)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	env, err := c.parseEnvelope(resp, body)
	if err != nil {
		return Result{}, err
	}

	if purpose == PurposeForgotPassword {
		if userID := transport.CookieValue(resp, cookieUserID); userID != "" {
			if err := c.store.Set(ctx, securestore.KeyUserID, userID); err != nil {
				return Result{}, apperrors.Wrap(apperrors.CodeUnexpected, "persist user id", err)
			}
		}
	}

	return Result{Success: env.Success}, nil
}

// VerifyOTP submits the code the user typed.
func (c *Client) VerifyOTP(ctx context.Context, code, userID string, purpose Purpose) (Result, error) {
	resp, body, err := c.post(ctx, purpose.verifyPath(), verifyRequest{Code: code, UserID: userID})
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	env, err := c.parseEnvelope(resp, body)
	if err != nil {
		return Result{}, err
	}
	return Result{Success: env.Success}, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, []byte, error) {
	endpoint := c.baseURL + path
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeBadURL, "build request url", err)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeUnexpected, "encode request body", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeBadURL, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, found, err := c.store.Get(ctx, securestore.KeyAuthToken)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeUnexpected, "read access token", err)
	}
	if found && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeAuthenticationRequired) {
			return nil, nil, err
		}
		return nil, nil, transport.Classify(err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		resp.Body.Close()
		return nil, nil, apperrors.Wrap(apperrors.CodeInvalidResponse, "read response body", err)
	}
	return resp, body, nil
}

func (c *Client) parseEnvelope(resp *http.Response, body []byte) (otpEnvelope, error) {
	requestID := resp.Header.Get(headerRequestID)
	c.logger.Debug("otp response", "status", resp.StatusCode, "request_id", requestID)

	var env otpEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return otpEnvelope{}, apperrors.Wrap(apperrors.CodeDecodingFailed, "decode otp response", err)
	}
	if !env.Success {
		return otpEnvelope{}, c.serverError(env, requestID)
	}
	return env, nil
}

func (c *Client) serverError(env otpEnvelope, requestID string) error {
	apiErr := env.Error
	if apiErr == nil {
		if env.ErrorCode == "" {
			return apperrors.Wrap(apperrors.CodeDecodingFailed, "failure response carried no error code", nil)
		}
		apiErr = &auth.APIError{Code: env.ErrorCode}
	}
	c.logger.Error("otp error response",
		"code", apiErr.Code,
		"message", apiErr.Message,
		"status", apiErr.Status,
		"request_id", requestID)
	return apiErr
}
