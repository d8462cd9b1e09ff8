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

// TokenManager rotates the access/refresh token pair against the refresh
// endpoint. It implements transport.TokenRefresher for the retrying
// executor.
type TokenManager struct {
	baseURL string
	session transport.Session
	store   securestore.Store
	logger  *slog.Logger
}

// NewTokenManager constructs the manager.
func NewTokenManager(baseURL string, session transport.Session, store securestore.Store, logger *slog.Logger) *TokenManager {
	return &TokenManager{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		store:   store,
		logger:  logger.With("component", "auth.tokens"),
	}
}

// Refresh exchanges the stored refresh token for a new pair. Both tokens are
// persisted only after both parse successfully, so a failed refresh never
// leaves the store holding half a rotation.
func (m *TokenManager) Refresh(ctx context.Context) (RefreshResult, error) {
	refreshToken, found, err := m.store.Get(ctx, securestore.KeyRefreshToken)
	if err != nil {
		return RefreshResult{}, apperrors.Wrap(apperrors.CodeUnexpected, "read refresh token", err)
	}
	if !found || refreshToken == "" {
		return RefreshResult{}, apperrors.Wrap(apperrors.CodeNoRefreshToken, "no refresh token stored", nil)
	}

	req, err := newJSONRequest(ctx, m.baseURL, pathTokenRefresh, refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return RefreshResult{}, err
	}

	resp, err := m.session.Do(req)
	if err != nil {
		return RefreshResult{}, transport.Classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		return RefreshResult{}, apperrors.Wrap(apperrors.CodeInvalidResponse, "read response body", err)
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		return RefreshResult{}, err
	}
	if !env.Success {
		if env.Error != nil {
			return RefreshResult{}, env.Error
		}
		return RefreshResult{}, apperrors.Wrap(apperrors.CodeDecodingFailed, "failure response carried no error envelope", nil)
	}

	var data refreshData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return RefreshResult{}, apperrors.Wrap(apperrors.CodeDecodingFailed, "decode refresh payload", err)
		}
	}
	if data.Token == "" || data.RefreshToken == "" {
		return RefreshResult{}, apperrors.Wrap(apperrors.CodeNoTokenReceived, "refresh response missing token pair", nil)
	}

	if err := m.store.Set(ctx, securestore.KeyAuthToken, data.Token); err != nil {
		return RefreshResult{}, apperrors.Wrap(apperrors.CodeUnexpected, "persist access token", err)
	}
	if err := m.store.Set(ctx, securestore.KeyRefreshToken, data.RefreshToken); err != nil {
		return RefreshResult{}, apperrors.Wrap(apperrors.CodeUnexpected, "persist refresh token", err)
	}

	m.logger.Debug("token pair rotated", "request_id", resp.Header.Get(headerRequestID))
	return RefreshResult{AccessToken: data.Token, RefreshToken: data.RefreshToken}, nil
}

// RefreshAccessToken satisfies transport.TokenRefresher.
func (m *TokenManager) RefreshAccessToken(ctx context.Context) (string, error) {
	result, err := m.Refresh(ctx)
	if err != nil {
		return "", err
	}
	return result.AccessToken, nil
}
