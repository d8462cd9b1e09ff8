package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RGisanEclipse/neuronote-go/internal/infra/securestore"
	apperrors "github.com/RGisanEclipse/neuronote-go/pkg/errors"
)

func TestTokenManager_RotatesBothTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/token/refresh", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{"refreshToken":"old-refresh"}`, string(body))
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"token":"new-access","refreshToken":"new-refresh"}}`))
	}))
	defer server.Close()

	store := securestore.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, securestore.KeyAuthToken, "old-access"))
	require.NoError(t, store.Set(ctx, securestore.KeyRefreshToken, "old-refresh"))

	manager := NewTokenManager(server.URL, server.Client(), store, newTestLogger())
	result, err := manager.Refresh(ctx)
	require.NoError(t, err)
	require.Equal(t, RefreshResult{AccessToken: "new-access", RefreshToken: "new-refresh"}, result)

	access, _, err := store.Get(ctx, securestore.KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, "new-access", access)
	refresh, _, err := store.Get(ctx, securestore.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "new-refresh", refresh)
}

func TestTokenManager_PartialPairLeavesStoreUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// access token present, refresh token missing
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"token":"new-access"}}`))
	}))
	defer server.Close()

	store := securestore.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, securestore.KeyAuthToken, "old-access"))
	require.NoError(t, store.Set(ctx, securestore.KeyRefreshToken, "old-refresh"))

	manager := NewTokenManager(server.URL, server.Client(), store, newTestLogger())
	_, err := manager.Refresh(ctx)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNoTokenReceived))

	access, _, err := store.Get(ctx, securestore.KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, "old-access", access)
	refresh, _, err := store.Get(ctx, securestore.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "old-refresh", refresh)
}

func TestTokenManager_NoStoredRefreshToken(t *testing.T) {
	manager := NewTokenManager("http://localhost", http.DefaultClient, securestore.NewMemoryStore(), newTestLogger())
	_, err := manager.Refresh(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeNoRefreshToken))
}

func TestTokenManager_ServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"AUTH_009","message":"refresh token invalid","status":401},"data":null}`))
	}))
	defer server.Close()

	store := securestore.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, securestore.KeyRefreshToken, "stale"))

	manager := NewTokenManager(server.URL, server.Client(), store, newTestLogger())
	_, err := manager.Refresh(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, ServerCodeUnauthorized, apiErr.Code)
}
