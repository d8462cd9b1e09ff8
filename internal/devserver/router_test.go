package devserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/require"

	"github.com/RGisanEclipse/neuronote-go/internal/domain/auth"
	"github.com/RGisanEclipse/neuronote-go/internal/domain/otp"
	"github.com/RGisanEclipse/neuronote-go/internal/infra/config"
	"github.com/RGisanEclipse/neuronote-go/internal/infra/securestore"
	"github.com/RGisanEclipse/neuronote-go/internal/infra/transport"
	apperrors "github.com/RGisanEclipse/neuronote-go/pkg/errors"
)

// countingSession wraps a Session and counts transport calls, so tests can
// assert how many requests a logical operation actually cost.
type countingSession struct {
	inner transport.Session

	mu    sync.Mutex
	calls int
}

func (s *countingSession) Do(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.inner.Do(req)
}

func (s *countingSession) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubFixture struct {
	server  *httptest.Server
	store   *state
	session *countingSession
	secrets *securestore.MemoryStore
	auth    *auth.Client
	tokens  *auth.TokenManager
	otp     *otp.Client
}

func newStubFixture(t *testing.T) *stubFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.StubConfig{
		JWTSecret: "integration-test-secret",
		TokenTTL:  time.Hour,
	}

	store := newState()
	server := httptest.NewServer(newRouter(cfg, logger, store))
	t.Cleanup(server.Close)

	session := &countingSession{inner: server.Client()}
	secrets := securestore.NewMemoryStore()
	tokens := auth.NewTokenManager(server.URL, session, secrets, logger)
	executor := transport.NewRetryingExecutor(session, tokens, logger)

	return &stubFixture{
		server:  server,
		store:   store,
		session: session,
		secrets: secrets,
		auth:    auth.NewClient(server.URL, session, secrets, logger),
		tokens:  tokens,
		otp:     otp.NewClient(server.URL, executor, secrets, logger),
	}
}

func (f *stubFixture) signup(t *testing.T, email, password string) auth.Session {
	t.Helper()
	sess, err := f.auth.Authenticate(context.Background(), email, password, auth.ModeSignUp)
	require.NoError(t, err)
	return sess
}

func TestStubSignupPersistsSession(t *testing.T) {
	f := newStubFixture(t)
	ctx := context.Background()

	sess := f.signup(t, "ada@example.com", "CoolPass1@")
	require.NotEmpty(t, sess.Token)
	require.NotEmpty(t, sess.RefreshToken)
	require.Equal(t, "1", sess.UserID)
	require.False(t, sess.IsVerified)

	token, found, err := f.secrets.Get(ctx, securestore.KeyAuthToken)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, sess.Token, token)

	userID, found, err := f.secrets.Get(ctx, securestore.KeyUserID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "1", userID)
}

func TestStubSigninWrongPassword(t *testing.T) {
	f := newStubFixture(t)
	f.signup(t, "ada@example.com", "CoolPass1@")

	_, err := f.auth.Authenticate(context.Background(), "ada@example.com", "WrongPass1@", auth.ModeSignIn)
	var apiErr *auth.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "AUTH_003", apiErr.Code)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestStubSigninUnknownEmail(t *testing.T) {
	f := newStubFixture(t)

	_, err := f.auth.Authenticate(context.Background(), "nobody@example.com", "CoolPass1@", auth.ModeSignIn)
	var apiErr *auth.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "AUTH_001", apiErr.Code)
}

func TestStubSignupOTPFlow(t *testing.T) {
	f := newStubFixture(t)
	ctx := context.Background()

	sess := f.signup(t, "ada@example.com", "CoolPass1@")

	result, err := f.otp.RequestOTP(ctx, otp.SignupRequest{UserID: sess.UserID}, otp.PurposeSignup)
	require.NoError(t, err)
	require.True(t, result.Success)

	code, ok := f.store.pendingOTP(sess.UserID)
	require.True(t, ok)

	result, err = f.otp.VerifyOTP(ctx, code, sess.UserID, otp.PurposeSignup)
	require.NoError(t, err)
	require.True(t, result.Success)

	u, ok := f.store.findByID(sess.UserID)
	require.True(t, ok)
	require.True(t, u.Verified)

	// A consumed code cannot be replayed.
	_, err = f.otp.VerifyOTP(ctx, code, sess.UserID, otp.PurposeSignup)
	var apiErr *auth.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "OTP_001", apiErr.Code)
}

func TestStubForgotPasswordFlow(t *testing.T) {
	f := newStubFixture(t)
	ctx := context.Background()

	sess := f.signup(t, "ada@example.com", "CoolPass1@")
	require.NoError(t, f.auth.Logout(ctx))

	result, err := f.otp.RequestOTP(ctx, otp.ForgotPasswordRequest{Email: "ada@example.com"}, otp.PurposeForgotPassword)
	require.NoError(t, err)
	require.True(t, result.Success)

	// The server handed the user id back via cookie and the client kept it.
	userID, found, err := f.secrets.Get(ctx, securestore.KeyUserID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, sess.UserID, userID)

	code, ok := f.store.pendingOTP(sess.UserID)
	require.True(t, ok)

	result, err = f.otp.VerifyOTP(ctx, code, userID, otp.PurposeForgotPassword)
	require.NoError(t, err)
	require.True(t, result.Success)

	changed, err := f.auth.ResetPassword(ctx, userID, "FreshPass2@")
	require.NoError(t, err)
	require.True(t, changed)

	_, err = f.auth.Authenticate(ctx, "ada@example.com", "CoolPass1@", auth.ModeSignIn)
	var apiErr *auth.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "AUTH_003", apiErr.Code)

	signed, err := f.auth.Authenticate(ctx, "ada@example.com", "FreshPass2@", auth.ModeSignIn)
	require.NoError(t, err)
	require.NotEmpty(t, signed.Token)
}

func TestStubRefreshRotatesPair(t *testing.T) {
	f := newStubFixture(t)
	ctx := context.Background()

	sess := f.signup(t, "ada@example.com", "CoolPass1@")

	rotated, err := f.tokens.Refresh(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)
	require.NotEqual(t, sess.RefreshToken, rotated.RefreshToken)

	// The old refresh token is dead after rotation.
	require.NoError(t, f.secrets.Set(ctx, securestore.KeyRefreshToken, sess.RefreshToken))
	_, err = f.tokens.Refresh(ctx)
	var apiErr *auth.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "AUTH_009", apiErr.Code)
}

func TestStubExpiredTokenRefreshedOnce(t *testing.T) {
	f := newStubFixture(t)
	ctx := context.Background()

	sess := f.signup(t, "ada@example.com", "CoolPass1@")

	// Simulate an expired access token; the stored refresh token is valid.
	require.NoError(t, f.secrets.Set(ctx, securestore.KeyAuthToken, "expired.access.token"))

	before := f.session.count()
	result, err := f.otp.RequestOTP(ctx, otp.SignupRequest{UserID: sess.UserID}, otp.PurposeSignup)
	require.NoError(t, err)
	require.True(t, result.Success)

	// Exactly three transport calls: the rejected attempt, the refresh, and
	// the replayed attempt.
	require.Equal(t, 3, f.session.count()-before)

	// The rotated pair replaced the expired one.
	token, found, err := f.secrets.Get(ctx, securestore.KeyAuthToken)
	require.NoError(t, err)
	require.True(t, found)
	require.NotEqual(t, "expired.access.token", token)

	refresh, found, err := f.secrets.Get(ctx, securestore.KeyRefreshToken)
	require.NoError(t, err)
	require.True(t, found)
	require.NotEqual(t, sess.RefreshToken, refresh)
}

func TestStubRefreshFailureIsTerminal(t *testing.T) {
	f := newStubFixture(t)
	ctx := context.Background()

	sess := f.signup(t, "ada@example.com", "CoolPass1@")
	require.NoError(t, f.secrets.Set(ctx, securestore.KeyAuthToken, "expired.access.token"))
	require.NoError(t, f.secrets.Set(ctx, securestore.KeyRefreshToken, "revoked-refresh-token"))

	before := f.session.count()
	_, err := f.otp.RequestOTP(ctx, otp.SignupRequest{UserID: sess.UserID}, otp.PurposeSignup)
	require.True(t, apperrors.IsCode(err, apperrors.CodeAuthenticationRequired))

	// One rejected attempt plus one failed refresh; no blind retry.
	require.Equal(t, 2, f.session.count()-before)
}

func TestStubRateLimitsOTPRequests(t *testing.T) {
	f := newStubFixture(t)
	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.StubConfig{
		JWTSecret: "integration-test-secret",
		TokenTTL:  time.Hour,
		RateLimit: config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2, Burst: 2},
	}
	server := httptest.NewServer(newRouter(cfg, logger, f.store))
	defer server.Close()

	secrets := securestore.NewMemoryStore()
	client := otp.NewClient(server.URL, server.Client(), secrets, logger)

	sess := f.signup(t, "ada@example.com", "CoolPass1@")

	for i := 0; i < 2; i++ {
		_, err := client.RequestOTP(ctx, otp.SignupRequest{UserID: sess.UserID}, otp.PurposeSignup)
		require.NoError(t, err)
	}

	_, err := client.RequestOTP(ctx, otp.SignupRequest{UserID: sess.UserID}, otp.PurposeSignup)
	var apiErr *auth.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "AUTH_015", apiErr.Code)
	require.Equal(t, http.StatusTooManyRequests, apiErr.Status)
}
