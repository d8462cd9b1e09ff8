package main

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/RGisanEclipse/neuronote-go/internal/domain/auth"
	"github.com/RGisanEclipse/neuronote-go/internal/domain/credentials"
	"github.com/RGisanEclipse/neuronote-go/internal/domain/otp"
	"github.com/RGisanEclipse/neuronote-go/internal/infra/config"
	"github.com/RGisanEclipse/neuronote-go/internal/infra/securestore"
)

// App aggregates the wired clients behind the CLI commands.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	auth   *auth.Client
	tokens *auth.TokenManager
	otp    *otp.Client
	store  securestore.Store
}

func newApp(cfg *config.Config, logger *slog.Logger, authClient *auth.Client, tokens *auth.TokenManager, otpClient *otp.Client, store securestore.Store) *App {
	return &App{cfg: cfg, logger: logger, auth: authClient, tokens: tokens, otp: otpClient, store: store}
}

func (a *App) signup(ctx context.Context, email, password string) error {
	if err := credentials.ValidateEmail(email); err != nil {
		return err
	}
	if err := credentials.ValidatePassword(password); err != nil {
		return err
	}
	session, err := a.auth.Authenticate(ctx, email, password, auth.ModeSignUp)
	if err != nil {
		return err
	}
	fmt.Printf("signed up as user %s (verified: %t)\n", session.UserID, session.IsVerified)
	if !session.IsVerified {
		fmt.Println("request an otp with: authctl request-otp -purpose signup")
	}
	return nil
}

func (a *App) signin(ctx context.Context, email, password string) error {
	if err := credentials.ValidateEmail(email); err != nil {
		return err
	}
	session, err := a.auth.Authenticate(ctx, email, password, auth.ModeSignIn)
	if err != nil {
		return err
	}
	fmt.Printf("signed in (verified: %t)\n", session.IsVerified)
	return nil
}

func (a *App) requestOTP(ctx context.Context, purpose otp.Purpose, email string) error {
	var data otp.RequestData
	switch purpose {
	case otp.PurposeSignup:
		userID, found, err := a.store.Get(ctx, securestore.KeyUserID)
		if err != nil || !found {
			return fmt.Errorf("no stored user id; sign up first")
		}
		data = otp.SignupRequest{UserID: userID}
	case otp.PurposeForgotPassword:
		if err := credentials.ValidateEmail(email); err != nil {
			return err
		}
		data = otp.ForgotPasswordRequest{Email: email}
	default:
		return fmt.Errorf("unknown purpose %q", purpose)
	}

	if _, err := a.otp.RequestOTP(ctx, data, purpose); err != nil {
		return err
	}
	fmt.Println("otp requested, check your inbox")
	return nil
}

func (a *App) verifyOTP(ctx context.Context, code string, purpose otp.Purpose) error {
	userID, found, err := a.store.Get(ctx, securestore.KeyUserID)
	if err != nil || !found {
		return fmt.Errorf("no stored user id; request an otp first")
	}
	result, err := a.otp.VerifyOTP(ctx, code, userID, purpose)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("otp verification failed")
	}
	fmt.Println("otp verified")
	return nil
}

func (a *App) resetPassword(ctx context.Context, password string) error {
	if err := credentials.ValidatePassword(password); err != nil {
		return err
	}
	userID, found, err := a.store.Get(ctx, securestore.KeyUserID)
	if err != nil || !found {
		return fmt.Errorf("no stored user id; verify a password-reset otp first")
	}
	if _, err := a.auth.ResetPassword(ctx, userID, password); err != nil {
		return err
	}
	fmt.Println("password reset")
	return nil
}

func (a *App) refresh(ctx context.Context) error {
	result, err := a.tokens.Refresh(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("token pair rotated (access token %d bytes)\n", len(result.AccessToken))
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	userID, found, err := a.auth.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if !found {
		fmt.Println("no session")
		return nil
	}
	fmt.Printf("user %s\n", userID)
	return nil
}

func (a *App) logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}
