package auth

import (
	"encoding/json"

	apperrors "github.com/RGisanEclipse/neuronote-go/pkg/errors"
)

// Mode selects the authentication endpoint.
type Mode string

const (
	ModeSignIn Mode = "signin"
	ModeSignUp Mode = "signup"
)

func (m Mode) path() (string, error) {
	switch m {
	case ModeSignIn:
		return pathSignIn, nil
	case ModeSignUp:
		return pathSignUp, nil
	}
	return "", apperrors.Wrap(apperrors.CodeInvalidInput, "unknown authentication mode", nil)
}

// Credentials are transient and never persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the result of a successful Authenticate call. IsVerified tells
// the caller whether to proceed to OTP verification.
type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	IsVerified   bool
}

// RefreshResult is the rotated token pair produced by the refresh endpoint.
type RefreshResult struct {
	AccessToken  string
	RefreshToken string
}

// envelope is the wrapper every API response shares. The typed payload or
// error is parsed out of it in a second step.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

type authData struct {
	Token      *string `json:"token"`
	IsVerified *bool   `json:"isVerified"`
}

type refreshData struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type resetPasswordRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
