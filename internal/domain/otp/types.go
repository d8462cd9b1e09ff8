package otp

import "github.com/RGisanEclipse/neuronote-go/internal/domain/auth"

// Purpose discriminates the OTP flow. It selects both the endpoint pair and
// the request payload shape, and must be threaded consistently through a
// request→verify round-trip.
type Purpose string

const (
	PurposeSignup         Purpose = "signup"
	PurposeForgotPassword Purpose = "forgot_password"
)

const (
	pathSignupRequest         = "/api/v1/auth/signup/otp"
	pathSignupVerify          = "/api/v1/auth/signup/otp/verify"
	pathForgotPasswordRequest = "/api/v1/auth/password/otp"
	pathForgotPasswordVerify  = "/api/v1/auth/password/otp/verify"
)

// Endpoint choice is a pure function of purpose, never of payload shape.
func (p Purpose) requestPath() string {
	if p == PurposeForgotPassword {
		return pathForgotPasswordRequest
	}
	return pathSignupRequest
}

func (p Purpose) verifyPath() string {
	if p == PurposeForgotPassword {
		return pathForgotPasswordVerify
	}
	return pathSignupVerify
}

// RequestData is the polymorphic POST body for RequestOTP, tagged by the
// purpose it is allowed to serve.
type RequestData interface {
	allowedPurpose() Purpose
}

// SignupRequest asks for a signup-completion code.
type SignupRequest struct {
	UserID string `json:"userId"`
}

func (SignupRequest) allowedPurpose() Purpose { return PurposeSignup }

// ForgotPasswordRequest asks for a password-reset code.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (ForgotPasswordRequest) allowedPurpose() Purpose { return PurposeForgotPassword }

// Result reports the outcome of an OTP call.
type Result struct {
	Success bool
}

type verifyRequest struct {
	Code   string `json:"code"`
	UserID string `json:"userId"`
}

type otpEnvelope struct {
	Success   bool           `json:"success"`
	ErrorCode string         `json:"errorCode"`
	Error     *auth.APIError `json:"error"`
}
