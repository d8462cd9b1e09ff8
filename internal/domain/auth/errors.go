package auth

// APIError is the structured failure the server returns inside the error
// envelope. The code is a stable machine-readable identifier; mapping it to
// user copy belongs to the presentation layer.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// Known server error codes.
const (
	ServerCodeEmailDoesNotExist   = "AUTH_001"
	ServerCodeEmailAlreadyExists  = "AUTH_002"
	ServerCodeIncorrectPassword   = "AUTH_003"
	ServerCodeInvalidRequestBody  = "AUTH_004"
	ServerCodeTokenInvalid        = "AUTH_008"
	ServerCodeUnauthorized        = "AUTH_009"
	ServerCodeInternalServerError = "AUTH_013"
)
