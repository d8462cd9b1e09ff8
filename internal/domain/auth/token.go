package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Claims holds the JWT payload fields the client consumes.
type Claims struct {
	UserID string `json:"user_id"`
}

// DecodeToken extracts claims from the payload segment of a dot-delimited
// token. The signature is never verified; this is a claims-extraction
// utility, not a validator, and callers must not trust the token's
// authenticity from this alone.
//
// A two-segment token (header.payload) is accepted, which is why this does
// not go through a JWT library: library parsers insist on exactly three
// segments.
func DecodeToken(token string) (Claims, bool) {
	segments := strings.Split(token, ".")
	if len(segments) < 2 {
		return Claims{}, false
	}

	payload := strings.ReplaceAll(segments[1], "-", "+")
	payload = strings.ReplaceAll(payload, "_", "/")
	if pad := len(payload) % 4; pad != 0 {
		payload += strings.Repeat("=", 4-pad)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Claims{}, false
	}

	var claims Claims
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return Claims{}, false
	}
	if claims.UserID == "" {
		return Claims{}, false
	}
	return claims, true
}
