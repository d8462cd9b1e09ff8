package auth

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeToken_ValidPayload(t *testing.T) {
	token := testToken(t, map[string]any{"user_id": "12345", "exp": 1999999999})

	claims, ok := DecodeToken(token)
	require.True(t, ok)
	require.Equal(t, "12345", claims.UserID)
}

func TestDecodeToken_TwoSegments(t *testing.T) {
	// header.payload without a signature segment is still decodable
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"user_id":"42"}`))
	claims, ok := DecodeToken("eyJhbGciOiJIUzI1NiJ9." + payload)
	require.True(t, ok)
	require.Equal(t, "42", claims.UserID)
}

func TestDecodeToken_URLSafeAlphabet(t *testing.T) {
	// payload whose base64 form contains - and _ in place of + and /
	raw := []byte(`{"user_id":"a?b>c~~~"}`)
	payload := base64.RawURLEncoding.EncodeToString(raw)
	claims, ok := DecodeToken("h." + payload + ".sig")
	require.True(t, ok)
	require.Equal(t, "a?b>c~~~", claims.UserID)
}

func TestDecodeToken_Failures(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"single segment", "justonesegment"},
		{"not base64", "header.!!!not-base64!!!.sig"},
		{"not json", "header." + base64.RawURLEncoding.EncodeToString([]byte("plain text")) + ".sig"},
		{"missing user_id", testToken(t, map[string]any{"email": "a@b.com"})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := DecodeToken(tc.token)
			require.False(t, ok)
		})
	}
}

func testToken(t *testing.T, payload map[string]any) string {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString(data) + ".c2lnbmF0dXJl"
}
