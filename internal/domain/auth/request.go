package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	apperrors "github.com/RGisanEclipse/neuronote-go/pkg/errors"
)

const responseBodyLimit = 1 << 20

const headerRequestID = "X-Request-Id"

func newJSONRequest(ctx context.Context, baseURL, path string, payload any) (*http.Request, error) {
	endpoint := baseURL + path
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeBadURL, "build request url", err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnexpected, "encode request body", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeBadURL, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func decodeEnvelope(body []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, apperrors.Wrap(apperrors.CodeDecodingFailed, "decode response envelope", err)
	}
	return env, nil
}
