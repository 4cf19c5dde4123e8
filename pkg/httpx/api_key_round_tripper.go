package httpx

import (
	"fmt"
	"net/http"
)

const headerNameAPIKey = "x-api-key"

// APIKeyRoundTripper attaches a static API-key header to every outgoing
// request. The upstream feed service authenticates with a key header
// instead of OAuth bearer tokens.
type APIKeyRoundTripper struct {
	next   http.RoundTripper
	apiKey string
}

func NewAPIKeyRoundTripper(
	next http.RoundTripper,
	apiKey string,
) APIKeyRoundTripper {
	return APIKeyRoundTripper{
		next:   next,
		apiKey: apiKey,
	}
}

func (rt APIKeyRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set(headerNameAPIKey, rt.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	return resp, nil
}
