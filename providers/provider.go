// Package providers implements the vendor adapters. Each adapter
// translates resolved client parameters into that vendor's HTTP
// conventions: the endpoint layout, the auth header, the request body,
// and the response shape. Adapters are stateless beyond their
// construction parameters and never retry or swallow vendor errors.
package providers

import (
	"encoding/json"

	"github.com/aetherlabs/aethergo/utils"
)

// Provider is the adapter interface the invocation client drives.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Endpoint returns the full URL for one generation call.
	Endpoint() string

	// Headers returns the HTTP headers for one generation call,
	// including authentication.
	Headers() map[string]string

	// SetOption sets a provider option such as "temperature",
	// "system_prompt", or "api_version".
	SetOption(key string, value any)

	// SetLogger replaces the adapter's logger.
	SetLogger(logger utils.Logger)

	// PrepareRequest builds the JSON request body for a single prompt.
	PrepareRequest(prompt string) ([]byte, error)

	// ParseResponse extracts the generated text from a success body.
	ParseResponse(body []byte) (string, error)
}

// APIErrorMessage pulls the human-readable message out of a vendor
// error body. Azure OpenAI and Gemini both nest it under
// error.message; when the body has some other shape the raw body is
// returned so nothing is hidden from the user.
func APIErrorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return string(body)
}
