// Package routing decides, from configuration, whether an SDK client
// points at the Aether gateway or directly at the upstream provider,
// and assembles the endpoint/credential pair for each supported
// provider. It holds the shared core types and the error taxonomy used
// across the module.
package routing

import "fmt"

// Mode selects the routing path for outbound calls.
type Mode int

const (
	// ModeDirect sends calls straight to the vendor using the vendor's
	// own credentials.
	ModeDirect Mode = iota
	// ModeEnterprise sends calls to the Aether gateway, which applies
	// governance policy before forwarding upstream.
	ModeEnterprise
)

func (m Mode) String() string {
	if m == ModeEnterprise {
		return "enterprise"
	}
	return "direct"
}

// ProviderKind identifies a supported vendor SDK. The set is closed:
// adding a provider means adding an adapter, not a runtime lookup.
type ProviderKind string

const (
	ProviderAzureOpenAI ProviderKind = "azure-openai"
	ProviderGemini      ProviderKind = "gemini"
)

// Kinds returns all supported provider kinds.
func Kinds() []ProviderKind {
	return []ProviderKind{ProviderAzureOpenAI, ProviderGemini}
}

// ParseProviderKind maps a user-supplied name onto a ProviderKind.
func ParseProviderKind(name string) (ProviderKind, error) {
	switch ProviderKind(name) {
	case ProviderAzureOpenAI, ProviderGemini:
		return ProviderKind(name), nil
	}
	return "", NewError(ErrorTypeConfiguration,
		fmt.Sprintf("unknown provider %q, must be one of %v", name, Kinds()), nil)
}

// Config is the immutable routing input for one session or one UI
// send. It carries both credential sets; Mode decides which one is
// used. Construct it once and pass it by value.
type Config struct {
	Mode     Mode
	Provider ProviderKind

	// Gateway ingress values, required in enterprise mode.
	GatewayAPIKey   string
	GatewayEndpoint string

	// Vendor-direct values, required in direct mode. Gemini has no
	// fixed per-account endpoint, so ProviderEndpoint may stay empty
	// for it and the adapter falls back to the vendor default host.
	ProviderAPIKey   string
	ProviderEndpoint string

	// ModelOrDeployment names the logical model (Gemini) or deployment
	// (Azure). It is never substituted during resolution: it rides
	// through unchanged so the gateway can route on it.
	ModelOrDeployment string
}

// ClientParams is the resolved (endpoint, credential, model) triple a
// provider adapter is built from. It is derived per invocation, used
// once, and discarded. An empty Endpoint means the adapter uses the
// vendor's default host.
type ClientParams struct {
	Endpoint          string
	APIKey            string
	ModelOrDeployment string
}

// Resolve picks the routing path for cfg and returns the concrete
// client parameters. Enterprise mode maps every provider onto the one
// gateway ingress; direct mode hands the vendor fields through
// verbatim. The function is pure: no state, no network, same input
// always yields the same output.
//
// Callers such as the UI build Config straight from live widget state,
// so required fields are re-checked here even though the configuration
// resolver validates them too.
func Resolve(cfg Config) (ClientParams, error) {
	if cfg.ModelOrDeployment == "" {
		return ClientParams{}, NewError(ErrorTypeMissingCredential,
			"model or deployment name is required in every mode", nil)
	}

	if cfg.Mode == ModeEnterprise {
		if cfg.GatewayAPIKey == "" || cfg.GatewayEndpoint == "" {
			return ClientParams{}, NewError(ErrorTypeMissingCredential,
				"enterprise mode requires both the gateway API key and the gateway endpoint", nil)
		}
		return ClientParams{
			Endpoint:          cfg.GatewayEndpoint,
			APIKey:            cfg.GatewayAPIKey,
			ModelOrDeployment: cfg.ModelOrDeployment,
		}, nil
	}

	if cfg.ProviderAPIKey == "" {
		return ClientParams{}, NewError(ErrorTypeMissingCredential,
			fmt.Sprintf("direct mode requires an API key for provider %s", cfg.Provider), nil)
	}
	if cfg.Provider == ProviderAzureOpenAI && cfg.ProviderEndpoint == "" {
		return ClientParams{}, NewError(ErrorTypeMissingCredential,
			"direct mode requires the Azure OpenAI endpoint", nil)
	}

	return ClientParams{
		Endpoint:          cfg.ProviderEndpoint,
		APIKey:            cfg.ProviderAPIKey,
		ModelOrDeployment: cfg.ModelOrDeployment,
	}, nil
}
