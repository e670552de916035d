// Package config resolves the environment-sourced settings into the
// immutable routing configuration the rest of the module works from.
// Variable names match the ones the Aether gateway documents for its
// client examples.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/aetherlabs/aethergo/routing"
	"github.com/aetherlabs/aethergo/utils"
)

// validate is the shared validator instance for Settings.
var validate = validator.New()

// Settings holds every raw value the resolver reads. Gateway and
// vendor credentials coexist here; which set is used is decided by
// Mode, not by their mere presence in the struct.
type Settings struct {
	// Aether gateway ingress.
	AetherAPIKey        string `env:"AETHER_API_KEY"`
	AetherProxyEndpoint string `env:"AETHER_PROXY_ENDPOINT" validate:"omitempty,url"`

	// Azure OpenAI.
	AzureAPIKey     string `env:"AZURE_API_KEY"`
	AzureEndpoint   string `env:"AZURE_ENDPOINT" validate:"omitempty,url"`
	AzureAPIVersion string `env:"AZURE_OPENAI_API_VERSION" envDefault:"2024-02-01"`
	AzureDeployment string `env:"AZURE_PROVIDER_MODEL"`

	// Google Gemini. Gemini has no per-account endpoint; the vendor
	// default host applies in direct mode.
	GoogleAPIKey string `env:"GOOGLE_API_KEY"`
	GoogleModel  string `env:"GOOGLE_PROVIDER_MODEL"`

	Timeout  time.Duration  `env:"AETHER_TIMEOUT" envDefault:"60s"`
	LogLevel utils.LogLevel `env:"AETHER_LOG_LEVEL" envDefault:"WARN"`
}

type loadOptions struct {
	envFiles []string
	source   map[string]string
}

// LoadOption adjusts where Load reads its values from.
type LoadOption func(*loadOptions)

// WithEnvFile loads the named dotenv file before parsing, with file
// values overriding the process environment, matching the gateway's
// Python examples which load .env with override semantics. May be
// given more than once.
func WithEnvFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.envFiles = append(o.envFiles, path)
	}
}

// WithSource parses from the given key/value mapping instead of the
// process environment. The process environment is not consulted and
// not mutated.
func WithSource(source map[string]string) LoadOption {
	return func(o *loadOptions) {
		o.source = source
	}
}

// Load builds Settings from the process environment, or from an
// explicit source mapping when one is supplied.
func Load(opts ...LoadOption) (*Settings, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	settings := &Settings{}

	if o.source != nil {
		if err := env.ParseWithOptions(settings, env.Options{Environment: o.source}); err != nil {
			return nil, routing.NewError(routing.ErrorTypeConfiguration,
				"failed to parse settings", err)
		}
	} else {
		if len(o.envFiles) > 0 {
			if err := godotenv.Overload(o.envFiles...); err != nil {
				return nil, routing.NewError(routing.ErrorTypeConfiguration,
					"failed to load env file", err)
			}
		} else {
			// A .env next to the binary is optional.
			_ = godotenv.Overload(".env")
		}
		if err := env.Parse(settings); err != nil {
			return nil, routing.NewError(routing.ErrorTypeConfiguration,
				"failed to parse settings", err)
		}
	}

	if err := validate.Struct(settings); err != nil {
		return nil, routing.NewError(routing.ErrorTypeConfiguration,
			"invalid settings", err)
	}

	return settings, nil
}

// Mode derives the routing mode. Governance is opted into by the
// presence of both gateway values; vendor credentials never influence
// the choice, so enterprise wins when both sets are populated.
func (s *Settings) Mode() routing.Mode {
	if s.AetherAPIKey != "" && s.AetherProxyEndpoint != "" {
		return routing.ModeEnterprise
	}
	return routing.ModeDirect
}

// Routing assembles the immutable routing configuration for one
// provider. It fails when the selected mode lacks the values that mode
// needs, naming the missing variable.
func (s *Settings) Routing(provider routing.ProviderKind) (routing.Config, error) {
	cfg := routing.Config{
		Mode:            s.Mode(),
		Provider:        provider,
		GatewayAPIKey:   s.AetherAPIKey,
		GatewayEndpoint: s.AetherProxyEndpoint,
	}

	switch provider {
	case routing.ProviderAzureOpenAI:
		cfg.ProviderAPIKey = s.AzureAPIKey
		cfg.ProviderEndpoint = s.AzureEndpoint
		cfg.ModelOrDeployment = s.AzureDeployment
		if cfg.ModelOrDeployment == "" {
			return routing.Config{}, missingKey("AZURE_PROVIDER_MODEL")
		}
		if cfg.Mode == routing.ModeDirect {
			if cfg.ProviderAPIKey == "" {
				return routing.Config{}, missingKey("AZURE_API_KEY")
			}
			if cfg.ProviderEndpoint == "" {
				return routing.Config{}, missingKey("AZURE_ENDPOINT")
			}
		}
	case routing.ProviderGemini:
		cfg.ProviderAPIKey = s.GoogleAPIKey
		cfg.ModelOrDeployment = s.GoogleModel
		if cfg.ModelOrDeployment == "" {
			return routing.Config{}, missingKey("GOOGLE_PROVIDER_MODEL")
		}
		if cfg.Mode == routing.ModeDirect && cfg.ProviderAPIKey == "" {
			return routing.Config{}, missingKey("GOOGLE_API_KEY")
		}
	default:
		return routing.Config{}, routing.NewError(routing.ErrorTypeConfiguration,
			fmt.Sprintf("unknown provider %q", provider), nil)
	}

	return cfg, nil
}

func missingKey(key string) error {
	return routing.NewError(routing.ErrorTypeConfiguration,
		fmt.Sprintf("required variable %s is not set", key), nil)
}
