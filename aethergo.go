// Package aethergo lets an SDK-based agent route its LLM traffic
// through the Aether governance gateway without rewriting call sites.
// Configuration decides the path: when gateway credentials are
// present, every provider is reached through the one gateway ingress
// ("enterprise" mode); otherwise calls go straight to the vendor with
// the vendor's own credentials ("direct" mode).
//
// New wires the whole chain: load settings, build the routing
// configuration, resolve it, construct the adapter, return a client:
//
//	llm, err := aethergo.New(aethergo.ProviderGemini)
//	if err != nil {
//		log.Fatal(err)
//	}
//	answer, err := llm.Chat(ctx, "Hi! Tell me about yourself.")
package aethergo

import (
	"github.com/aetherlabs/aethergo/client"
	"github.com/aetherlabs/aethergo/config"
	"github.com/aetherlabs/aethergo/providers"
	"github.com/aetherlabs/aethergo/routing"
	"github.com/aetherlabs/aethergo/utils"
)

// Re-exported core types so simple callers only import this package.
type (
	ProviderKind = routing.ProviderKind
	Mode         = routing.Mode
	ClientParams = routing.ClientParams
)

const (
	ProviderAzureOpenAI = routing.ProviderAzureOpenAI
	ProviderGemini      = routing.ProviderGemini

	ModeDirect     = routing.ModeDirect
	ModeEnterprise = routing.ModeEnterprise
)

// New loads settings from the environment and returns a ready client
// for the given provider.
func New(kind ProviderKind, loadOpts ...config.LoadOption) (*client.Client, error) {
	settings, err := config.Load(loadOpts...)
	if err != nil {
		return nil, err
	}
	return NewFromSettings(settings, kind)
}

// NewFromSettings builds a client from already-loaded settings:
// routing configuration, resolution, adapter construction, one client.
func NewFromSettings(settings *config.Settings, kind ProviderKind, opts ...client.Option) (*client.Client, error) {
	cfg, err := settings.Routing(kind)
	if err != nil {
		return nil, err
	}

	params, err := routing.Resolve(cfg)
	if err != nil {
		return nil, err
	}

	provider, err := providers.Build(kind, params)
	if err != nil {
		return nil, err
	}
	if kind == ProviderAzureOpenAI {
		provider.SetOption("api_version", settings.AzureAPIVersion)
	}

	opts = append([]client.Option{
		client.WithTimeout(settings.Timeout),
		client.WithLogger(utils.NewLogger(settings.LogLevel)),
	}, opts...)

	return client.New(provider, opts...), nil
}
