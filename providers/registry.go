package providers

import (
	"fmt"
	"sync"

	"github.com/aetherlabs/aethergo/routing"
)

// Constructor builds a provider adapter from resolved client
// parameters.
type Constructor func(params routing.ClientParams) Provider

// Registry maps provider kinds onto their adapter constructors. The
// built-in set is closed; Register exists so embedders can point an
// extra kind at a compatible adapter.
type Registry struct {
	constructors map[routing.ProviderKind]Constructor
	mutex        sync.RWMutex
}

// NewRegistry creates a registry with all built-in adapters.
func NewRegistry() *Registry {
	return &Registry{
		constructors: map[routing.ProviderKind]Constructor{
			routing.ProviderAzureOpenAI: NewAzureOpenAIProvider,
			routing.ProviderGemini:      NewGeminiProvider,
		},
	}
}

// Register adds or replaces a constructor for kind.
func (r *Registry) Register(kind routing.ProviderKind, constructor Constructor) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.constructors[kind] = constructor
}

// Get builds the adapter for kind from params.
func (r *Registry) Get(kind routing.ProviderKind, params routing.ClientParams) (Provider, error) {
	r.mutex.RLock()
	constructor, exists := r.constructors[kind]
	r.mutex.RUnlock()

	if !exists {
		return nil, routing.NewError(routing.ErrorTypeConfiguration,
			fmt.Sprintf("unknown provider: %s", kind), nil)
	}
	return constructor(params), nil
}

// Build constructs an adapter using the default registry.
func Build(kind routing.ProviderKind, params routing.ClientParams) (Provider, error) {
	return NewRegistry().Get(kind, params)
}
