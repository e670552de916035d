package aethergo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherlabs/aethergo/config"
	"github.com/aetherlabs/aethergo/routing"
)

func TestEnterpriseModeRoutesBothProvidersThroughGateway(t *testing.T) {
	var paths []string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, "gk", firstNonEmpty(r.Header.Get("api-key"), r.Header.Get("x-goog-api-key")))
		if r.Header.Get("x-goog-api-key") != "" {
			fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"from gemini"}]}}]}`)
			return
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"from azure"}}]}`)
	}))
	defer gateway.Close()

	settings, err := config.Load(config.WithSource(map[string]string{
		"AETHER_API_KEY":        "gk",
		"AETHER_PROXY_ENDPOINT": gateway.URL,
		"AZURE_PROVIDER_MODEL":  "gpt-4o-mini",
		"GOOGLE_PROVIDER_MODEL": "gemini-1.5-flash",
	}))
	require.NoError(t, err)

	azure, err := NewFromSettings(settings, ProviderAzureOpenAI)
	require.NoError(t, err)
	text, err := azure.Chat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "from azure", text)

	gemini, err := NewFromSettings(settings, ProviderGemini)
	require.NoError(t, err)
	text, err = gemini.Chat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "from gemini", text)

	require.Len(t, paths, 2)
	assert.Equal(t, "/openai/deployments/gpt-4o-mini/chat/completions", paths[0])
	assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", paths[1])
}

func TestDirectModeTalksToVendorEndpoint(t *testing.T) {
	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "azure-key", r.Header.Get("api-key"))
		assert.Equal(t, "2024-06-01", r.URL.Query().Get("api-version"))
		fmt.Fprint(w, `{"choices":[{"message":{"content":"direct answer"}}]}`)
	}))
	defer vendor.Close()

	settings, err := config.Load(config.WithSource(map[string]string{
		"AZURE_API_KEY":            "azure-key",
		"AZURE_ENDPOINT":           vendor.URL,
		"AZURE_OPENAI_API_VERSION": "2024-06-01",
		"AZURE_PROVIDER_MODEL":     "gpt-4o",
	}))
	require.NoError(t, err)

	llm, err := NewFromSettings(settings, ProviderAzureOpenAI)
	require.NoError(t, err)

	text, err := llm.Chat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "direct answer", text)
}

func TestMissingCredentialsFailBeforeAnyNetworkCall(t *testing.T) {
	settings, err := config.Load(config.WithSource(map[string]string{
		"GOOGLE_PROVIDER_MODEL": "gemini-1.5-flash",
	}))
	require.NoError(t, err)

	_, err = NewFromSettings(settings, ProviderGemini)
	require.Error(t, err)
	assert.True(t, routing.IsCredentialError(err))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
