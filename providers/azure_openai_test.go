package providers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherlabs/aethergo/routing"
)

func azureParams() routing.ClientParams {
	return routing.ClientParams{
		Endpoint:          "https://myresource.openai.azure.com",
		APIKey:            "azure-key",
		ModelOrDeployment: "gpt-4o-mini",
	}
}

func TestAzureEndpointLayout(t *testing.T) {
	p := NewAzureOpenAIProvider(azureParams())

	assert.Equal(t,
		"https://myresource.openai.azure.com/openai/deployments/gpt-4o-mini/chat/completions?api-version=2024-02-01",
		p.Endpoint())
}

func TestAzureEndpointTrailingSlashAndAPIVersion(t *testing.T) {
	params := azureParams()
	params.Endpoint = "https://gw.example/"
	p := NewAzureOpenAIProvider(params)
	p.SetOption("api_version", "2024-06-01")

	assert.Equal(t,
		"https://gw.example/openai/deployments/gpt-4o-mini/chat/completions?api-version=2024-06-01",
		p.Endpoint())
}

func TestAzureHeaders(t *testing.T) {
	p := NewAzureOpenAIProvider(azureParams())

	headers := p.Headers()
	assert.Equal(t, "azure-key", headers["api-key"])
	assert.Equal(t, "application/json", headers["Content-Type"])
	assert.NotContains(t, headers, "Authorization")
}

func TestAzurePrepareRequest(t *testing.T) {
	p := NewAzureOpenAIProvider(azureParams())
	p.SetOption("system_prompt", "You are a helpful assistant.")
	p.SetOption("temperature", 0.7)

	body, err := p.PrepareRequest("Hi! Tell me about yourself.")
	require.NoError(t, err)

	var req struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Temperature float64 `json:"temperature"`
	}
	require.NoError(t, json.Unmarshal(body, &req))

	assert.Equal(t, "gpt-4o-mini", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "You are a helpful assistant.", req.Messages[0].Content)
	assert.Equal(t, "user", req.Messages[1].Role)
	assert.Equal(t, "Hi! Tell me about yourself.", req.Messages[1].Content)
	assert.InDelta(t, 0.7, req.Temperature, 0.001)
}

func TestAzurePrepareRequestWithoutSystemPrompt(t *testing.T) {
	p := NewAzureOpenAIProvider(azureParams())

	body, err := p.PrepareRequest("hello")
	require.NoError(t, err)

	assert.NotContains(t, string(body), `"system"`)
	assert.Contains(t, string(body), `"role":"user"`)
}

func TestAzureParseResponse(t *testing.T) {
	p := NewAzureOpenAIProvider(azureParams())

	text, err := p.ParseResponse([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hello there!"}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Hello there!", text)
}

func TestAzureParseResponseEmptyChoices(t *testing.T) {
	p := NewAzureOpenAIProvider(azureParams())

	_, err := p.ParseResponse([]byte(`{"choices":[]}`))
	require.Error(t, err)
	assert.Equal(t, routing.ErrorTypeResponse, routing.TypeOf(err))
}

func TestAzureParseResponseMalformed(t *testing.T) {
	p := NewAzureOpenAIProvider(azureParams())

	_, err := p.ParseResponse([]byte(`not json`))
	require.Error(t, err)
	assert.Equal(t, routing.ErrorTypeResponse, routing.TypeOf(err))
}
