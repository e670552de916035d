package providers

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/aetherlabs/aethergo/routing"
	"github.com/aetherlabs/aethergo/utils"
)

// DefaultAzureAPIVersion is used when no "api_version" option is set.
const DefaultAzureAPIVersion = "2024-02-01"

// AzureOpenAIProvider adapts resolved client parameters to the Azure
// OpenAI chat-completions API. The endpoint in the parameters is the
// service base URL, which is either the Azure resource or the Aether
// gateway; the deployment path is appended here either way, so the
// gateway sees the same URL shape the vendor would.
type AzureOpenAIProvider struct {
	params  routing.ClientParams
	options map[string]any
	logger  utils.Logger
}

// NewAzureOpenAIProvider creates an Azure OpenAI adapter.
// params.ModelOrDeployment is the deployment name.
func NewAzureOpenAIProvider(params routing.ClientParams) Provider {
	return &AzureOpenAIProvider{
		params:  params,
		options: make(map[string]any),
		logger:  utils.NewLogger(utils.LogLevelWarn),
	}
}

func (p *AzureOpenAIProvider) Name() string {
	return string(routing.ProviderAzureOpenAI)
}

// Endpoint builds the deployment-scoped chat-completions URL, for
// example:
//
//	https://{resource}.openai.azure.com/openai/deployments/{deployment}/chat/completions?api-version=2024-02-01
func (p *AzureOpenAIProvider) Endpoint() string {
	base := strings.TrimRight(p.params.Endpoint, "/")
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		base,
		url.PathEscape(p.params.ModelOrDeployment),
		url.QueryEscape(p.apiVersion()))
}

func (p *AzureOpenAIProvider) apiVersion() string {
	if v, ok := p.options["api_version"].(string); ok && v != "" {
		return v
	}
	return DefaultAzureAPIVersion
}

func (p *AzureOpenAIProvider) Headers() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"api-key":      p.params.APIKey,
	}
}

func (p *AzureOpenAIProvider) SetOption(key string, value any) {
	p.options[key] = value
}

func (p *AzureOpenAIProvider) SetLogger(logger utils.Logger) {
	p.logger = logger
}

// PrepareRequest builds an OpenAI-style chat-completions body with an
// optional system message ahead of the user prompt.
func (p *AzureOpenAIProvider) PrepareRequest(prompt string) ([]byte, error) {
	messages := make([]map[string]string, 0, 2)
	if sys, ok := p.options["system_prompt"].(string); ok && sys != "" {
		messages = append(messages, map[string]string{"role": "system", "content": sys})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	body := map[string]any{
		"model":    p.params.ModelOrDeployment,
		"messages": messages,
	}
	if temp, ok := p.options["temperature"]; ok {
		body["temperature"] = temp
	}
	if maxTokens, ok := p.options["max_tokens"]; ok {
		body["max_tokens"] = maxTokens
	}

	return json.Marshal(body)
}

// ParseResponse extracts the first choice's message content.
func (p *AzureOpenAIProvider) ParseResponse(body []byte) (string, error) {
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", routing.NewError(routing.ErrorTypeResponse,
			"failed to parse response JSON", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", routing.NewError(routing.ErrorTypeResponse,
			"the LLM did not return a response", nil)
	}
	return resp.Choices[0].Message.Content, nil
}
