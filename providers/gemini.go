package providers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aetherlabs/aethergo/routing"
	"github.com/aetherlabs/aethergo/utils"
)

// GeminiDefaultHost is the vendor host used in direct mode when the
// resolved parameters carry no endpoint override.
const GeminiDefaultHost = "https://generativelanguage.googleapis.com"

// GeminiProvider adapts resolved client parameters to the Google
// Generative Language API's generateContent call. A non-empty endpoint
// in the parameters (gateway mode) replaces the vendor host, mirroring
// the SDK's client-level api_endpoint override.
type GeminiProvider struct {
	params  routing.ClientParams
	options map[string]any
	logger  utils.Logger
}

// NewGeminiProvider creates a Gemini adapter.
// params.ModelOrDeployment is the model name, with or without the
// "models/" resource prefix.
func NewGeminiProvider(params routing.ClientParams) Provider {
	return &GeminiProvider{
		params:  params,
		options: make(map[string]any),
		logger:  utils.NewLogger(utils.LogLevelWarn),
	}
}

func (p *GeminiProvider) Name() string {
	return string(routing.ProviderGemini)
}

// Endpoint builds the generateContent URL, for example:
//
//	https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent
func (p *GeminiProvider) Endpoint() string {
	host := p.params.Endpoint
	if host == "" {
		host = GeminiDefaultHost
	}
	host = strings.TrimRight(host, "/")

	model := p.params.ModelOrDeployment
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return fmt.Sprintf("%s/v1beta/%s:generateContent", host, model)
}

func (p *GeminiProvider) Headers() map[string]string {
	return map[string]string{
		"Content-Type":   "application/json",
		"x-goog-api-key": p.params.APIKey,
	}
}

func (p *GeminiProvider) SetOption(key string, value any) {
	p.options[key] = value
}

func (p *GeminiProvider) SetLogger(logger utils.Logger) {
	p.logger = logger
}

// PrepareRequest builds a generateContent body with the prompt as a
// single user content, plus optional system instruction and generation
// config.
func (p *GeminiProvider) PrepareRequest(prompt string) ([]byte, error) {
	body := map[string]any{
		"contents": []map[string]any{
			{
				"role":  "user",
				"parts": []map[string]string{{"text": prompt}},
			},
		},
	}

	if sys, ok := p.options["system_prompt"].(string); ok && sys != "" {
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]string{{"text": sys}},
		}
	}

	generationConfig := make(map[string]any)
	if temp, ok := p.options["temperature"]; ok {
		generationConfig["temperature"] = temp
	}
	if maxTokens, ok := p.options["max_tokens"]; ok {
		generationConfig["maxOutputTokens"] = maxTokens
	}
	if len(generationConfig) > 0 {
		body["generationConfig"] = generationConfig
	}

	return json.Marshal(body)
}

// ParseResponse concatenates the text parts of the first candidate,
// with no separator, matching the SDK's response.text behavior for
// responses split mid-word across parts.
func (p *GeminiProvider) ParseResponse(body []byte) (string, error) {
	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", routing.NewError(routing.ErrorTypeResponse,
			"failed to parse response JSON", err)
	}
	if len(resp.Candidates) == 0 {
		return "", routing.NewError(routing.ErrorTypeResponse,
			"the LLM did not return a response", nil)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", routing.NewError(routing.ErrorTypeResponse,
			"the LLM did not return a response", nil)
	}
	return text.String(), nil
}
