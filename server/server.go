// Package server is the browser-facing variant of the invocation
// driver: a small chat page where the user picks the provider and the
// routing mode per send. Every send rebuilds the routing configuration
// from the current form state, so switching between enterprise and
// direct takes effect on the next message with no restart.
package server

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aetherlabs/aethergo/client"
	"github.com/aetherlabs/aethergo/config"
	"github.com/aetherlabs/aethergo/providers"
	"github.com/aetherlabs/aethergo/routing"
	"github.com/aetherlabs/aethergo/utils"
)

// GeminiModels are the model choices offered in the UI dropdown.
var GeminiModels = []string{
	"gemini-1.5-flash",
	"gemini-1.5-pro",
}

// Server serves the chat page and the per-send invocation endpoint.
type Server struct {
	settings *config.Settings
	logger   utils.Logger
	engine   *gin.Engine
}

// Option adjusts a Server at construction time.
type Option func(*Server)

// WithLogger replaces the default logger.
func WithLogger(logger utils.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server over already-loaded settings.
func New(settings *config.Settings, opts ...Option) *Server {
	s := &Server{
		settings: settings,
		logger:   utils.NewLogger(settings.LogLevel),
	}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/", s.handleIndex)
	engine.POST("/api/chat", NewSendLimiter(s.logger).Middleware(), s.handleChat)
	s.engine = engine

	return s
}

// Handler exposes the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("Serving chat UI", "addr", addr)
	return s.engine.Run(addr)
}

func (s *Server) handleIndex(c *gin.Context) {
	var page bytes.Buffer
	if err := indexTemplate.Execute(&page, indexData{GeminiModels: GeminiModels}); err != nil {
		s.logger.Error("Failed to render chat page", "error", err)
		c.String(http.StatusInternalServerError, "page rendering failed")
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, page.String())
}

// chatRequest is one send from the form. Enterprise is the user's
// per-send mode choice; it only sticks when the gateway credentials
// exist, which resolution re-checks.
type chatRequest struct {
	Provider   string `json:"provider" binding:"required"`
	Enterprise bool   `json:"enterprise"`
	Model      string `json:"model"`
	Prompt     string `json:"prompt" binding:"required"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "configuration"})
		return
	}

	kind, err := routing.ParseProviderKind(req.Provider)
	if err != nil {
		s.respondError(c, err)
		return
	}

	cfg, err := s.routingFromForm(kind, req)
	if err != nil {
		s.respondError(c, err)
		return
	}

	params, err := routing.Resolve(cfg)
	if err != nil {
		s.respondError(c, err)
		return
	}

	provider, err := providers.Build(kind, params)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if kind == routing.ProviderAzureOpenAI {
		provider.SetOption("api_version", s.settings.AzureAPIVersion)
	}

	llm := client.New(provider,
		client.WithTimeout(s.settings.Timeout),
		client.WithLogger(s.logger))

	text, err := llm.Chat(c.Request.Context(), req.Prompt)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response": text,
		"mode":     cfg.Mode.String(),
		"provider": string(kind),
	})
}

// routingFromForm builds the per-send routing configuration: mode from
// the form, credentials and model defaults from the settings.
func (s *Server) routingFromForm(kind routing.ProviderKind, req chatRequest) (routing.Config, error) {
	mode := routing.ModeDirect
	if req.Enterprise {
		mode = routing.ModeEnterprise
	}

	cfg := routing.Config{
		Mode:            mode,
		Provider:        kind,
		GatewayAPIKey:   s.settings.AetherAPIKey,
		GatewayEndpoint: s.settings.AetherProxyEndpoint,
	}

	switch kind {
	case routing.ProviderAzureOpenAI:
		cfg.ProviderAPIKey = s.settings.AzureAPIKey
		cfg.ProviderEndpoint = s.settings.AzureEndpoint
		cfg.ModelOrDeployment = s.settings.AzureDeployment
	case routing.ProviderGemini:
		cfg.ProviderAPIKey = s.settings.GoogleAPIKey
		cfg.ModelOrDeployment = s.settings.GoogleModel
	}
	if req.Model != "" {
		cfg.ModelOrDeployment = req.Model
	}
	if cfg.ModelOrDeployment == "" {
		return routing.Config{}, routing.NewError(routing.ErrorTypeConfiguration,
			"no model selected and no default configured", nil)
	}

	return cfg, nil
}

// respondError keeps configuration mistakes distinguishable from
// failed calls in what the page shows.
func (s *Server) respondError(c *gin.Context, err error) {
	kind := "provider"
	status := http.StatusBadGateway
	if routing.IsCredentialError(err) {
		kind = "configuration"
		status = http.StatusUnprocessableEntity
	}
	s.logger.Error("Chat request failed", "kind", kind, "error", err)
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}
