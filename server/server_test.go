package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherlabs/aethergo/config"
)

func newTestServer(t *testing.T, source map[string]string) *Server {
	t.Helper()
	settings, err := config.Load(config.WithSource(source))
	require.NoError(t, err)
	return New(settings)
}

func postChat(t *testing.T, s *Server, body map[string]any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	return rec, parsed
}

func TestIndexServesChatPage(t *testing.T) {
	s := newTestServer(t, map[string]string{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Aether Chat")
	assert.Contains(t, rec.Body.String(), "Enterprise mode")
}

func TestIndexOffersGeminiModelChoices(t *testing.T) {
	s := newTestServer(t, map[string]string{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	for _, model := range GeminiModels {
		assert.Contains(t, rec.Body.String(), `<option value="`+model+`">`)
	}
	assert.Contains(t, rec.Body.String(), "default from settings")
}

func TestChatEnterpriseSendGoesThroughGateway(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gk", r.Header.Get("x-goog-api-key"))
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"governed answer"}]}}]}`)
	}))
	defer gateway.Close()

	s := newTestServer(t, map[string]string{
		"AETHER_API_KEY":        "gk",
		"AETHER_PROXY_ENDPOINT": gateway.URL,
		"GOOGLE_PROVIDER_MODEL": "gemini-1.5-flash",
	})

	rec, body := postChat(t, s, map[string]any{
		"provider":   "gemini",
		"enterprise": true,
		"prompt":     "hello",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "governed answer", body["response"])
	assert.Equal(t, "enterprise", body["mode"])
}

func TestChatDirectSendUsesVendorCredentials(t *testing.T) {
	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "azure-key", r.Header.Get("api-key"))
		fmt.Fprint(w, `{"choices":[{"message":{"content":"direct answer"}}]}`)
	}))
	defer vendor.Close()

	s := newTestServer(t, map[string]string{
		"AZURE_API_KEY":        "azure-key",
		"AZURE_ENDPOINT":       vendor.URL,
		"AZURE_PROVIDER_MODEL": "gpt-4o-mini",
	})

	rec, body := postChat(t, s, map[string]any{
		"provider":   "azure-openai",
		"enterprise": false,
		"prompt":     "hello",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "direct answer", body["response"])
	assert.Equal(t, "direct", body["mode"])
}

func TestChatEnterpriseWithoutGatewayCredentialsIsConfigurationError(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"GOOGLE_API_KEY":        "pk",
		"GOOGLE_PROVIDER_MODEL": "gemini-1.5-flash",
	})

	rec, body := postChat(t, s, map[string]any{
		"provider":   "gemini",
		"enterprise": true,
		"prompt":     "hello",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "configuration", body["kind"])
}

func TestChatModelOverridePerSend(t *testing.T) {
	var gotPath string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
	}))
	defer gateway.Close()

	s := newTestServer(t, map[string]string{
		"AETHER_API_KEY":        "gk",
		"AETHER_PROXY_ENDPOINT": gateway.URL,
		"GOOGLE_PROVIDER_MODEL": "gemini-1.5-flash",
	})

	rec, _ := postChat(t, s, map[string]any{
		"provider":   "gemini",
		"enterprise": true,
		"model":      "gemini-1.5-pro",
		"prompt":     "hello",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/v1beta/models/gemini-1.5-pro:generateContent", gotPath)
}

func TestChatUnknownProviderRejected(t *testing.T) {
	s := newTestServer(t, map[string]string{})

	rec, body := postChat(t, s, map[string]any{
		"provider": "anthropic",
		"prompt":   "hello",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "configuration", body["kind"])
}

func TestChatSequentialSendsAllAllowed(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
	}))
	defer gateway.Close()

	s := newTestServer(t, map[string]string{
		"AETHER_API_KEY":        "gk",
		"AETHER_PROXY_ENDPOINT": gateway.URL,
		"GOOGLE_PROVIDER_MODEL": "gemini-1.5-flash",
	})

	send := map[string]any{"provider": "gemini", "enterprise": true, "prompt": "hello"}

	// Back-to-back sends are fine once the previous one has finished.
	for i := 0; i < 3; i++ {
		rec, _ := postChat(t, s, send)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestChatSecondSendWhileFirstInFlightGetsRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
	}))
	defer gateway.Close()

	s := newTestServer(t, map[string]string{
		"AETHER_API_KEY":        "gk",
		"AETHER_PROXY_ENDPOINT": gateway.URL,
		"GOOGLE_PROVIDER_MODEL": "gemini-1.5-flash",
	})

	payload := `{"provider":"gemini","enterprise":true,"prompt":"hello"}`

	firstDone := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		firstDone <- rec
	}()

	// Wait until the first send is blocked inside the gateway call,
	// then try again.
	<-started
	rec, body := postChat(t, s, map[string]any{
		"provider": "gemini", "enterprise": true, "prompt": "hello",
	})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, body["error"], "one message at a time")

	close(release)
	first := <-firstDone
	assert.Equal(t, http.StatusOK, first.Code)
}
