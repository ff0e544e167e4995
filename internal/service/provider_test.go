package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-chat/backend/config"
)

func TestGeminiProvider_Generate(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Enjoy! {\"title\":\"Toast\"}"}]}}]}`))
	}))
	defer srv.Close()

	p, err := NewGeminiProvider(context.Background(), "test-key", "gemini-test", srv.URL+"/")
	require.NoError(t, err)

	text, err := p.Generate(context.Background(), "make toast", GenerationParams{Temperature: 0.5, MaxOutputTokens: 256})
	require.NoError(t, err)
	assert.Equal(t, `Enjoy! {"title":"Toast"}`, text)
	assert.True(t, strings.HasSuffix(gotPath, "models/gemini-test:generateContent"), gotPath)
	assert.Contains(t, gotBody, "contents")
	assert.Equal(t, "gemini", p.Name())
}

func TestGeminiProvider_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
	}))
	defer srv.Close()

	p, err := NewGeminiProvider(context.Background(), "test-key", "", srv.URL+"/")
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "make toast", GenerationParams{})
	assert.Error(t, err)
}

func TestOpenAIProvider_Generate(t *testing.T) {
	calls := 0
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","created":1,"model":"deepseek-chat",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Here! {\"title\":\"Soup\"}"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", "deepseek-chat", srv.URL+"/")
	text, err := p.Generate(context.Background(), "make soup", GenerationParams{Temperature: 0.7, MaxOutputTokens: 512})
	require.NoError(t, err)
	assert.Equal(t, `Here! {"title":"Soup"}`, text)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "deepseek-chat", gotBody["model"])
	assert.EqualValues(t, 512, gotBody["max_tokens"])
}

func TestOpenAIProvider_NoRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", "", srv.URL+"/")
	_, err := p.Generate(context.Background(), "make soup", GenerationParams{})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), config.AIConfig{Provider: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	_, err = NewProvider(context.Background(), config.AIConfig{Provider: "watson"})
	assert.Error(t, err)
}
