package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, baseURL string) Client {
	t.Helper()
	client, err := NewClient(Config{APIKey: "test-key", Model: "gemini-2.5-flash", BaseURL: baseURL}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{}, zap.NewNop())
	require.Error(t, err)
}

func TestGenerateTextExtractsCandidateText(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.URL.Path, "models/gemini-2.5-flash:generateContent")
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"theme\":\"legs\"}"}]}}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	text, err := client.GenerateText(context.Background(), "plan my day")
	require.NoError(t, err)
	require.Equal(t, `{"theme":"legs"}`, text)

	cfg, ok := gotBody["generationConfig"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "application/json", cfg["responseMimeType"])
}

func TestGenerateTextFallsBackToRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	text, err := client.GenerateText(context.Background(), "plan my day")
	require.NoError(t, err)
	require.Contains(t, text, "SAFETY")
}

func TestGenerateTextPropagatesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.GenerateText(context.Background(), "plan my day")
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}
