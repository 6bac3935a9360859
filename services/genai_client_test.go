package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGeminiClient(baseURL string) *GeminiClient {
	return &GeminiClient{
		client:  &http.Client{Timeout: 5 * time.Second},
		apiKey:  "test-key",
		model:   "gemini-1.5-flash-latest",
		baseURL: baseURL,
	}
}

func TestGeminiClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-1.5-flash-latest:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "plan my week", req.Contents[0].Parts[0].Text)

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "Monday: "},
					{"text": "pasta"},
				}}},
			},
			"usageMetadata": map[string]any{
				"promptTokenCount":     12,
				"candidatesTokenCount": 34,
				"totalTokenCount":      46,
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := testGeminiClient(srv.URL)
	out, err := c.Complete(context.Background(), "plan my week")
	require.NoError(t, err)

	assert.Equal(t, "Monday: pasta", out.Text)
	require.NotNil(t, out.Usage)
	assert.Equal(t, 12, out.Usage.PromptTokens)
	assert.Equal(t, 34, out.Usage.CompletionTokens)
	assert.Equal(t, 46, out.Usage.TotalTokens)
}

func TestGeminiClientSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "API key not valid"},
		})
	}))
	defer srv.Close()

	c := testGeminiClient(srv.URL)
	_, err := c.Complete(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini api error (403)")
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGeminiClientRejectsEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	c := testGeminiClient(srv.URL)
	_, err := c.Complete(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGeminiClientRequiresAPIKey(t *testing.T) {
	c := &GeminiClient{client: http.DefaultClient, model: "m", baseURL: "http://unused"}
	_, err := c.Complete(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}
