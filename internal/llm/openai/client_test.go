package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"outfit-backend/internal/llm"
)

type recordedRequest struct {
	Path string
	Auth string
	Body map[string]any
}

type gateway struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (g *gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var payload map[string]any
	_ = json.NewDecoder(r.Body).Decode(&payload)
	g.mu.Lock()
	g.requests = append(g.requests, recordedRequest{Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: payload})
	status, body := g.status, g.body
	g.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (g *gateway) last(t *testing.T) recordedRequest {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	require.NotEmpty(t, g.requests)
	return g.requests[len(g.requests)-1]
}

func newTestClient(t *testing.T, g *gateway) *Client {
	t.Helper()
	server := httptest.NewServer(g)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:    server.URL + "/v1",
		APIKey:     "test-key",
		TextModel:  "google/gemini-2.5-flash",
		ImageModel: "google/gemini-2.5-flash-image",
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{TextModel: "a", ImageModel: "b"})
	require.ErrorIs(t, err, llm.ErrNotConfigured)

	_, err = NewClient(Config{OAuth: &OAuthConfig{ClientID: "id"}, TextModel: "a", ImageModel: "b"})
	require.ErrorIs(t, err, llm.ErrNotConfigured)

	_, err = NewClient(Config{OAuth: &OAuthConfig{TokenURL: "http://token", ClientID: "id"}, TextModel: "a", ImageModel: "b"})
	require.NoError(t, err)
}

func TestGenerateTextSendsSystemAndUserMessages(t *testing.T) {
	g := &gateway{body: `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Tops:\n• wrap blouse"}}]}`}
	client := newTestClient(t, g)

	text, err := client.GenerateText(context.Background(), "be a stylist", "dress a pear")
	require.NoError(t, err)
	require.Equal(t, "Tops:\n• wrap blouse", text)

	req := g.last(t)
	require.Equal(t, "/v1/chat/completions", req.Path)
	require.Equal(t, "Bearer test-key", req.Auth)
	require.Equal(t, "google/gemini-2.5-flash", req.Body["model"])
	messages, ok := req.Body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	require.Equal(t, "system", messages[0].(map[string]any)["role"])
	require.Equal(t, "user", messages[1].(map[string]any)["role"])
	require.Equal(t, "dress a pear", messages[1].(map[string]any)["content"])
	_, hasModalities := req.Body["modalities"]
	require.False(t, hasModalities)
}

func TestGenerateTextWithoutChoicesIsEmpty(t *testing.T) {
	client := newTestClient(t, &gateway{body: `{"choices":[]}`})

	text, err := client.GenerateText(context.Background(), "", "prompt")
	require.NoError(t, err)
	require.Equal(t, "", text)
}

func TestGenerateImageReadsImageURL(t *testing.T) {
	g := &gateway{body: `{"choices":[{"message":{"role":"assistant","content":"","images":[{"type":"image_url","image_url":{"url":"data:image/png;base64,iVBORw0KGgo="}}]}}]}`}
	client := newTestClient(t, g)

	url, err := client.GenerateImage(context.Background(), "an elegant outfit")
	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,iVBORw0KGgo=", url)

	req := g.last(t)
	require.Equal(t, "google/gemini-2.5-flash-image", req.Body["model"])
	require.Equal(t, []any{"image", "text"}, req.Body["modalities"])
	messages := req.Body["messages"].([]any)
	require.Len(t, messages, 1)
}

func TestGenerateImageWithoutImagesIsEmpty(t *testing.T) {
	client := newTestClient(t, &gateway{body: `{"choices":[{"message":{"role":"assistant","content":"sorry"}}]}`})

	url, err := client.GenerateImage(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, "", url)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		is     error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, is: llm.ErrRateLimited},
		{name: "credits exhausted", status: http.StatusPaymentRequired, is: llm.ErrQuotaExhausted},
		{name: "server error", status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			g := &gateway{status: tt.status, body: `{"error":{"message":"upstream says no","type":"error"}}`}
			client := newTestClient(t, g)

			_, err := client.GenerateText(context.Background(), "", "prompt")
			require.Error(t, err)
			var se *llm.StatusError
			require.True(t, errors.As(err, &se), "got %v", err)
			require.Equal(t, tt.status, se.StatusCode)
			require.True(t, strings.HasPrefix(err.Error(), "text generation: "))
			if tt.is != nil {
				require.ErrorIs(t, err, tt.is)
			}

			g.mu.Lock()
			calls := len(g.requests)
			g.mu.Unlock()
			require.Equal(t, 1, calls, "requests must not be retried")
		})
	}
}
