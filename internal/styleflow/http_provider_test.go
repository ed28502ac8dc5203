package styleflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"outfit-backend/internal/outfits"
)

type seenRequest struct {
	header http.Header
	body   outfits.Request
}

func providerServer(t *testing.T, status int, body string, seen *seenRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			seen.header = r.Header.Clone()
			_ = json.NewDecoder(r.Body).Decode(&seen.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

var pearFemale = outfits.Request{BodyShape: "Pear", Gender: "Female"}

func TestHTTPProviderSuccess(t *testing.T) {
	var seen seenRequest
	srv := providerServer(t, http.StatusOK,
		`{"recommendation":"Tops:\n• Boat necks","images":["https://a","",7,"https://b"]}`, &seen)
	p := NewHTTPProvider(srv.URL, "anon-key", time.Second)

	resp, err := p.Generate(context.Background(), "key:123", pearFemale)

	require.NoError(t, err)
	require.Equal(t, "Tops:\n• Boat necks", resp.Recommendation)
	require.Equal(t, []string{"https://a", "https://b"}, resp.Images)
	require.Equal(t, pearFemale, seen.body)
	require.Equal(t, "Bearer anon-key", seen.header.Get("Authorization"))
	require.Equal(t, "anon-key", seen.header.Get("apikey"))
	require.Equal(t, "key:123", seen.header.Get("X-Client-Info"))
}

func TestHTTPProviderStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		target  error
		message string
	}{
		{"429", http.StatusTooManyRequests, `{"error":"Rate limit exceeded. Please try again in a moment."}`, outfits.ErrRateLimited, ""},
		{"402", http.StatusPaymentRequired, `{"error":"AI credits exhausted. Please add more credits."}`, outfits.ErrQuotaExhausted, ""},
		{"500 with error", http.StatusInternalServerError, `{"error":"Text generation failed"}`, outfits.ErrProviderFailed, "Text generation failed"},
		{"500 without body", http.StatusInternalServerError, ``, outfits.ErrProviderFailed, "Failed to generate recommendations"},
		{"200 with error field", http.StatusOK, `{"error":"upstream said no"}`, outfits.ErrProviderFailed, "upstream said no"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := providerServer(t, tt.status, tt.body, nil)
			p := NewHTTPProvider(srv.URL, "", time.Second)

			_, err := p.Generate(context.Background(), "", pearFemale)

			require.ErrorIs(t, err, tt.target)
			if tt.message != "" {
				require.Equal(t, tt.message, err.Error())
			}
		})
	}
}

func TestHTTPProviderMalformedBodyYieldsEmpty(t *testing.T) {
	srv := providerServer(t, http.StatusOK, `not json`, nil)
	p := NewHTTPProvider(srv.URL, "", time.Second)

	resp, err := p.Generate(context.Background(), "", pearFemale)

	require.NoError(t, err)
	require.Empty(t, resp.Recommendation)
	require.NotNil(t, resp.Images)
	require.Empty(t, resp.Images)
}

func TestHTTPProviderNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	p := NewHTTPProvider(url, "", time.Second)

	_, err := p.Generate(context.Background(), "", pearFemale)

	require.ErrorIs(t, err, outfits.ErrProviderFailed)
	require.Equal(t, "Failed to generate recommendations", err.Error())
}
