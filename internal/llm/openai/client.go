package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"outfit-backend/internal/llm"
)

const (
	defaultBaseURL = "https://ai.gateway.lovable.dev/v1/"
	defaultTimeout = 120 * time.Second

	// Gateways that render images return them next to the message content.
	imageURLPath = "choices.0.message.images.0.image_url.url"
)

// OAuthConfig enables client-credentials tokens instead of a static key.
type OAuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// Config describes an OpenAI-compatible chat completions gateway.
type Config struct {
	BaseURL    string
	APIKey     string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
	OAuth      *OAuthConfig
	// HTTPClient overrides the transport; OAuth is ignored when set.
	HTTPClient *http.Client
}

// Client implements llm.Client against an OpenAI-compatible gateway.
type Client struct {
	sdk        openaisdk.Client
	textModel  string
	imageModel string
}

// NewClient constructs a gateway client. It returns llm.ErrNotConfigured when
// neither an API key nor OAuth credentials are present.
func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	oauth := cfg.OAuth
	if oauth != nil && (strings.TrimSpace(oauth.TokenURL) == "" || strings.TrimSpace(oauth.ClientID) == "") {
		oauth = nil
	}
	if apiKey == "" && oauth == nil {
		return nil, llm.ErrNotConfigured
	}
	if strings.TrimSpace(cfg.TextModel) == "" || strings.TrimSpace(cfg.ImageModel) == "" {
		return nil, fmt.Errorf("gateway text and image models are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
		if oauth != nil {
			httpClient = oauthHTTPClient(*oauth, timeout)
		}
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL(cfg.BaseURL)),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	return &Client{
		sdk:        openaisdk.NewClient(opts...),
		textModel:  strings.TrimSpace(cfg.TextModel),
		imageModel: strings.TrimSpace(cfg.ImageModel),
	}, nil
}

// GenerateText sends a system and user message and returns the first choice's content.
func (c *Client) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	messages := []openaisdk.ChatCompletionMessageParamUnion{}
	if strings.TrimSpace(system) != "" {
		messages = append(messages, openaisdk.SystemMessage(system))
	}
	messages = append(messages, openaisdk.UserMessage(prompt))

	resp, err := c.sdk.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(c.textModel),
		Messages: messages,
	})
	if err != nil {
		return "", mapError("text generation", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage asks the image model for a picture and returns its URL.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := c.sdk.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(c.imageModel),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{openaisdk.UserMessage(prompt)},
	}, option.WithJSONSet("modalities", []string{"image", "text"}))
	if err != nil {
		return "", mapError("image generation", err)
	}
	return gjson.Get(resp.RawJSON(), imageURLPath).String(), nil
}

func mapError(op string, err error) error {
	var apiErr *openaisdk.Error
	if errors.As(err, &apiErr) {
		body := strings.TrimSpace(apiErr.Message)
		if body == "" {
			body = http.StatusText(apiErr.StatusCode)
		}
		return fmt.Errorf("%s: %w", op, &llm.StatusError{StatusCode: apiErr.StatusCode, Body: body})
	}
	return fmt.Errorf("%s: %w", op, err)
}

func oauthHTTPClient(cfg OAuthConfig, timeout time.Duration) *http.Client {
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	base := &http.Client{Timeout: timeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := cc.Client(ctx)
	client.Timeout = timeout
	return client
}

func baseURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return defaultBaseURL
	}
	return strings.TrimRight(u, "/") + "/"
}

var _ llm.Client = (*Client)(nil)
