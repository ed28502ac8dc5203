package styleflow

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"outfit-backend/internal/outfits"
)

const failedToGenerate = "Failed to generate recommendations"

// HTTPProvider calls a remote generate-outfit endpoint.
type HTTPProvider struct {
	client   *resty.Client
	endpoint string
}

// NewHTTPProvider builds a provider for endpoint. apiKey, when set, is sent both
// as a bearer token and in the apikey header.
func NewHTTPProvider(endpoint, apiKey string, timeout time.Duration) *HTTPProvider {
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	if key := strings.TrimSpace(apiKey); key != "" {
		client.SetAuthToken(key).SetHeader("apikey", key)
	}
	return &HTTPProvider{client: client, endpoint: endpoint}
}

// Generate posts {bodyShape, gender}. 429 and 402 map to the outfits sentinels;
// other failures, including a 2xx body carrying an error field, become a
// ProviderError. A body missing the expected fields yields an empty response.
func (p *HTTPProvider) Generate(ctx context.Context, clientID string, req outfits.Request) (outfits.Response, error) {
	r := p.client.R().SetContext(ctx).SetBody(req)
	if clientID != "" {
		r.SetHeader("X-Client-Info", clientID)
	}
	resp, err := r.Post(p.endpoint)
	if err != nil {
		return outfits.Response{}, &outfits.ProviderError{Message: failedToGenerate, Cause: err}
	}

	raw := resp.Body()
	errMsg := gjson.GetBytes(raw, "error").String()
	switch status := resp.StatusCode(); {
	case status == http.StatusTooManyRequests:
		return outfits.Response{}, fmt.Errorf("%w: %s", outfits.ErrRateLimited, errMsg)
	case status == http.StatusPaymentRequired:
		return outfits.Response{}, fmt.Errorf("%w: %s", outfits.ErrQuotaExhausted, errMsg)
	case resp.IsError():
		if errMsg == "" {
			errMsg = failedToGenerate
		}
		return outfits.Response{}, &outfits.ProviderError{
			Message: errMsg,
			Cause:   fmt.Errorf("provider http status %d", status),
		}
	case errMsg != "":
		return outfits.Response{}, &outfits.ProviderError{Message: errMsg}
	}

	out := outfits.Response{
		Recommendation: gjson.GetBytes(raw, "recommendation").String(),
		Images:         []string{},
	}
	gjson.GetBytes(raw, "images").ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String && v.Str != "" {
			out.Images = append(out.Images, v.Str)
		}
		return true
	})
	return out, nil
}

var _ Provider = (*HTTPProvider)(nil)
var _ Provider = (*outfits.Service)(nil)
