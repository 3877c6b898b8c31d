package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sashabaranov/go-openai"
)

const (
	defaultConnectTimeout = 10 * time.Second
)

// BaseProvider contains common provider functionality
type BaseProvider struct {
	info       *Info
	httpClient *http.Client
	apiKey     string
	newBackoff func(ctx context.Context) backoff.BackOff
}

// NewBaseProvider creates a base provider with common setup
func NewBaseProvider(providerType Type, host, apiKey string) *BaseProvider {
	host = strings.TrimSuffix(host, "/")

	return &BaseProvider{
		info: &Info{
			Type:    providerType,
			Name:    providerType.DisplayName(),
			Host:    host,
			APIPath: "/v1",
		},
		httpClient: newHTTPClient(),
		apiKey:     apiKey,
		newBackoff: NewRetryBackoff,
	}
}

// Info returns provider metadata
func (p *BaseProvider) Info() *Info {
	return p.info
}

// SetModel sets the active model
func (p *BaseProvider) SetModel(model string) {
	p.info.Model = model
}

// CreateClient returns an OpenAI-compatible client
func (p *BaseProvider) CreateClient() *openai.Client {
	config := openai.DefaultConfig(p.apiKey)
	config.BaseURL = p.info.Host + p.info.APIPath
	config.HTTPClient = p.httpClient
	return openai.NewClientWithConfig(config)
}

// DetectModelsOpenAI queries the /v1/models endpoint, retrying transient failures
func (p *BaseProvider) DetectModelsOpenAI(ctx context.Context) ([]string, error) {
	var modelsResp struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}

	err := p.withRetry(ctx, func() error {
		resp, err := p.get(ctx, "/v1/models")
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return statusError(resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
			return permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	models := make([]string, 0, len(modelsResp.Data))
	for _, m := range modelsResp.Data {
		models = append(models, m.ID)
	}

	p.info.Models = models
	return models, nil
}

func (p *BaseProvider) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.info.Host+path, nil)
	if err != nil {
		return nil, permanent(fmt.Errorf("create request: %w", err))
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// newHTTPClient creates an HTTP client for LLM API requests.
// Client-level timeout is disabled; callers bound requests with a context.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 0,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   defaultConnectTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}
