package provider

import (
	"context"
	"errors"
	"strings"
)

// ErrNoHost is returned when no server URL is configured
var ErrNoHost = errors.New("host is required")

// New creates a provider for host. An empty or "auto" vendor triggers
// detection; anything unrecognized falls back to the vLLM flavour, which
// is the plain OpenAI-compatible surface.
func New(ctx context.Context, host, vendor, apiKey string) (Provider, error) {
	if strings.TrimSpace(host) == "" {
		return nil, ErrNoHost
	}

	providerType := ParseVendorConfig(vendor)
	if providerType == TypeUnknown {
		providerType = Detect(ctx, host)
	}
	return NewWithType(providerType, host, apiKey)
}

// NewWithType creates a provider with an explicit type (no auto-detection)
func NewWithType(providerType Type, host, apiKey string) (Provider, error) {
	if strings.TrimSpace(host) == "" {
		return nil, ErrNoHost
	}

	switch providerType {
	case TypeOllama:
		return NewOllamaProvider(host, apiKey), nil
	case TypeLlamaCpp:
		return NewLlamaCppProvider(host, apiKey), nil
	default:
		return NewVLLMProvider(host, apiKey), nil
	}
}

// SelectModel picks the configured model when set, otherwise the first
// model the server reports. It returns "" when nothing is available.
func SelectModel(configured string, available []string) string {
	if configured != "" {
		return configured
	}
	if len(available) > 0 {
		return available[0]
	}
	return ""
}
