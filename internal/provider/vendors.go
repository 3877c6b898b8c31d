package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// VLLMProvider implements Provider for vLLM servers
type VLLMProvider struct {
	*BaseProvider
}

// NewVLLMProvider creates a new vLLM provider
func NewVLLMProvider(host, apiKey string) *VLLMProvider {
	base := NewBaseProvider(TypeVLLM, host, apiKey)
	base.info.SupportsJSONMode = true
	return &VLLMProvider{BaseProvider: base}
}

// DetectModels queries the OpenAI-compatible model list
func (p *VLLMProvider) DetectModels(ctx context.Context) ([]string, error) {
	return p.DetectModelsOpenAI(ctx)
}

// LlamaCppProvider implements Provider for llama.cpp servers (llama-server)
type LlamaCppProvider struct {
	*BaseProvider
}

// NewLlamaCppProvider creates a new llama.cpp provider
func NewLlamaCppProvider(host, apiKey string) *LlamaCppProvider {
	base := NewBaseProvider(TypeLlamaCpp, host, apiKey)
	// llama-server accepts response_format but grammar support depends on the build
	base.info.SupportsJSONMode = false
	return &LlamaCppProvider{BaseProvider: base}
}

// DetectModels queries the single model served by llama-server
func (p *LlamaCppProvider) DetectModels(ctx context.Context) ([]string, error) {
	return p.DetectModelsOpenAI(ctx)
}

// OllamaProvider implements Provider for Ollama servers
type OllamaProvider struct {
	*BaseProvider
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(host, apiKey string) *OllamaProvider {
	base := NewBaseProvider(TypeOllama, host, apiKey)
	base.info.SupportsJSONMode = true
	return &OllamaProvider{BaseProvider: base}
}

// DetectModels tries the OpenAI-compatible endpoint first and falls back
// to the native /api/tags listing.
func (p *OllamaProvider) DetectModels(ctx context.Context) ([]string, error) {
	models, err := p.DetectModelsOpenAI(ctx)
	if err == nil && len(models) > 0 {
		return models, nil
	}
	return p.detectModelsNative(ctx)
}

func (p *OllamaProvider) detectModelsNative(ctx context.Context) ([]string, error) {
	var tagsResp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}

	err := p.withRetry(ctx, func() error {
		resp, err := p.get(ctx, "/api/tags")
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return statusError(resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&tagsResp); err != nil {
			return permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	models := make([]string, 0, len(tagsResp.Models))
	for _, m := range tagsResp.Models {
		models = append(models, m.Name)
	}

	p.info.Models = models
	return models, nil
}
