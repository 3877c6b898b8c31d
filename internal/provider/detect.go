package provider

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
)

// Detect identifies the provider type from host. URL hints are checked
// first; otherwise the server is probed for vendor-specific endpoints.
func Detect(ctx context.Context, host string) Type {
	host = strings.TrimSuffix(host, "/")
	hostLower := strings.ToLower(host)

	switch {
	case strings.Contains(hostLower, "ollama"):
		return TypeOllama
	case strings.Contains(hostLower, "vllm"):
		return TypeVLLM
	case strings.Contains(hostLower, "llama"):
		return TypeLlamaCpp
	}

	// Ollama is the only vendor with /api/tags
	if probeEndpoint(ctx, host, "/api/tags") {
		return TypeOllama
	}
	if probeEndpoint(ctx, host, "/v1/models") {
		return TypeVLLM
	}

	return TypeUnknown
}

// probeEndpoint reports whether path exists on host. Auth failures count
// as present; 404 and 5xx do not.
func probeEndpoint(ctx context.Context, host, path string) bool {
	client := &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 3 * time.Second,
			}).DialContext,
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(host, "/")+path, nil)
	if err != nil {
		return false
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 500 && resp.StatusCode != http.StatusNotFound
}

// ParseVendorConfig parses a vendor string from config into a Type.
// TypeUnknown means the vendor should be auto-detected.
func ParseVendorConfig(vendor string) Type {
	switch strings.ToLower(strings.TrimSpace(vendor)) {
	case "vllm":
		return TypeVLLM
	case "ollama":
		return TypeOllama
	case "llama.cpp", "llamacpp", "llama":
		return TypeLlamaCpp
	default:
		return TypeUnknown
	}
}
