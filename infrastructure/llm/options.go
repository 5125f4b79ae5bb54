package llm

import (
	"fmt"
	"net/url"
)

// requestOptions is the standardized set of per-request parameters the
// provider understands.
type requestOptions struct {
	// Temperature controls sampling randomness. Nil means provider default.
	Temperature *float64

	// MaxTokens caps the reply length. Zero means provider default.
	MaxTokens int
}

// parseRequestOptions extracts known parameters from an options map,
// ignoring values of the wrong type.
func parseRequestOptions(opts map[string]any) requestOptions {
	var options requestOptions

	if raw, ok := opts["temperature"]; ok {
		if val, ok := raw.(float64); ok && val >= 0.0 && val <= 2.0 {
			options.Temperature = &val
		}
	}

	if raw, ok := opts["max_tokens"]; ok {
		if val, ok := raw.(int); ok && val > 0 {
			options.MaxTokens = val
		}
	}

	return options
}

// clampFloat64 bounds val to [min, max].
func clampFloat64(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// validateBaseURL checks that the endpoint override is an absolute
// http(s) URL.
func validateBaseURL(baseURL string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("base URL scheme must be http or https, got: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("base URL must include a host")
	}
	return baseURL, nil
}
