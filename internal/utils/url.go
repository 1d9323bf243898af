package utils

import (
	"fmt"
	"net/url"
)

// ParseFeedURL accepts absolute http(s) URLs only.
func ParseFeedURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return nil, fmt.Errorf("unsupported URL scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("URL %q has no host", raw)
	}
	return parsed, nil
}
