package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type Config struct {
	// BaseURL is the resolved API base, absolute or application-relative.
	BaseURL string
	// Origin anchors an application-relative BaseURL, e.g. "http://chat.example.com".
	Origin string
	// HTTPClient defaults to a client without timeout.
	HTTPClient *http.Client
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base URL is required")
	}
	if isRelative(c.BaseURL) {
		if strings.TrimSpace(c.Origin) == "" {
			return fmt.Errorf("relative base URL %q requires an origin", c.BaseURL)
		}
		if u, err := url.Parse(c.Origin); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid origin %q", c.Origin)
		}
	} else if u, err := url.Parse(c.BaseURL); err != nil || u.Host == "" {
		return fmt.Errorf("invalid base URL %q", c.BaseURL)
	}
	return nil
}

// resolvedBase joins a relative base onto the origin and strips the trailing
// slash once.
func (c *Config) resolvedBase() string {
	base := strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")
	if isRelative(base) {
		origin := strings.TrimSuffix(strings.TrimSpace(c.Origin), "/")
		base = origin + "/" + strings.TrimLeft(base, "/")
	}
	return strings.TrimSuffix(base, "/")
}

func isRelative(base string) bool {
	return !strings.Contains(base, "://")
}

// DefaultOrigin is the same-origin anchor for a host.
func DefaultOrigin(hostname string) string {
	return "http://" + hostname
}
