package httpclient

import (
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the local development origin. The backend mounts its
	// routes at /healthy-diet/... without an /api prefix, so this origin must
	// be a proxy that strips DefaultBasePath before forwarding.
	DefaultBaseURL  = "http://localhost:8000"
	DefaultBasePath = "/api"
	DefaultTimeout  = 3000000 * time.Millisecond

	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// Config is the shared request configuration. It is built once at startup and
// handed to NewClient by value; the client never mutates it.
//
// Requests go to BaseURL + BasePath + route. BaseURL is expected to be a
// reverse proxy that strips BasePath; to talk to the backend directly set
// BasePath to "/".
type Config struct {
	BaseURL  string
	BasePath string
	Timeout  time.Duration
	Headers  map[string]string
}

// DefaultConfig returns the stock configuration: /api base path, 3,000,000 ms
// timeout and a JSON content type header.
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		BasePath: DefaultBasePath,
		Timeout:  DefaultTimeout,
		Headers:  map[string]string{headerContentType: contentTypeJSON},
	}
}

// normalize fills zero fields with defaults and pins the JSON content type.
// A BasePath of "/" addresses the host root.
func (c Config) normalize() Config {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BasePath = strings.TrimSpace(c.BasePath)
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}

	headers := make(map[string]string, len(c.Headers)+1)
	for k, v := range c.Headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		headers[key] = val
	}
	headers[headerContentType] = contentTypeJSON
	c.Headers = headers
	return c
}

// BaseURLWithPath joins the host and the base path, e.g. http://host + /api.
func (c Config) BaseURLWithPath() string {
	base := strings.TrimRight(c.BaseURL, "/")
	path := strings.Trim(c.BasePath, "/")
	if path == "" {
		return base
	}
	return base + "/" + path
}
