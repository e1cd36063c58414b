package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var _ Client = (*RestyClient)(nil)

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client  *resty.Client
	baseURL string
	log     Logger
}

// NewClient creates a RestyClient bound to cfg's base URL, base path, timeout
// and default headers.
func NewClient(cfg Config, log Logger) *RestyClient {
	cfg = cfg.normalize()
	c := newRestyBaseClient(cfg.Timeout)
	c.SetBaseURL(cfg.BaseURLWithPath())
	c.SetHeaders(cfg.Headers)
	return &RestyClient{
		client:  c,
		baseURL: cfg.BaseURLWithPath(),
		log:     ensureLogger(log),
	}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// BaseURL returns the resolved base every relative path is appended to.
func (r *RestyClient) BaseURL() string { return r.baseURL }

// Post JSON-encodes body and sends it to the base URL joined with path. It
// issues exactly one request; non-2xx answers come back as *StatusError.
func (r *RestyClient) Post(ctx context.Context, path string, body any) (Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	req := r.client.R().
		SetContext(ctx).
		SetHeader(headerContentType, contentTypeJSON).
		SetBody(payload)

	return r.execute(req, http.MethodPost, path)
}

// PostAsync issues Post on a separate goroutine and returns immediately.
func (r *RestyClient) PostAsync(ctx context.Context, path string, body any) *Pending {
	return Go(func() (Response, error) {
		return r.Post(ctx, path, body)
	})
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
// Relative URLs are resolved against the base URL.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	return r.execute(req, http.MethodGet, url)
}

func (r *RestyClient) execute(req *resty.Request, method, path string) (Response, error) {
	target := r.resolve(path)
	start := time.Now()

	resp, err := req.Execute(method, path)
	if err != nil {
		err = classifyError(method, target, err)
		r.log.WarnObj("http request failed", "http_error", map[string]any{
			"method":     method,
			"url":        target,
			"elapsed_ms": time.Since(start).Milliseconds(),
			"error":      err.Error(),
		})
		return nil, err
	}

	adapted := &restyResponseAdapter{resp: resp}
	r.log.DebugObj("http request completed", "http_result", map[string]any{
		"method":      method,
		"url":         target,
		"status_code": resp.StatusCode(),
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})
	if !resp.IsSuccess() {
		return nil, newStatusError(method, target, adapted)
	}
	return adapted, nil
}

func (r *RestyClient) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return r.baseURL + "/" + strings.TrimLeft(path, "/")
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }
