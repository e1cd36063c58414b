package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxSnippetBytes = 512

// ErrTimeout is matched by errors.Is for requests that got no response within
// the configured timeout.
var ErrTimeout = errors.New("request timed out")

// TimeoutError reports a request aborted because no response arrived in time.
type TimeoutError struct {
	Method string
	URL    string
	Err    error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Method, e.URL, ErrTimeout, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// TransportError reports a connection that could not be established or was
// interrupted before a response was read.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a response with a non-2xx status code.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
	Snippet    string
}

func (e *StatusError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("%s %s: http response status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: http response status %d: %s", e.Method, e.URL, e.StatusCode, e.Snippet)
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }

// StatusCodeOf returns the status carried by a StatusError in err's chain, or 0.
func StatusCodeOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// classifyError maps a failed round trip onto TimeoutError or TransportError.
func classifyError(method, url string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Method: method, URL: url, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &TimeoutError{Method: method, URL: url, Err: err}
	}
	return &TransportError{Method: method, URL: url, Err: err}
}

func newStatusError(method, url string, resp Response) *StatusError {
	return &StatusError{
		Method:     method,
		URL:        url,
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
		Snippet:    readBodySnippet(resp.Header().Get(headerContentType), resp.Body()),
	}
}

// readBodySnippet shortens an error body for messages. HTML error pages, as
// served by proxies in front of the backend, are reduced to their title.
func readBodySnippet(contentType string, body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if looksLikeHTML(contentType, body) {
		if title := htmlTitle(body); title != "" {
			return title
		}
	}
	if len(body) > maxSnippetBytes {
		body = body[:maxSnippetBytes]
	}
	return strings.TrimSpace(string(body))
}

func looksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	trimmed := bytes.TrimSpace(body)
	return bytes.HasPrefix(trimmed, []byte("<!")) || bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<html"))
}

func htmlTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
