package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestPostUsesBasePathAndJSONHeader(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/echo" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type %q", got)
		}
		if got := r.Header.Get("X-Trace"); got != "abc" {
			t.Errorf("missing default header, got %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	client := NewClient(Config{
		BaseURL:  srv.URL,
		BasePath: "/api",
		Timeout:  2 * time.Second,
		Headers:  map[string]string{"X-Trace": "abc", "Content-Type": "text/plain"},
	}, nil)

	resp, err := client.Post(context.Background(), "/echo", map[string]int{"n": 1})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode())
	}
	var got map[string]int
	if err := json.Unmarshal(resp.Body(), &got); err != nil {
		t.Fatalf("decode echo: %v", err)
	}
	if got["n"] != 1 || len(got) != 1 {
		t.Fatalf("unexpected echo body %v", got)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one request, got %d", calls.Load())
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{}, nil)
	if client.BaseURL() != "http://localhost:8000/api" {
		t.Fatalf("unexpected base url %s", client.BaseURL())
	}
	if client.client.GetClient().Timeout != 3000000*time.Millisecond {
		t.Fatalf("unexpected timeout %v", client.client.GetClient().Timeout)
	}

	root := NewClient(Config{BaseURL: "http://example.com/", BasePath: "/"}, nil)
	if root.BaseURL() != "http://example.com" {
		t.Fatalf("unexpected root base url %s", root.BaseURL())
	}
}

func TestClientInterfaceDirectToBackendRoot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthy-diet/recommend-by-ingredients" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var client Client = NewClient(Config{BaseURL: srv.URL, BasePath: "/", Timeout: 2 * time.Second}, nil)

	resp, err := client.Post(context.Background(), "/healthy-diet/recommend-by-ingredients", map[string][]string{"ingredients": {"egg"}})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode())
	}

	pending := client.PostAsync(context.Background(), "/healthy-diet/recommend-by-ingredients", nil)
	if _, err := pending.Await(context.Background()); err != nil {
		t.Fatalf("Await: %v", err)
	}
}

func TestPostTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)

	start := time.Now()
	_, err := client.Post(context.Background(), "/slow", map[string]string{})
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if !IsTimeout(err) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TimeoutError, got %T", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("timeout took too long: %v", elapsed)
	}
}

func TestPostNon2xxReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"食材推荐失败: boom"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second}, nil)
	resp, err := client.Post(context.Background(), "/x", nil)
	if err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
	if resp != nil {
		t.Fatalf("expected nil response on failure")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if se.StatusCode != http.StatusInternalServerError || StatusCodeOf(err) != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", se.StatusCode)
	}
	if se.Snippet != `{"detail":"食材推荐失败: boom"}` {
		t.Fatalf("unexpected snippet %q", se.Snippet)
	}
	if IsTimeout(err) {
		t.Fatalf("status error must not report a timeout")
	}
}

func TestStatusErrorSnippetFromHTMLPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html><head><title>502 Bad Gateway</title></head><body><h1>502</h1></body></html>`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second}, nil)
	_, err := client.Post(context.Background(), "/x", map[string]any{})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Snippet != "502 Bad Gateway" {
		t.Fatalf("unexpected snippet %q", se.Snippet)
	}
}

func TestPostConnectionRefusedIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(Config{BaseURL: url, Timeout: time.Second}, nil)
	_, err := client.Post(context.Background(), "/x", map[string]any{})
	var tr *TransportError
	if !errors.As(err, &tr) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
	if IsTimeout(err) {
		t.Fatalf("refused connection must not report a timeout")
	}
}

func TestPostEncodeError(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, nil)
	if _, err := client.Post(context.Background(), "/x", make(chan int)); err == nil {
		t.Fatalf("expected encode error")
	}
}

func TestPostAsyncResolves(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, nil)
	pending := client.PostAsync(context.Background(), "/x", map[string]any{})

	select {
	case <-pending.Done():
		t.Fatalf("pending resolved before the server answered")
	default:
	}

	close(release)
	resp, err := pending.Await(context.Background())
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		t.Fatalf("unexpected status %d", resp.StatusCode())
	}
}

func TestPendingAwaitHonorsContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	pending := Go(func() (Response, error) {
		<-block
		return nil, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := pending.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestGetRelativeAndAbsolute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second}, nil)

	resp, err := client.Get(context.Background(), "/ping", nil)
	if err != nil {
		t.Fatalf("Get relative: %v", err)
	}
	if string(resp.Body()) != "/api/ping" {
		t.Fatalf("unexpected path %s", resp.Body())
	}

	resp, err = client.Get(context.Background(), srv.URL+"/health", map[string]string{"Accept": "application/json"})
	if err != nil {
		t.Fatalf("Get absolute: %v", err)
	}
	if string(resp.Body()) != "/health" {
		t.Fatalf("unexpected path %s", resp.Body())
	}
}
