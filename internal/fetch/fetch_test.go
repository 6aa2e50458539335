package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type memoryCache struct {
	pages map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{pages: map[string]string{}}
}

func (m *memoryCache) GetCachedPage(url string, ttl time.Duration) (string, bool, error) {
	body, ok := m.pages[url]
	return body, ok, nil
}

func (m *memoryCache) CachePage(url, body string) error {
	m.pages[url] = body
	return nil
}

func TestGetBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Expected custom user agent, got %q", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte("hello"))
	}))
	defer server.Close()

	client := NewClient(Options{UserAgent: "test-agent"})
	body, err := client.GetBody(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetBody failed: %v", err)
	}
	if body != "hello" {
		t.Errorf("Expected body 'hello', got %q", body)
	}
}

func TestGetBody_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(Options{})
	if _, err := client.GetBody(context.Background(), server.URL); err == nil {
		t.Error("Expected error for non-200 status")
	}
}

func TestGetBody_CacheHitSkipsNetwork(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		_, _ = w.Write([]byte("fresh"))
	}))
	defer server.Close()

	cache := newMemoryCache()
	client := NewClient(Options{Cache: cache, CacheTTL: time.Hour})

	if _, err := client.GetBody(context.Background(), server.URL); err != nil {
		t.Fatalf("first GetBody failed: %v", err)
	}
	if _, err := client.GetBody(context.Background(), server.URL); err != nil {
		t.Fatalf("second GetBody failed: %v", err)
	}

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Errorf("Expected 1 network call with warm cache, got %d", got)
	}
}

func TestGetDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h1 class="title">Wicked</h1></body></html>`))
	}))
	defer server.Close()

	client := NewClient(Options{})
	doc, err := client.GetDocument(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if got := doc.Find("h1.title").Text(); got != "Wicked" {
		t.Errorf("Expected parsed title 'Wicked', got %q", got)
	}
}

func TestGetBody_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := client.GetBody(ctx, server.URL); err == nil {
		t.Error("Expected error when context deadline is exceeded")
	}
}
