package imagefetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func hostOf(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	return u.Hostname()
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	f := New(Policy{AllowedHosts: []string{hostOf(t, srv)}, MaxBytes: 1024})
	img, err := f.Fetch(context.Background(), srv.URL+"/logo.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(img.Data) != "png-bytes" {
		t.Errorf("expected body, got %q", img.Data)
	}
	if img.ContentType != "image/png" {
		t.Errorf("expected image/png, got %q", img.ContentType)
	}
}

func TestFetch_EmptyAllowlistRejectsEverything(t *testing.T) {
	f := New(Policy{MaxBytes: 1024})
	_, err := f.Fetch(context.Background(), "https://example.com/logo.png")
	if !errors.Is(err, ErrHostNotAllowed) {
		t.Fatalf("expected ErrHostNotAllowed, got %v", err)
	}
}

func TestFetch_DisallowedHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should never be reached")
	}))
	defer srv.Close()

	f := New(Policy{AllowedHosts: []string{"images.example.com"}, MaxBytes: 1024})
	_, err := f.Fetch(context.Background(), srv.URL+"/logo.png")
	if !errors.Is(err, ErrHostNotAllowed) {
		t.Fatalf("expected ErrHostNotAllowed, got %v", err)
	}
}

func TestFetch_HostMatchIsCaseInsensitive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := New(Policy{AllowedHosts: []string{" " + hostOf(t, srv) + " "}, MaxBytes: 1024})
	if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetch_RedirectBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://evil.example.com/img.png", http.StatusFound)
	}))
	defer srv.Close()

	f := New(Policy{AllowedHosts: []string{hostOf(t, srv)}, MaxBytes: 1024})
	_, err := f.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrRedirectBlocked) {
		t.Fatalf("expected ErrRedirectBlocked, got %v", err)
	}
}

func TestFetch_ContentLengthRejectedBeforeRead(t *testing.T) {
	var bodyRead bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "2048")
		bodyRead = true
		w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	f := New(Policy{AllowedHosts: []string{hostOf(t, srv)}, MaxBytes: 1024})
	_, err := f.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrSizeLimitExceeded) {
		t.Fatalf("expected ErrSizeLimitExceeded, got %v", err)
	}
	_ = bodyRead // the handler runs; the point is the client never buffers 2KB
}

func TestFetch_StreamingBodyOverCapRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Chunked response: no Content-Length header to check eagerly.
		w.(http.Flusher).Flush()
		w.Write(make([]byte, 4096))
	}))
	defer srv.Close()

	f := New(Policy{AllowedHosts: []string{hostOf(t, srv)}, MaxBytes: 1024})
	_, err := f.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrSizeLimitExceeded) {
		t.Fatalf("expected ErrSizeLimitExceeded, got %v", err)
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	f := New(Policy{AllowedHosts: []string{hostOf(t, srv)}, MaxBytes: 1024, Timeout: 50 * time.Millisecond})
	_, err := f.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrFetchTimeout) {
		t.Fatalf("expected ErrFetchTimeout, got %v", err)
	}
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := New(Policy{AllowedHosts: []string{hostOf(t, srv)}, MaxBytes: 1024})
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error on 404, got nil")
	}
}

func TestFetch_ObserverLabels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	var results []string
	f := New(Policy{
		AllowedHosts: []string{hostOf(t, srv)},
		MaxBytes:     1024,
		Observer:     func(result string) { results = append(results, result) },
	})

	f.Fetch(context.Background(), srv.URL)
	f.Fetch(context.Background(), "https://denied.example.com/x.png")

	if len(results) != 2 || results[0] != "ok" || results[1] != "denied" {
		t.Errorf("expected [ok denied], got %v", results)
	}
}
