package httpfetch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPFetcher_Fetch_Success(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "font/woff2")
		w.Write([]byte("wOF2"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(0, "fl-test")
	res, err := f.Fetch(context.Background(), srv.URL+"/assets/font.woff2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if string(body) != "wOF2" {
		t.Errorf("expected body 'wOF2', got %q", body)
	}
	if res.ContentType != "font/woff2" {
		t.Errorf("expected content type font/woff2, got %q", res.ContentType)
	}
	if gotUA != "fl-test" {
		t.Errorf("expected User-Agent 'fl-test', got %q", gotUA)
	}
}

func TestHTTPFetcher_Fetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(0, "")
	res, err := f.Fetch(context.Background(), srv.URL+"/missing.png")
	if err == nil {
		res.Body.Close()
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestHTTPFetcher_Fetch_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := NewHTTPFetcher(0, "")
	if _, err := f.Fetch(context.Background(), url+"/a.png"); err == nil {
		t.Fatal("expected error for closed server")
	}
}

func TestHTTPFetcher_Fetch_InvalidURL(t *testing.T) {
	f := NewHTTPFetcher(0, "")
	if _, err := f.Fetch(context.Background(), "://bad"); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestHTTPFetcher_Fetch_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewHTTPFetcher(0, "")
	if _, err := f.Fetch(ctx, srv.URL+"/a.png"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
