package analyzer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

const samplePage = `<!doctype html>
<html>
<head>
  <title>  Best SEO Tips for 2025 </title>
  <meta name="description" content="Learn the SEO basics.">
  <style>body { color: red; }</style>
</head>
<body>
  <h1>SEO   basics</h1>
  <script>var tracking = "ignored";</script>
  <p>Write for
     people first.</p>
</body>
</html>`

func TestExtractPage(t *testing.T) {
	page, err := ExtractPage(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("ExtractPage() error = %v", err)
	}

	if page.Title != "Best SEO Tips for 2025" {
		t.Errorf("Title = %q", page.Title)
	}
	if page.MetaDescription != "Learn the SEO basics." {
		t.Errorf("MetaDescription = %q", page.MetaDescription)
	}
	if page.Content != "SEO basics Write for people first." {
		t.Errorf("Content = %q", page.Content)
	}

	in := page.Input("seo")
	if in.Keyword != "seo" || in.Title != page.Title {
		t.Errorf("Input() = %+v", in)
	}
}

func TestExtractPageWithoutTags(t *testing.T) {
	page, err := ExtractPage(strings.NewReader("plain text only"))
	if err != nil {
		t.Fatalf("ExtractPage() error = %v", err)
	}
	if page.Title != "" || page.MetaDescription != "" {
		t.Errorf("expected empty title and meta, got %+v", page)
	}
	if page.Content != "plain text only" {
		t.Errorf("Content = %q", page.Content)
	}
}

func TestFetchPage(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	a := New(nil, nil, 0)
	a.AllowPrivateNetworks()
	defer a.Shutdown()

	page, err := a.FetchPage(context.Background(), server.URL+"/post")
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	if page.URL != server.URL+"/post" || page.Title != "Best SEO Tips for 2025" {
		t.Errorf("FetchPage() = %+v", page)
	}
	if gotAgent != userAgent {
		t.Errorf("User-Agent = %q, want %q", gotAgent, userAgent)
	}

	if _, err := a.FetchPage(context.Background(), server.URL+"/missing"); err == nil {
		t.Error("expected an error for a 404 page")
	}
}

func TestFetchPageRejectsInternalAddresses(t *testing.T) {
	var hit atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit.Store(true)
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	a := New(nil, nil, 0)
	defer a.Shutdown()

	_, err := a.FetchPage(context.Background(), server.URL)
	if !errors.Is(err, ErrBlockedAddress) {
		t.Fatalf("FetchPage() on loopback error = %v, want ErrBlockedAddress", err)
	}
	if hit.Load() {
		t.Error("request should be refused before connecting")
	}
}

func TestCheckPublicAddress(t *testing.T) {
	tests := []struct {
		address string
		allowed bool
	}{
		{"93.184.216.34:443", true},
		{"[2606:2800:220:1:248:1893:25c8:1946]:80", true},
		{"127.0.0.1:80", false},
		{"[::1]:80", false},
		{"10.1.2.3:80", false},
		{"172.16.0.1:80", false},
		{"192.168.1.1:8080", false},
		{"169.254.169.254:80", false},
		{"[fe80::1]:80", false},
		{"[fd00::1]:80", false},
		{"0.0.0.0:80", false},
		{"224.0.0.1:80", false},
		{"example.com:80", false},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			err := checkPublicAddress(tt.address)
			if tt.allowed && err != nil {
				t.Errorf("checkPublicAddress() error = %v", err)
			}
			if !tt.allowed && !errors.Is(err, ErrBlockedAddress) {
				t.Errorf("checkPublicAddress() error = %v, want ErrBlockedAddress", err)
			}
		})
	}
}
