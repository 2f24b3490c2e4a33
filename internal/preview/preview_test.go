package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFirstURL(t *testing.T) {
	assert.Equal(t, "https://example.com/page", ExtractFirstURL("check https://example.com/page out"))
	assert.Equal(t, "http://a.io", ExtractFirstURL("http://a.io and https://b.io"))
	assert.Equal(t, "", ExtractFirstURL("no links here"))
	assert.Equal(t, "https://x.io/y", ExtractFirstURL("(see https://x.io/y)"))
}

func TestFetchReadsOpenGraphTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head>
			<title>plain title</title>
			<meta property="og:title" content="OG Title"/>
			<meta property="og:image" content="https://cdn.example.com/pic.png"/>
		</head><body>ignored</body></html>`))
	}))
	defer srv.Close()

	p, err := NewHTTPFetcher(2*time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, p.URL)
	assert.Equal(t, "OG Title", p.Title)
	assert.Equal(t, "https://cdn.example.com/pic.png", p.Image)
}

func TestFetchFallsBackToDocumentTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Just A Title</title></head><body></body></html>`))
	}))
	defer srv.Close()

	p, err := NewHTTPFetcher(2*time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Just A Title", p.Title)
	assert.Empty(t, p.Image)
}

func TestFetchNonHTMLYieldsURLOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	p, err := NewHTTPFetcher(2*time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, p.URL)
	assert.Empty(t, p.Title)
}

func TestFetchErrorStatusYieldsURLOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, err := NewHTTPFetcher(2*time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, p.URL)
	assert.Empty(t, p.Title)
}
