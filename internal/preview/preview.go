// Package preview resolves Open Graph metadata for links embedded in post
// bodies. Everything here is best-effort: a post never fails to save because
// a linked site is slow or hostile.
package preview

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// maxBodyBytes caps how much of a remote page we are willing to read. The
// og tags live in <head>, so half a megabyte is plenty.
const maxBodyBytes = 512 * 1024

var urlPattern = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// ExtractFirstURL returns the first http(s) link found in text, or "" when
// there is none.
func ExtractFirstURL(text string) string {
	return urlPattern.FindString(text)
}

// Preview is the resolved metadata for one link. Title and Image may be
// empty when the page did not expose them.
type Preview struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Image string `json:"image,omitempty"`
}

// Fetcher resolves a URL to its preview metadata.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Preview, error)
}

// HTTPFetcher fetches pages over HTTP and reads their Open Graph tags.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the page and extracts og:title / og:image, falling back
// to the document <title>. Non-HTML responses yield a URL-only preview.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Preview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "driftboard-preview/1.0")
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	p := &Preview{URL: url}
	if resp.StatusCode != http.StatusOK {
		return p, nil
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "text/html") {
		return p, nil
	}

	title, ogTitle, ogImage := scanMeta(io.LimitReader(resp.Body, maxBodyBytes))
	p.Title = ogTitle
	if p.Title == "" {
		p.Title = title
	}
	p.Image = ogImage
	return p, nil
}

// scanMeta walks the token stream instead of building a full document tree.
// It stops at </head> since og tags never appear later.
func scanMeta(r io.Reader) (title, ogTitle, ogImage string) {
	tokenizer := html.NewTokenizer(r)
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "head" {
				return
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tokenizer.TagName()
			switch string(name) {
			case "title":
				if tokenizer.Next() == html.TextToken {
					title = strings.TrimSpace(string(tokenizer.Text()))
				}
			case "meta":
				if !hasAttr {
					continue
				}
				var prop, content string
				for {
					key, val, more := tokenizer.TagAttr()
					switch string(key) {
					case "property", "name":
						prop = string(val)
					case "content":
						content = string(val)
					}
					if !more {
						break
					}
				}
				switch prop {
				case "og:title":
					ogTitle = content
				case "og:image":
					ogImage = content
				}
			}
		}
	}
}
