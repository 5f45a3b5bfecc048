package analyzer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxPageSize bounds how much of a fetched page is parsed
const maxPageSize = 5 << 20

// ExtractPage pulls the title, meta description and visible body text out of
// an HTML document. Body whitespace is collapsed to single spaces.
func ExtractPage(r io.Reader) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Page{}, fmt.Errorf("failed to parse html: %w", err)
	}

	page := Page{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	if description, ok := doc.Find("meta[name='description']").First().Attr("content"); ok {
		page.MetaDescription = strings.TrimSpace(description)
	}

	body := doc.Find("body")
	body.Find("script, style, noscript, template").Remove()
	page.Content = strings.Join(strings.Fields(body.Text()), " ")

	return page, nil
}

// FetchPage downloads url and extracts its copy
func (a *Analyzer) FetchPage(ctx context.Context, url string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return Page{}, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}

	page, err := ExtractPage(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return Page{}, err
	}
	page.URL = url
	return page, nil
}
