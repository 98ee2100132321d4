// Package enrich fills missing article metadata from the article's own
// page via its OpenGraph tags. It only ever adds fields the caller left
// empty; supplied metadata is never overwritten.
package enrich

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/newsclip-dev/newsclip/internal/domain"
	"github.com/newsclip-dev/newsclip/internal/logger"
	"github.com/newsclip-dev/newsclip/internal/utils"
)

// maxBodyBytes caps how much of an article page gets parsed.
const maxBodyBytes = 1 << 20

// Fetcher fetches OpenGraph metadata for article URLs.
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    logger.Logger
}

// NewFetcher creates an OpenGraph fetcher with the given per-request
// timeout and User-Agent.
func NewFetcher(timeout time.Duration, userAgent string, log logger.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		logger:    log,
	}
}

// Fill completes empty metadata fields on the article from its page.
// A fetch or parse failure leaves the article as it was; enrichment is
// best effort and never blocks a bookmark from being written.
func (f *Fetcher) Fill(article *domain.Article) {
	if article.Title != "" && article.Description != "" && article.CoverImage != "" {
		return
	}

	meta, err := f.fetch(article.Link)
	if err != nil {
		f.logger.Debug("opengraph fetch failed",
			logger.String("url", article.Link),
			logger.Error(err))
		return
	}

	if article.Title == "" {
		article.Title = meta.title
	}
	if article.Description == "" {
		article.Description = meta.description
	}
	if article.CoverImage == "" {
		article.CoverImage = meta.image
	}
	if article.Thumbnail == "" {
		article.Thumbnail = meta.image
	}
	if article.Source == "" {
		article.Source = meta.siteName
	}
}

type pageMeta struct {
	title       string
	description string
	image       string
	siteName    string
}

func (f *Fetcher) fetch(rawURL string) (*pageMeta, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http error: %d %s", resp.StatusCode, resp.Status)
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("not an html page: %s", contentType)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	meta := &pageMeta{
		title:       ogContent(doc, "og:title"),
		description: ogContent(doc, "og:description"),
		image:       ogContent(doc, "og:image"),
		siteName:    ogContent(doc, "og:site_name"),
	}
	if meta.title == "" {
		meta.title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return meta, nil
}

func ogContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().Attr("content")
	return strings.TrimSpace(content)
}
