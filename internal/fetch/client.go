package fetch

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/sandesh/findocs/internal/types"
)

// Page is the processed result of fetching one candidate URL: readable text
// plus the page's hyperlinks, and the method that produced it.
type Page struct {
	URL          string
	Content      string
	HTML         string
	StatusCode   int
	RenderMethod types.RetrievalMethod
}

// Client fetches report pages, falling back from plain HTTP to a headless
// browser when the static content is too thin to be useful.
type Client struct {
	options        *Options
	useBrowser     bool
	browserTimeout time.Duration
	verbose        bool
}

// ClientConfig configures a fetch client.
type ClientConfig struct {
	Options        *Options
	UseBrowser     bool
	BrowserTimeout time.Duration
	Verbose        bool
}

// NewClient creates a fetch client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Options == nil {
		cfg.Options = DefaultOptions()
	}
	if cfg.BrowserTimeout == 0 {
		cfg.BrowserTimeout = DefaultTimeout
	}
	return &Client{
		options:        cfg.Options,
		useBrowser:     cfg.UseBrowser,
		browserTimeout: cfg.BrowserTimeout,
		verbose:        cfg.Verbose,
	}
}

// Fetch retrieves a candidate URL and returns its processed content. The
// render method on the returned page is "static" for a plain HTTP fetch and
// "dynamic" when the headless browser produced the content.
func (c *Client) Fetch(ctx context.Context, urlStr string) (*Page, error) {
	result, err := URL(ctx, urlStr, c.options)
	if err != nil {
		if !c.useBrowser {
			return nil, err
		}
		// Some bank sites refuse plain clients but render fine in a browser.
		if c.verbose {
			log.Printf("[fetch] static fetch failed for %s, trying browser: %v", urlStr, err)
		}
		html, browserErr := RenderWithBrowser(ctx, urlStr, c.browserTimeout, c.verbose)
		if browserErr != nil {
			return nil, err // report the original fetch failure
		}
		return c.buildPage(urlStr, html, 0, types.MethodDynamic), nil
	}

	page := c.buildPage(urlStr, result.HTML, result.StatusCode, types.MethodStatic)

	if c.useBrowser && ShouldRender(page.Content) {
		if c.verbose {
			log.Printf("[fetch] static content too short for %s (%d chars), rendering", urlStr, len(page.Content))
		}
		html, browserErr := RenderWithBrowser(ctx, urlStr, c.browserTimeout, c.verbose)
		if browserErr == nil {
			rendered := c.buildPage(urlStr, html, result.StatusCode, types.MethodDynamic)
			if len(rendered.Content) > len(page.Content) {
				return rendered, nil
			}
		}
	}

	return page, nil
}

// Probe performs a lightweight reachability check: a plain fetch with no
// browser fallback and no link processing. Used by diagnostics.
func (c *Client) Probe(ctx context.Context, urlStr string) (statusCode int, contentLength int, err error) {
	result, err := URL(ctx, urlStr, c.options)
	if result != nil {
		statusCode = result.StatusCode
		contentLength = len(result.HTML)
	}
	return statusCode, contentLength, err
}

// buildPage assembles the extractor-facing content: readable page text
// followed by the page's links, so PDF hrefs survive text extraction.
func (c *Client) buildPage(urlStr, html string, statusCode int, method types.RetrievalMethod) *Page {
	text, err := ExtractReadableText(html, ReportPageSelectors())
	if err != nil {
		text = ""
	}

	var sb strings.Builder
	sb.WriteString(text)

	links, err := ExtractLinkLines(html, urlStr)
	if err == nil && len(links) > 0 {
		sb.WriteString("\n\nLINKS ON PAGE:\n")
		sb.WriteString(strings.Join(links, "\n"))
	}

	return &Page{
		URL:          urlStr,
		Content:      sb.String(),
		HTML:         html,
		StatusCode:   statusCode,
		RenderMethod: method,
	}
}
