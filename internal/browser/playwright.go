package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-jobinja-notifier/internal/scraper"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
)

// Fetcher loads pages in headless Chromium for boards that answer plain
// HTTP clients with a bot check. Pages are opened one at a time.
type Fetcher struct {
	pw         *playwright.Playwright
	browser    playwright.Browser
	browserCtx playwright.BrowserContext
	timeout    time.Duration
}

// NewFetcher starts playwright and a browser context using userAgent.
// Close must be called to stop the browser.
func NewFetcher(userAgent string, timeout time.Duration) (*Fetcher, error) {
	if timeout <= 0 {
		timeout = scraper.DefaultFetchTimeout
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	return &Fetcher{
		pw:         pw,
		browser:    browser,
		browserCtx: browserCtx,
		timeout:    timeout,
	}, nil
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", scraper.ErrFetch, url, err)
	}

	timeout := f.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	page, err := f.browserCtx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("%w: new page: %w", scraper.ErrFetch, err)
	}
	defer page.Close()

	resp, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: navigate %s: %w", scraper.ErrFetch, url, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: %s: no response", scraper.ErrFetch, url)
	}
	if status := resp.Status(); status < 200 || status > 299 {
		return nil, &scraper.StatusError{URL: url, StatusCode: status}
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("%w: read content of %s: %w", scraper.ErrParse, url, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", scraper.ErrParse, url, err)
	}
	return doc, nil
}

func (f *Fetcher) Close() error {
	if f.browserCtx != nil {
		f.browserCtx.Close()
	}
	if f.browser != nil {
		f.browser.Close()
	}
	if f.pw != nil {
		return f.pw.Stop()
	}
	return nil
}
