package jobinja

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go-jobinja-notifier/internal/filter"
	"go-jobinja-notifier/internal/scraper"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const DefaultThrottle = 100 * time.Millisecond

// DetailScraper reads a company listing page and keeps the positions that
// match the keywords.
type DetailScraper struct {
	fetcher scraper.Fetcher
	limiter *rate.Limiter
}

// NewDetailScraper spaces consecutive fetches by at least throttle.
// A non-positive throttle disables spacing.
func NewDetailScraper(fetcher scraper.Fetcher, throttle time.Duration) *DetailScraper {
	limit := rate.Inf
	if throttle > 0 {
		limit = rate.Every(throttle)
	}
	return &DetailScraper{
		fetcher: fetcher,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Extract fetches link and returns the matching postings. The result is
// never nil on success. Keywords must already be normalized.
func (s *DetailScraper) Extract(ctx context.Context, link string, keywords []string) ([]scraper.Job, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("throttle %s: %w", link, err)
	}

	doc, err := s.fetcher.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid link %q: %w", scraper.ErrParse, link, err)
	}
	return ExtractJobs(doc, base, keywords), nil
}

// ExtractJobs selects the postings on a company page and filters them.
func ExtractJobs(doc *goquery.Document, base *url.URL, keywords []string) []scraper.Job {
	jobs := make([]scraper.Job, 0)
	doc.Find(jobItemSelector).Each(func(_ int, item *goquery.Selection) {
		anchor := item.Find(jobPositionSelector)
		position := strings.TrimSpace(anchor.Text())
		if !filter.Matches(position, keywords) {
			return
		}

		href, _ := anchor.Attr("href")
		jobs = append(jobs, scraper.Job{
			Company:  strings.TrimSpace(item.Find(jobCompanySelector).Text()),
			Position: position,
			URL:      resolve(base, href),
		})
	})
	return jobs
}
