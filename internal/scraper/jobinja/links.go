package jobinja

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"go-jobinja-notifier/internal/dedup"
	"go-jobinja-notifier/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

const DefaultMaxPages = 50

// Collector walks the paginated search results and gathers company links.
type Collector struct {
	fetcher  scraper.Fetcher
	maxPages int
}

func NewCollector(fetcher scraper.Fetcher, maxPages int) *Collector {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Collector{
		fetcher:  fetcher,
		maxPages: maxPages,
	}
}

// Collect fetches page 1, 2, ... until the board shows its "no results"
// marker. A failing page ends pagination: the links gathered so far are
// returned together with the error. Hitting the page cap returns
// scraper.ErrPageLimit alongside the links.
func (c *Collector) Collect(ctx context.Context, searchURL string) ([]string, error) {
	base, err := url.Parse(searchURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid search url %q", scraper.ErrFetch, searchURL)
	}

	links := dedup.NewLinkSet()
	for page := 1; page <= c.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return links.Items(), err
		}

		target := pageURL(base, page)
		doc, err := c.fetcher.Fetch(ctx, target)
		if err != nil {
			log.Printf("⚠️ Search page %d failed, keeping %d links: %v", page, links.Len(), err)
			return links.Items(), fmt.Errorf("search page %d: %w", page, err)
		}

		if doc.Find(noResultSelector).Length() > 0 {
			log.Printf("🏁 No more results on page %d. Stopping pagination.", page)
			return links.Items(), nil
		}

		pageBase, _ := url.Parse(target)
		added := 0
		doc.Find(resultListSelector).Find("li").Each(func(_ int, item *goquery.Selection) {
			href, ok := item.Find(resultLinkSelector).Attr("href")
			if !ok {
				return
			}
			if links.Add(NormalizeLink(resolve(pageBase, href))) {
				added++
			}
		})
		log.Printf("  📄 Page %d: %d new links (%d total)", page, added, links.Len())
	}

	log.Printf("⚠️ Stopped after %d pages without a no-results marker", c.maxPages)
	return links.Items(), fmt.Errorf("%w: %d pages", scraper.ErrPageLimit, c.maxPages)
}
