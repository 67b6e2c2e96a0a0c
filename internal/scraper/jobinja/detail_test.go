package jobinja

import (
	"context"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go-jobinja-notifier/internal/scraper"
	"go-jobinja-notifier/internal/scraper/jobinja/jobinjatest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDetailSite(t *testing.T) string {
	t.Helper()
	site := &jobinjatest.Site{
		Companies: map[string]jobinjatest.Company{
			"acme": {
				Slug: "acme",
				Name: "Acme",
				Postings: []jobinjatest.Posting{
					{Position: "Senior Engineer"},
					{Position: "Designer"},
					{Position: "Backend ENGINEER (Go)", Href: "https://careers.example/123"},
				},
			},
			"empty": {Slug: "empty", Name: "Empty Co"},
		},
	}
	srv := httptest.NewServer(site)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestDetailScraper_Extract(t *testing.T) {
	base := newDetailSite(t)
	s := NewDetailScraper(scraper.NewHTTPFetcher(time.Second), 0)

	jobs, err := s.Extract(context.Background(), base+"/companies/acme/jobs", []string{"engineer"})
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "Acme", jobs[0].Company)
	assert.Equal(t, "Senior Engineer", jobs[0].Position)
	assert.Equal(t, base+"/companies/acme/jobs/P0/senior-engineer", jobs[0].URL)

	assert.Equal(t, "Backend ENGINEER (Go)", jobs[1].Position)
	assert.Equal(t, "https://careers.example/123", jobs[1].URL)

	for _, j := range jobs {
		assert.NotEqual(t, "Sidebar Engineer", j.Position, "classed sections must be ignored")
	}
}

func TestDetailScraper_NoMatchesIsEmptyNotNil(t *testing.T) {
	base := newDetailSite(t)
	s := NewDetailScraper(scraper.NewHTTPFetcher(time.Second), 0)

	jobs, err := s.Extract(context.Background(), base+"/companies/acme/jobs", []string{"accountant"})
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)

	jobs, err = s.Extract(context.Background(), base+"/companies/empty/jobs", []string{"engineer"})
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestDetailScraper_EmptyKeywords(t *testing.T) {
	base := newDetailSite(t)
	s := NewDetailScraper(scraper.NewHTTPFetcher(time.Second), 0)

	jobs, err := s.Extract(context.Background(), base+"/companies/acme/jobs", nil)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestDetailScraper_FetchFailure(t *testing.T) {
	base := newDetailSite(t)
	s := NewDetailScraper(scraper.NewHTTPFetcher(time.Second), 0)

	jobs, err := s.Extract(context.Background(), base+"/companies/missing/jobs", []string{"engineer"})
	assert.ErrorIs(t, err, scraper.ErrFetch)
	assert.Nil(t, jobs)
}

func TestDetailScraper_Throttle(t *testing.T) {
	base := newDetailSite(t)
	throttle := 50 * time.Millisecond
	s := NewDetailScraper(scraper.NewHTTPFetcher(time.Second), throttle)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := s.Extract(context.Background(), base+"/companies/empty/jobs", []string{"engineer"})
		require.NoError(t, err)
	}
	// first fetch passes immediately, the next two wait one interval each
	assert.GreaterOrEqual(t, time.Since(start), 2*throttle-5*time.Millisecond)
}

func TestDetailScraper_ThrottleHonoursContext(t *testing.T) {
	s := NewDetailScraper(scraper.NewHTTPFetcher(time.Second), time.Hour)
	// consume the burst
	require.True(t, s.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.Extract(ctx, "http://127.0.0.1:1/companies/a/jobs", []string{"x"})
	assert.Error(t, err)
}

func TestExtractJobs_SpecExample(t *testing.T) {
	page := jobinjatest.CompanyPage(jobinjatest.Company{
		Slug: "acme",
		Name: "Acme",
		Postings: []jobinjatest.Posting{
			{Position: "Senior Engineer"},
			{Position: "Designer"},
		},
	})
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	base, _ := url.Parse("https://jobinja.ir/companies/acme/jobs")

	jobs := ExtractJobs(doc, base, []string{"engineer"})
	require.Len(t, jobs, 1)
	assert.Equal(t, scraper.Job{
		Company:  "Acme",
		Position: "Senior Engineer",
		URL:      "https://jobinja.ir/companies/acme/jobs/P0/senior-engineer",
	}, jobs[0])
}
