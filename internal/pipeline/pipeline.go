package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-jobinja-notifier/internal/scraper"
)

const DefaultSendDelay = 10 * time.Second

type LinkCollector interface {
	Collect(ctx context.Context, searchURL string) ([]string, error)
}

type DetailScraper interface {
	Extract(ctx context.Context, link string, keywords []string) ([]scraper.Job, error)
}

type Formatter interface {
	Format(jobs []scraper.Job) []string
}

type Notifier interface {
	Send(ctx context.Context, text string) error
}

type Settings struct {
	SearchURL string
	// Keywords must be normalized, see filter.NormalizeKeywords
	Keywords  []string
	SendDelay time.Duration
	// StrictScrape aborts the run on the first detail page failure,
	// before anything is delivered
	StrictScrape bool
}

// Pipeline runs collect → scrape → format → deliver, one step at a time.
type Pipeline struct {
	settings  Settings
	collector LinkCollector
	details   DetailScraper
	formatter Formatter
	notifier  Notifier

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

type Option func(*Pipeline)

// WithSleep replaces the pause between deliveries
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Pipeline) { p.sleep = sleep }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func New(settings Settings, collector LinkCollector, details DetailScraper, formatter Formatter, notifier Notifier, opts ...Option) *Pipeline {
	p := &Pipeline{
		settings:  settings,
		collector: collector,
		details:   details,
		formatter: formatter,
		notifier:  notifier,
		sleep:     sleepContext,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one full pass. Stage failures are recorded on the report
// and the run moves on; only StrictScrape or a cancelled context stop it
// early.
func (p *Pipeline) Run(ctx context.Context) *Report {
	report := &Report{StartedAt: p.now()}
	defer p.finish(report)

	if len(p.settings.Keywords) == 0 {
		log.Println("⚠️ No keywords configured, nothing will match")
	}

	report.Stage = StageCollectingLinks
	log.Printf("🔍 Collecting links from %s", p.settings.SearchURL)
	links, err := p.collector.Collect(ctx, p.settings.SearchURL)
	if err != nil {
		report.addError(StageCollectingLinks, p.settings.SearchURL, err)
	}
	report.Links = len(links)
	log.Printf("🔗 Collected %d links", len(links))

	report.Stage = StageScrapingDetails
	var jobs []scraper.Job
	for i, link := range links {
		if err := ctx.Err(); err != nil {
			report.addError(StageScrapingDetails, link, err)
			report.Aborted = true
			return report
		}

		found, err := p.details.Extract(ctx, link, p.settings.Keywords)
		if err != nil {
			log.Printf("  ❌ [%d/%d] %s: %v", i+1, len(links), link, err)
			report.addError(StageScrapingDetails, link, err)
			if p.settings.StrictScrape {
				log.Println("🛑 Strict scrape enabled, aborting run without delivery")
				report.Aborted = true
				return report
			}
			continue
		}
		if len(found) > 0 {
			log.Printf("  ✅ [%d/%d] %s: %d matching positions", i+1, len(links), link, len(found))
		}
		jobs = append(jobs, found...)
	}
	report.Jobs = len(jobs)

	report.Stage = StageFormatting
	messages := p.formatter.Format(jobs)
	report.Messages = len(messages)
	if len(messages) == 0 {
		log.Println("ℹ️ No job details found.")
		report.Stage = StageDone
		return report
	}

	report.Stage = StageDelivering
	log.Printf("📨 Sending %d jobs in %d messages", len(jobs), len(messages))
	for i, msg := range messages {
		if i > 0 {
			if err := p.sleep(ctx, p.settings.SendDelay); err != nil {
				report.addError(StageDelivering, messageTarget(i, len(messages)), err)
				report.Aborted = true
				return report
			}
		}
		if err := p.notifier.Send(ctx, msg); err != nil {
			log.Printf("⚠️ Failed to send message %d/%d: %v", i+1, len(messages), err)
			report.addError(StageDelivering, messageTarget(i, len(messages)), err)
			continue
		}
		report.Delivered++
	}

	report.Stage = StageDone
	return report
}

func (p *Pipeline) finish(report *Report) {
	report.FinishedAt = p.now()
	for _, e := range report.Errors {
		log.Printf("⚠️ %v", e)
	}
	status := "🏁"
	if report.Aborted {
		status = "🛑"
	}
	log.Printf("%s Run finished at stage %s in %s: links=%d jobs=%d messages=%d delivered=%d errors=%d",
		status, report.Stage, report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond),
		report.Links, report.Jobs, report.Messages, report.Delivered, len(report.Errors))
}

func messageTarget(i, total int) string {
	return fmt.Sprintf("message %d/%d", i+1, total)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
