// Package app wires config into a runnable pipeline. Both binaries use it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"go-jobinja-notifier/internal/browser"
	"go-jobinja-notifier/internal/config"
	"go-jobinja-notifier/internal/pipeline"
	"go-jobinja-notifier/internal/reporter"
	"go-jobinja-notifier/internal/scraper"
	"go-jobinja-notifier/internal/scraper/jobinja"
	"go-jobinja-notifier/internal/telegram"
)

type Runner struct {
	pipeline *pipeline.Pipeline
	closers  []io.Closer
	// runs never overlap, both the cron handler and the CLI share one runner
	mu sync.Mutex
}

type options struct {
	notifier     pipeline.Notifier
	fetcher      scraper.Fetcher
	pipelineOpts []pipeline.Option
}

type Option func(*options)

// WithNotifier skips the Telegram bot, used by --dry-run
func WithNotifier(n pipeline.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

func WithFetcher(f scraper.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

func WithPipelineOptions(opts ...pipeline.Option) Option {
	return func(o *options) { o.pipelineOpts = append(o.pipelineOpts, opts...) }
}

// Build creates the fetcher, scrapers, formatter and notifier described by cfg.
// Close must be called to release the browser when FETCH_MODE=browser.
func Build(cfg *config.Config, opts ...Option) (*Runner, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	r := &Runner{}

	fetcher := o.fetcher
	if fetcher == nil {
		switch cfg.FetchMode {
		case config.FetchModeBrowser:
			bf, err := browser.NewFetcher(cfg.UserAgent, cfg.FetchTimeout)
			if err != nil {
				return nil, err
			}
			r.closers = append(r.closers, bf)
			fetcher = bf
			log.Println("✅ Browser initialized successfully!")
		default:
			fetcher = scraper.NewHTTPFetcher(cfg.FetchTimeout, scraper.WithUserAgent(cfg.UserAgent))
		}
	}

	notifier := o.notifier
	if notifier == nil {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			r.Close()
			return nil, err
		}
		log.Printf("🤖 Telegram Bot initialized as @%s", bot.Username())
		notifier = bot
	}

	formatter := reporter.NewFormatter(cfg.ChunkSize, reporter.NewDateFormatter(cfg.Calendar, cfg.Location()))

	r.pipeline = pipeline.New(
		pipeline.Settings{
			SearchURL:    cfg.SearchURL,
			Keywords:     cfg.Keywords,
			SendDelay:    cfg.SendDelay,
			StrictScrape: cfg.StrictScrape,
		},
		jobinja.NewCollector(fetcher, cfg.MaxPages),
		jobinja.NewDetailScraper(fetcher, cfg.ThrottleDelay),
		formatter,
		notifier,
		o.pipelineOpts...,
	)
	return r, nil
}

func (r *Runner) Run(ctx context.Context) *pipeline.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipeline.Run(ctx)
}

func (r *Runner) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// PrintNotifier writes messages to w instead of sending them.
type PrintNotifier struct {
	W io.Writer
}

func (p PrintNotifier) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.W, "%s\n%s\n", strings.Repeat("-", 32), text)
	return err
}
