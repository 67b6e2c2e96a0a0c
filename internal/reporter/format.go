package reporter

import (
	"fmt"
	"strings"
	"time"

	"go-jobinja-notifier/internal/scraper"
)

const DefaultChunkSize = 12

var (
	// legacy Markdown control characters outside of an entity
	markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")
	// link text cannot be escaped in legacy Markdown, so brackets are swapped
	linkTextReplacer = strings.NewReplacer("[", "(", "]", ")")
	linkURLReplacer  = strings.NewReplacer(")", "%29", " ", "%20")
)

// Formatter groups postings into Telegram sized messages.
type Formatter struct {
	chunkSize int
	dates     DateFormatter
	now       func() time.Time
}

type FormatterOption func(*Formatter)

func WithClock(now func() time.Time) FormatterOption {
	return func(f *Formatter) { f.now = now }
}

func NewFormatter(chunkSize int, dates DateFormatter, opts ...FormatterOption) *Formatter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if dates == nil {
		dates = JalaliDate{}
	}
	f := &Formatter{
		chunkSize: chunkSize,
		dates:     dates,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format renders one message per chunk. Every message repeats the total
// count and the numbering runs across chunk boundaries. No jobs, no messages.
func (f *Formatter) Format(jobs []scraper.Job) []string {
	if len(jobs) == 0 {
		return nil
	}

	header := fmt.Sprintf("%d Position found\n", len(jobs))
	dateLine := fmt.Sprintf("Date: %s\n\n", f.dates.FormatDate(f.now()))

	messages := make([]string, 0, (len(jobs)+f.chunkSize-1)/f.chunkSize)
	counter := 0
	for _, chunk := range Chunk(jobs, f.chunkSize) {
		lines := make([]string, 0, len(chunk))
		for _, job := range chunk {
			counter++
			lines = append(lines, formatJob(counter, job))
		}
		messages = append(messages, header+dateLine+strings.Join(lines, "\n"))
	}
	return messages
}

// Chunk splits jobs into consecutive groups of at most size, keeping order.
func Chunk(jobs []scraper.Job, size int) [][]scraper.Job {
	if size <= 0 {
		size = DefaultChunkSize
	}
	var out [][]scraper.Job
	for i := 0; i < len(jobs); i += size {
		end := min(i+size, len(jobs))
		out = append(out, jobs[i:end])
	}
	return out
}

func formatJob(index int, job scraper.Job) string {
	company := markdownEscaper.Replace(job.Company)
	if job.URL == "" {
		return fmt.Sprintf("%d: Company Name: %s\nPosition: %s\n", index, company, markdownEscaper.Replace(job.Position))
	}
	return fmt.Sprintf("%d: Company Name: %s\nPosition: [%s](%s)\n",
		index, company, linkTextReplacer.Replace(job.Position), linkURLReplacer.Replace(job.URL))
}
