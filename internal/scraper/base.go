// Shared types for every job board scraper
// Fetchers hand back parsed documents, boards decide what to select

package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Job is one posting extracted from a company listing page.
// URL may be empty when the board renders a title without an anchor.
type Job struct {
	Company  string `json:"company_name"`
	Position string `json:"position"`
	URL      string `json:"job_link,omitempty"`
}

var (
	// ErrFetch covers network errors and non-success responses
	ErrFetch = errors.New("fetch failed")
	// ErrParse is returned when a response body cannot be parsed as HTML
	ErrParse = errors.New("parse failed")
	// ErrPageLimit means pagination stopped at the page cap before the board said "no results"
	ErrPageLimit = errors.New("page limit reached")
)

// StatusError is a non-success HTTP status. It matches ErrFetch.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URL, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrFetch
}

// Fetcher loads a page and returns it as a goquery document
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}
