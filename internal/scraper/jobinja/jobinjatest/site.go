// Package jobinjatest serves fake jobinja.ir search and company pages for tests.
package jobinjatest

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

const SearchPath = "/jobs"

type Posting struct {
	Position string
	// Href defaults to a detail path under the company when empty
	Href string
}

type Company struct {
	Slug     string
	Name     string
	Postings []Posting
}

// Site is a fake board. Pages[i] lists the company slugs shown on search
// page i+1. Pages past the end render the "no results" marker unless
// Endless is set, in which case the last page repeats forever.
type Site struct {
	Pages     [][]string
	Companies map[string]Company
	// FailPage answers that search page with a 502
	FailPage int
	Endless  bool

	mu       sync.Mutex
	requests []string
}

func (s *Site) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

// SearchPages returns the page numbers requested so far, in order
func (s *Site) SearchPages() []int {
	var pages []int
	for _, r := range s.Requests() {
		if !strings.HasPrefix(r, SearchPath+"?") {
			continue
		}
		i := strings.Index(r, "page=")
		if i < 0 {
			continue
		}
		raw := r[i+len("page="):]
		if j := strings.IndexByte(raw, '&'); j >= 0 {
			raw = raw[:j]
		}
		n, _ := strconv.Atoi(raw)
		pages = append(pages, n)
	}
	return pages
}

func (s *Site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.RequestURI())
	s.mu.Unlock()

	if r.URL.Path == SearchPath {
		s.serveSearch(w, r)
		return
	}

	// /companies/{slug}/jobs
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 3 && parts[0] == "companies" && parts[2] == "jobs" {
		if c, ok := s.Companies[parts[1]]; ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, CompanyPage(c))
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Site) serveSearch(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		http.Error(w, "bad page", http.StatusBadRequest)
		return
	}
	if page == s.FailPage {
		http.Error(w, "upstream failure", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	idx := page - 1
	if idx >= len(s.Pages) {
		if !s.Endless || len(s.Pages) == 0 {
			fmt.Fprint(w, NoResultPage())
			return
		}
		idx = len(s.Pages) - 1
	}

	hrefs := make([]string, 0, len(s.Pages[idx]))
	for i, slug := range s.Pages[idx] {
		hrefs = append(hrefs, fmt.Sprintf("/companies/%s/jobs/J%d/opening?ref=search&p=%d", slug, i, page))
	}
	fmt.Fprint(w, SearchPage(hrefs))
}

// SearchPage renders one page of search results linking to hrefs
func SearchPage(hrefs []string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="c-jobSearch"><ul class="o-listView__list c-jobListView__list">`)
	for _, href := range hrefs {
		fmt.Fprintf(&b, `<li class="o-listView__item"><div class="o-listView__itemInfo"><a href="%s">listing</a>`+
			`<ul><li><span>meta</span></li></ul></div></li>`, html.EscapeString(href))
	}
	b.WriteString(`</ul></div></body></html>`)
	return b.String()
}

func NoResultPage() string {
	return `<html><body><div class="c-jobSearch__noResult">No results</div></body></html>`
}

// CompanyPage renders a company listing. A sidebar section reuses the list
// classes with an extra posting that must never be extracted.
func CompanyPage(c Company) string {
	var b strings.Builder
	b.WriteString(`<html><body><section><ul class="o-listView__list c-jobListView__list">`)
	for i, p := range c.Postings {
		href := p.Href
		if href == "" {
			href = fmt.Sprintf("/companies/%s/jobs/P%d/%s", c.Slug, i, strings.ReplaceAll(strings.ToLower(p.Position), " ", "-"))
		}
		fmt.Fprintf(&b, `<li class="o-listView__item"><div><div class="o-listView__itemInfo">`+
			`<h2><a href="%s"> %s </a></h2>`+
			`<ul><li><span> %s </span></li><li><span>Tehran</span></li></ul>`+
			`</div></div></li>`, html.EscapeString(href), html.EscapeString(p.Position), html.EscapeString(c.Name))
	}
	b.WriteString(`</ul></section>`)
	b.WriteString(`<section class="c-sidebar"><ul class="o-listView__list c-jobListView__list">` +
		`<li class="o-listView__item"><div><div class="o-listView__itemInfo">` +
		`<h2><a href="/companies/other/jobs/X/sidebar-engineer">Sidebar Engineer</a></h2>` +
		`<ul><li><span>Other Co</span></li></ul></div></div></li></ul></section>`)
	b.WriteString(`</body></html>`)
	return b.String()
}
