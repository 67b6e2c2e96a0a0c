// Markup contract of the jobinja.ir search and company pages

package jobinja

const (
	// search results
	noResultSelector   = "div.c-jobSearch__noResult"
	resultListSelector = "ul.c-jobListView__list"
	resultLinkSelector = "div.o-listView__itemInfo > a"

	// company job listing. The unclassed section holds the open positions,
	// other sections on the page reuse the same list classes.
	jobItemSelector     = "section:not([class]) ul.o-listView__list.c-jobListView__list li.o-listView__item"
	jobCompanySelector  = "div > div.o-listView__itemInfo > ul > li:nth-child(1) > span"
	jobPositionSelector = "div > div.o-listView__itemInfo > h2 > a"
)

// canonicalSegments is how many "/" separated pieces of a link survive
// normalization: scheme, empty, host and three path segments.
const canonicalSegments = 6
