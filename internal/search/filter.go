// Package search scores questions against a free-text and tag query.
// No external search engine: tokenize, intersect, rate.
package search

import (
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`\W+`)

// Filter holds a parsed query. Build one per search request and apply it to
// each candidate with Rate.
type Filter struct {
	queryWords map[string]struct{}
	queryTags  map[string]struct{}
}

// NewFilter tokenizes the query text (lowercased, split on non-word runs,
// stop words removed) and normalizes the requested tags.
func NewFilter(query string, tags []string) *Filter {
	f := &Filter{
		queryWords: Words(query),
		queryTags:  make(map[string]struct{}, len(tags)),
	}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			f.queryTags[t] = struct{}{}
		}
	}
	return f
}

// Rate computes the combined tag+text relevance of a question's content and
// tags against the query. Non-positive ratings mean "no match"; callers
// drop those from the result set. With an empty query everything rates 0,
// so the filter alone shows nothing — bypassing it for empty queries is the
// caller's call.
func (f *Filter) Rate(content string, tags []string) float64 {
	return f.rateTags(tags) + f.rateText(content, tags)
}

// rateTags rewards proportional overlap in both directions: sharing most of
// the query's tags scores high, hoards of unrelated extra tags drag it
// down. Squaring the intersection keeps the score in (0,1].
func (f *Filter) rateTags(tags []string) float64 {
	if len(f.queryTags) == 0 || len(tags) == 0 {
		return 0
	}
	common := 0
	for _, t := range tags {
		if _, ok := f.queryTags[t]; ok {
			common++
		}
	}
	return float64(common*common) / float64(len(f.queryTags)) / float64(len(tags))
}

// rateText requires every query word that isn't one of the question's own
// tag names to appear in the content (AND search). A missing word returns
// -1, cancelling out anything rateTags produced — its range is [0,1].
func (f *Filter) rateText(content string, tags []string) float64 {
	words := Words(content)

	mustHave := make(map[string]struct{}, len(f.queryWords))
	for w := range f.queryWords {
		mustHave[w] = struct{}{}
	}
	for _, t := range tags {
		delete(mustHave, t)
	}
	for w := range mustHave {
		if _, ok := words[w]; !ok {
			return -1
		}
	}

	if len(f.queryWords) == 0 || len(words) == 0 {
		return 0
	}
	common := 0
	for w := range words {
		if _, ok := f.queryWords[w]; ok {
			common++
		}
	}
	return float64(common) / float64(len(words))
}

// Words splits text on non-word-character runs, lowercases the tokens and
// drops empties and stop words.
func Words(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range nonWord.Split(strings.ToLower(text), -1) {
		if w == "" {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}
