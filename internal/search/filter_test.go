package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/peerqa/peerqa/internal/search"
)

func TestWordsTokenizesLowercasesAndDropsStopWords(t *testing.T) {
	words := search.Words("Why did the chicken cross the road?")

	assert.Contains(t, words, "chicken")
	assert.Contains(t, words, "cross")
	assert.Contains(t, words, "road")
	assert.NotContains(t, words, "the", "stop words are dropped")
	assert.NotContains(t, words, "did")
	assert.NotContains(t, words, "", "splitting artifacts are dropped")
}

func TestRateTextConjunctiveMatch(t *testing.T) {
	f := search.NewFilter("chicken road", nil)

	// Both query words appear: positive rating.
	assert.Greater(t, f.Rate("Why did the chicken cross the road?", nil), 0.0)

	// One required word missing: the sentinel cancels everything.
	assert.LessOrEqual(t, f.Rate("Why did the chicken stay home?", nil), 0.0)
	assert.LessOrEqual(t, f.Rate("Milk is healthy", nil), 0.0)
}

func TestRateTagsProportionalOverlap(t *testing.T) {
	// One shared tag out of one requested, against two question tags:
	// 1² / (1 · 2) = 0.5. No query text, so the text score is zero.
	f := search.NewFilter("", []string{"go"})
	assert.InDelta(t, 0.5, f.Rate("irrelevant", []string{"go", "concurrency"}), 1e-9)

	// Full overlap both ways scores the maximum of one.
	f = search.NewFilter("", []string{"go", "concurrency"})
	assert.InDelta(t, 2.0, f.Rate("irrelevant", []string{"go", "concurrency"})*2, 1e-9)

	// No tags on the question: zero, not an error.
	assert.Equal(t, 0.0, f.Rate("irrelevant", nil))
}

func TestTagNamesNotRequiredInContent(t *testing.T) {
	// "go" is one of the question's own tags, so only "channels" must
	// appear in the content for the text match to hold.
	f := search.NewFilter("go channels", nil)
	rating := f.Rate("buffered channels explained", []string{"go"})
	assert.Greater(t, rating, 0.0)
}

func TestTagMatchAloneCannotRescueMissingText(t *testing.T) {
	// Tags overlap perfectly, but the required query word is nowhere in
	// the content: the text sentinel forces the total non-positive.
	f := search.NewFilter("zebra", []string{"go"})
	assert.LessOrEqual(t, f.Rate("all about gophers", []string{"go"}), 0.0)
}

func TestEmptyQueryMatchesNothing(t *testing.T) {
	f := search.NewFilter("", nil)
	assert.Equal(t, 0.0, f.Rate("Why did the chicken cross the road?", []string{"fun"}))
}

func TestStopWordOnlyQueryRatesZero(t *testing.T) {
	f := search.NewFilter("the of and", nil)
	assert.Equal(t, 0.0, f.Rate("chicken", nil))
}
