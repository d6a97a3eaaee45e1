package qa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fixed corpus from the ranking determinism property: "chicken road"
// must surface the chicken question and exclude the unrelated one.
func TestSearchRankingDeterminism(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")

	chicken := db.Questions().Add(jack, "Why did the chicken cross the road?")
	db.Questions().Add(jack, "What is the answer to life the universe and everything?")

	results := db.Questions().Search("chicken road", nil)
	require.Len(t, results, 1)
	assert.Same(t, chicken, results[0])
}

func TestSearchByTags(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")

	tagged := db.Questions().Add(jack, "Is 1337 prime?")
	tagged.SetTagString("numb3rs math")
	db.Questions().Add(jack, "Untagged question about something")

	results := db.Questions().Search("", []string{"numb3rs"})
	require.Len(t, results, 1)
	assert.Same(t, tagged, results[0])
}

func TestSearchOrdersByRatingDescending(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")

	// Shorter content concentrates the query words, rating higher.
	dense := db.Questions().Add(jack, "chicken road")
	diluted := db.Questions().Add(jack, "chicken road trip plans towards sunny mountain villages")

	results := db.Questions().Search("chicken road", nil)
	require.Len(t, results, 2)
	assert.Same(t, dense, results[0])
	assert.Same(t, diluted, results[1])
}

func TestSearchMatchingTagsCannotRescueMissingWords(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")

	q := db.Questions().Add(jack, "All about gophers")
	q.SetTagString("go")

	results := db.Questions().Search("zebra", []string{"go"})
	assert.Empty(t, results)
}

func TestSearchEmptyQueryReturnsNothing(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	db.Questions().Add(jack, "Anyone?")

	assert.Empty(t, db.Questions().Search("", nil))
}
