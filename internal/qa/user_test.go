package qa_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerqa/peerqa/internal/qa"
)

func TestProfileRoundTrip(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")

	p := qa.Profile{
		Email:       "jack@example.org",
		FullName:    "Jack Daniel",
		Website:     "http://www.example.org/#jackd",
		Profession:  "Brewer",
		Employer:    "Distillery",
		Biography:   "Oh well, ...",
		DateOfBirth: time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	jack.SetProfile(p)
	assert.Equal(t, p, jack.Profile())
}

func TestAgeFromDateOfBirth(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")

	assert.Equal(t, 0, jack.Age(), "no birth date means age zero")

	jack.SetProfile(qa.Profile{DateOfBirth: time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC)})
	// Test clock sits at 2026-03-17.
	assert.Equal(t, 35, jack.Age())
}

func TestSpammerHeuristic(t *testing.T) {
	db, clock := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	q := db.Questions().Add(jack, "Anyone?")

	for i := 0; i < 58; i++ {
		q.Comment(jack, fmt.Sprintf("bump %d", i))
	}
	// 58 comments + 1 question = 59 items this hour.
	require.Equal(t, 59, jack.ItemsPerHour())
	require.False(t, jack.IsSpammer())

	q.Comment(jack, "one too many")
	assert.True(t, jack.IsSpammer())
	assert.True(t, jack.IsCheating())

	clock.advance(2 * time.Hour)
	assert.Equal(t, 0, jack.ItemsPerHour())
	assert.False(t, jack.IsSpammer())
}

func TestCheaterHeuristic(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	kate := mustRegister(t, db, "Kate")

	// Four up-votes, all on jack's entries: more than three, and all of
	// kate's votes favor one author.
	questions := make([]*qa.Question, 4)
	for i := range questions {
		questions[i] = db.Questions().Add(jack, fmt.Sprintf("question %d", i))
	}
	for _, q := range questions[:3] {
		q.VoteUp(kate)
	}
	require.False(t, kate.IsMaybeCheater(), "three votes are still fine")

	questions[3].VoteUp(kate)
	assert.True(t, kate.IsMaybeCheater())
	assert.True(t, kate.IsCheating())

	// Spreading votes across authors clears the flag.
	john := mustRegister(t, db, "John")
	for i := 0; i < 4; i++ {
		db.Questions().Add(john, fmt.Sprintf("john %d", i)).VoteUp(kate)
	}
	assert.False(t, kate.IsMaybeCheater())
}

func TestAnonymizeQuestionKeepsContent(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	q := db.Questions().Add(jack, "Anyone?")
	a := q.Answer(jack, "Me.")

	jack.Anonymize(false, false)

	assert.Same(t, db.Anonymous(), q.Owner())
	assert.Equal(t, "Anyone?", q.Content())
	assert.False(t, jack.HasItem(q))
	assert.True(t, db.Anonymous().HasItem(q))
	assert.NotNil(t, db.Questions().Get(q.ID()), "anonymized question stays registered")

	// Answers were excluded from this anonymization run.
	assert.Same(t, jack, a.Owner())
}

func TestAnonymizeAnswersAndComments(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	kate := mustRegister(t, db, "Kate")
	q := db.Questions().Add(jack, "Anyone?")
	a := q.Answer(kate, "Me.")
	c := q.Comment(kate, "Good one")
	v := q.VoteUp(kate)

	kate.Anonymize(true, true)

	assert.Same(t, db.Anonymous(), a.Owner())
	assert.Same(t, db.Anonymous(), c.Owner())
	assert.Same(t, kate, v.Owner(), "votes are never anonymized")
}

// Deleting an anonymized user must not take the anonymized entries along:
// they belong to the anonymous user now.
func TestDeleteAfterAnonymize(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	q := db.Questions().Add(jack, "Anyone?")

	jack.Anonymize(false, false)
	jack.Delete()

	assert.NotNil(t, db.Questions().Get(q.ID()))
	assert.Nil(t, db.Users().Get("Jack"))
}

func TestRecentItemsReturnLastThree(t *testing.T) {
	db, clock := newTestDB(t)
	jack := mustRegister(t, db, "Jack")

	questions := make([]*qa.Question, 5)
	for i := range questions {
		questions[i] = db.Questions().Add(jack, fmt.Sprintf("question %d", i))
		clock.advance(time.Minute)
	}

	recent := jack.RecentQuestions()
	require.Len(t, recent, 3)
	assert.Same(t, questions[4], recent[0])
	assert.Same(t, questions[3], recent[1])
	assert.Same(t, questions[2], recent[2])

	assert.Len(t, jack.Questions(), 5)
}

func TestBestAnswersListing(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	kate := mustRegister(t, db, "Kate")

	q1 := db.Questions().Add(jack, "First?")
	q2 := db.Questions().Add(jack, "Second?")
	a1 := q1.Answer(kate, "Yes.")
	a2 := q2.Answer(kate, "No.")

	require.NoError(t, q1.SetBestAnswer(a1))

	best := kate.BestAnswers()
	assert.Contains(t, best, a1)
	assert.NotContains(t, best, a2)
}
