package qa_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerqa/peerqa/internal/qa"
)

func TestSetTagStringParsesNormalizesAndDedupes(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	q := db.Questions().Add(jack, "Anyone?")

	q.SetTagString("Fun, NUMB3RS fun  go_lang")
	assert.Equal(t, []string{"fun", "go_lang", "numb3rs"}, q.Tags())
	assert.True(t, q.HasTag("numb3rs"))
	assert.False(t, q.HasTag("Fun"), "tags are stored lowercased")
}

func TestSetTagStringBounds(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	q := db.Questions().Add(jack, "Anyone?")

	long := strings.Repeat("x", 40)
	q.SetTagString(long)
	for _, tag := range q.Tags() {
		assert.LessOrEqual(t, len(tag), 32)
	}

	var many []string
	for r := 'a'; r <= 'z'; r++ {
		many = append(many, strings.Repeat(string(r), 3))
	}
	q.SetTagString(strings.Join(many, " "))
	assert.Len(t, q.Tags(), 20)
}

func TestSetTagStringReplacesExistingTags(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	q := db.Questions().Add(jack, "Anyone?")

	q.SetTagString("old")
	q.SetTagString("shiny new")
	assert.Equal(t, []string{"new", "shiny"}, q.Tags())
}

func TestSetBestAnswerRejectsForeignAnswer(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	kate := mustRegister(t, db, "Kate")

	q1 := db.Questions().Add(jack, "First?")
	q2 := db.Questions().Add(jack, "Second?")
	foreign := q2.Answer(kate, "Belongs to q2.")

	err := q1.SetBestAnswer(foreign)
	assert.ErrorIs(t, err, qa.ErrInvariantViolation)
	assert.Nil(t, q1.BestAnswer())

	own := q1.Answer(kate, "Belongs to q1.")
	require.NoError(t, q1.SetBestAnswer(own))
	assert.Same(t, own, q1.BestAnswer())
	assert.True(t, own.IsBestAnswer())
	assert.False(t, foreign.IsBestAnswer())
}

func TestLockUnlock(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	q := db.Questions().Add(jack, "Anyone?")

	assert.False(t, q.IsLocked())
	q.Lock()
	assert.True(t, q.IsLocked())
	q.Unlock()
	assert.False(t, q.IsLocked())
}

func TestAnswerKnowsItsQuestion(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	q := db.Questions().Add(jack, "Anyone?")
	a := q.Answer(jack, "Me.")

	assert.Same(t, q, a.Question())

	q.Unregister()
	assert.Nil(t, a.Question(), "deleted answers no longer resolve a question")
}

func TestCommentsKeepCreationOrder(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	q := db.Questions().Add(jack, "Anyone?")

	first := q.Comment(jack, "first")
	second := q.Comment(jack, "second")

	comments := q.Comments()
	require.Len(t, comments, 2)
	assert.Same(t, first, comments[0])
	assert.Same(t, second, comments[1])
}

func TestCommentLikers(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	kate := mustRegister(t, db, "Kate")
	q := db.Questions().Add(jack, "Anyone?")
	c := q.Comment(jack, "self-comment")

	c.AddLiker(kate)
	c.AddLiker(kate)
	assert.Equal(t, 1, c.LikeCount(), "likes are idempotent")
	assert.True(t, c.HasLiker(kate))

	c.RemoveLiker(kate)
	assert.Equal(t, 0, c.LikeCount())
	assert.False(t, c.HasLiker(kate))
}

func TestQuestionViewSnapshot(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	kate := mustRegister(t, db, "Kate")

	q := db.Questions().Add(jack, "Anyone?")
	q.SetTagString("greetings")
	a := q.Answer(kate, "Me.")
	q.Comment(kate, "Good question")
	q.VoteUp(kate)
	require.NoError(t, q.SetBestAnswer(a))

	v := q.View()
	assert.Equal(t, q.ID(), v.ID)
	assert.Equal(t, "Jack", v.Author)
	assert.Equal(t, []string{"greetings"}, v.Tags)
	assert.Equal(t, 1, v.UpVotes)
	require.Len(t, v.Answers, 1)
	assert.True(t, v.Answers[0].Best)
	require.Len(t, v.Comments, 1)
	assert.Equal(t, "Good question", v.Comments[0].Content)
}
