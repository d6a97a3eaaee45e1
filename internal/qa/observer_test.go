package qa_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerqa/peerqa/internal/qa"
)

// recordingSink captures notification events the store emits.
type recordingSink struct {
	events []qa.NotificationEvent
}

func (s *recordingSink) NotificationCreated(ev qa.NotificationEvent) {
	s.events = append(s.events, ev)
}

func TestObserverGetsNotifiedOnNewAnswer(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	kate := mustRegister(t, db, "Kate")

	q := db.Questions().Add(jack, "Anyone?")
	kate.StartObserving(q)
	require.True(t, kate.IsObserving(q))

	a := q.Answer(jack, "Me.")

	notifications := kate.Notifications()
	require.Len(t, notifications, 1)
	assert.Same(t, a, notifications[0].About())
	assert.True(t, notifications[0].IsNew())
}

func TestNoNotificationForOwnAnswer(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")

	q := db.Questions().Add(jack, "Anyone?")
	jack.StartObserving(q)
	q.Answer(jack, "Me, myself and I.")

	assert.Empty(t, jack.Notifications())
}

func TestStopObserving(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	kate := mustRegister(t, db, "Kate")

	q := db.Questions().Add(jack, "Anyone?")
	kate.StartObserving(q)
	kate.StopObserving(q)
	assert.False(t, kate.IsObserving(q))

	q.Answer(jack, "Me.")
	assert.Empty(t, kate.Notifications())
}

// Exactly one notification per new answer per observer, regardless of how
// many observers a question has.
func TestEachObserverNotifiedOnce(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	kate := mustRegister(t, db, "Kate")
	bill := mustRegister(t, db, "Bill")

	q := db.Questions().Add(jack, "Anyone?")
	kate.StartObserving(q)
	bill.StartObserving(q)

	q.Answer(jack, "Me.")

	assert.Len(t, kate.Notifications(), 1)
	assert.Len(t, bill.Notifications(), 1)
}

// Notifications are cleaned up eagerly: deleting the answer (directly or
// through its question) removes every notification about it.
func TestNotificationRemovedWithAnswer(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	kate := mustRegister(t, db, "Kate")

	q := db.Questions().Add(jack, "Anyone?")
	kate.StartObserving(q)
	a := q.Answer(jack, "Me.")
	require.Len(t, kate.Notifications(), 1)

	a.Unregister()
	assert.Empty(t, kate.Notifications())
}

func TestNotificationRemovedWithQuestion(t *testing.T) {
	db, _ := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	kate := mustRegister(t, db, "Kate")

	q := db.Questions().Add(jack, "Anyone?")
	kate.StartObserving(q)
	q.Answer(jack, "Me.")
	require.Len(t, kate.Notifications(), 1)

	q.Unregister()
	assert.Empty(t, kate.Notifications())
	assert.Equal(t, 0, kate.ItemCount())
}

func TestNotificationReadStateAndRecency(t *testing.T) {
	db, clock := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	kate := mustRegister(t, db, "Kate")

	q := db.Questions().Add(jack, "Anyone?")
	kate.StartObserving(q)
	q.Answer(jack, "Me.")

	n := kate.Notifications()[0]
	require.True(t, n.IsVeryRecent())
	require.Len(t, kate.NewNotifications(), 1)
	assert.Same(t, n, kate.VeryRecentNewNotification())
	assert.Same(t, n, kate.Notification(n.ID()))

	clock.advance(6 * time.Minute)
	assert.False(t, n.IsVeryRecent())
	assert.Nil(t, kate.VeryRecentNewNotification())

	n.MarkRead()
	assert.False(t, n.IsNew())
	assert.Empty(t, kate.NewNotifications())
	assert.Len(t, kate.Notifications(), 1, "read notifications stay until deleted")
}

func TestNotificationsSortedMostRecentFirst(t *testing.T) {
	db, clock := newTestDB(t)
	jack := mustRegister(t, db, "Jack")
	kate := mustRegister(t, db, "Kate")

	q := db.Questions().Add(jack, "Anyone?")
	kate.StartObserving(q)

	first := q.Answer(jack, "one")
	clock.advance(time.Minute)
	second := q.Answer(jack, "two")

	notifications := kate.Notifications()
	require.Len(t, notifications, 2)
	assert.Same(t, second, notifications[0].About())
	assert.Same(t, first, notifications[1].About())
}

func TestSinkReceivesNotificationEvents(t *testing.T) {
	db, _ := newTestDB(t)
	sink := &recordingSink{}
	db.SetNotificationSink(sink)

	jack := mustRegister(t, db, "Jack")
	kate := mustRegister(t, db, "Kate")

	q := db.Questions().Add(jack, "Anyone?")
	kate.StartObserving(q)
	a := q.Answer(jack, "Me.")

	require.Len(t, sink.events, 1)
	ev := sink.events[0]
	assert.Equal(t, "Kate", ev.Recipient)
	assert.Equal(t, q.ID(), ev.QuestionID)
	assert.Equal(t, a.ID(), ev.AnswerID)
	assert.Equal(t, "Jack", ev.AnswerAuthor)
}
