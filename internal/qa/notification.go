package qa

import "time"

// Notification tells a user that a question they watch got a new answer.
// It is owned by the notified user and removed eagerly when the answer it
// is about goes away.
type Notification struct {
	item
	about *Answer
	isNew bool
}

func (n *Notification) Kind() Kind { return KindNotification }

// About is the answer this notification announces.
func (n *Notification) About() *Answer {
	n.db.mu.RLock()
	defer n.db.mu.RUnlock()
	return n.about
}

// IsNew reports whether the notification is still unread.
func (n *Notification) IsNew() bool {
	n.db.mu.RLock()
	defer n.db.mu.RUnlock()
	return n.isNew
}

// MarkRead acknowledges the notification without deleting it.
func (n *Notification) MarkRead() {
	n.db.mu.Lock()
	defer n.db.mu.Unlock()
	n.isNew = false
}

// IsVeryRecent reports whether the notification is at most five minutes old.
func (n *Notification) IsVeryRecent() bool {
	n.db.mu.RLock()
	defer n.db.mu.RUnlock()
	return n.db.clock.Now().Sub(n.created) <= 5*time.Minute
}

func (n *Notification) Unregister() {
	n.db.mu.Lock()
	defer n.db.mu.Unlock()
	n.unregisterLocked()
}

func (n *Notification) unregisterLocked() {
	if n.deleted {
		return
	}
	n.deleted = true
	if !n.about.deleted {
		delete(n.about.notifications, n.id)
	}
	n.owner.detachLocked(n)
}

// NotificationEvent is a lock-free copy of a freshly created notification,
// handed to the configured sink for fan-out (e.g. a websocket hub).
type NotificationEvent struct {
	NotificationID int       `json:"notification_id"`
	Recipient      string    `json:"recipient"`
	QuestionID     int       `json:"question_id"`
	AnswerID       int       `json:"answer_id"`
	AnswerAuthor   string    `json:"answer_author"`
	CreatedAt      time.Time `json:"created_at"`
}

// NotificationSink receives an event for every notification the store
// creates. Called outside the store's lock and must not block for long.
type NotificationSink interface {
	NotificationCreated(ev NotificationEvent)
}

func (n *Notification) eventLocked() NotificationEvent {
	return NotificationEvent{
		NotificationID: n.id,
		Recipient:      n.owner.name,
		QuestionID:     n.about.question.id,
		AnswerID:       n.about.id,
		AnswerAuthor:   n.about.owner.name,
		CreatedAt:      n.created,
	}
}
