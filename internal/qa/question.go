package qa

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

var tagRe = regexp.MustCompile(`[a-z0-9_]{1,32}`)

const maxTags = 20

// Question is a top-level entry. It owns its answers and comments: deleting
// the question deletes all of them, their votes, and every notification
// about one of its answers.
type Question struct {
	entry
	answers    []*Answer
	comments   []*Comment
	tags       []string
	bestAnswer *Answer
	observers  map[string]*User
	locked     bool
}

func (q *Question) Kind() Kind { return KindQuestion }

// Answer adds a reply by the given user and notifies the question's
// observers. Watchers other than the answer's author each get a
// notification.
func (q *Question) Answer(owner *User, content string) *Answer {
	q.db.mu.Lock()
	if q.deleted {
		q.db.mu.Unlock()
		return nil
	}
	a := &Answer{
		entry:         q.db.newEntry(owner, content),
		question:      q,
		notifications: make(map[int]*Notification),
	}
	a.self = a
	owner.attachLocked(a)
	q.answers = append(q.answers, a)
	q.db.answers[a.id] = a

	events := q.notifyObserversLocked(a)
	sink := q.db.sink
	q.db.mu.Unlock()

	// Fan-out happens outside the lock; the events are plain copies.
	if sink != nil {
		for _, ev := range events {
			sink.NotificationCreated(ev)
		}
	}
	return a
}

// Comment attaches a new comment by the given user to this question.
func (q *Question) Comment(owner *User, content string) *Comment {
	q.db.mu.Lock()
	defer q.db.mu.Unlock()
	if q.deleted {
		return nil
	}
	c := q.db.newCommentLocked(q, owner, content)
	q.comments = append(q.comments, c)
	return c
}

// Answers returns the question's answers in creation order.
func (q *Question) Answers() []*Answer {
	q.db.mu.RLock()
	defer q.db.mu.RUnlock()
	out := make([]*Answer, len(q.answers))
	copy(out, q.answers)
	return out
}

// GetAnswer looks up one of this question's answers by id.
func (q *Question) GetAnswer(id int) *Answer {
	q.db.mu.RLock()
	defer q.db.mu.RUnlock()
	a := q.db.answers[id]
	if a == nil || a.question != q {
		return nil
	}
	return a
}

// Comments returns the question's comments in creation order.
func (q *Question) Comments() []*Comment {
	q.db.mu.RLock()
	defer q.db.mu.RUnlock()
	out := make([]*Comment, len(q.comments))
	copy(out, q.comments)
	return out
}

// HasAnswer reports whether the answer is live and belongs to this question.
func (q *Question) HasAnswer(a *Answer) bool {
	q.db.mu.RLock()
	defer q.db.mu.RUnlock()
	for _, have := range q.answers {
		if have == a {
			return true
		}
	}
	return false
}

// HasComment reports whether the comment is live and attached to this question.
func (q *Question) HasComment(c *Comment) bool {
	q.db.mu.RLock()
	defer q.db.mu.RUnlock()
	for _, have := range q.comments {
		if have == c {
			return true
		}
	}
	return false
}

// SetTagString replaces the question's tags with the ones parsed from the
// given text. Tag names are lowercased word characters, deduplicated, at
// most 32 characters each and at most 20 per question.
func (q *Question) SetTagString(text string) {
	q.db.mu.Lock()
	defer q.db.mu.Unlock()
	if q.deleted {
		return
	}
	matches := tagRe.FindAllString(strings.ToLower(text), -1)
	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, t := range matches {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
		if len(tags) >= maxTags {
			break
		}
	}
	sort.Strings(tags)
	q.tags = tags
}

// Tags returns the question's tags, sorted.
func (q *Question) Tags() []string {
	q.db.mu.RLock()
	defer q.db.mu.RUnlock()
	out := make([]string, len(q.tags))
	copy(out, q.tags)
	return out
}

// HasTag reports whether the question carries the given (lowercase) tag.
func (q *Question) HasTag(tag string) bool {
	q.db.mu.RLock()
	defer q.db.mu.RUnlock()
	for _, t := range q.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SetBestAnswer marks one of this question's answers as the accepted one.
// Returns ErrInvariantViolation if the answer doesn't belong to the
// question; that is a programmer error, not valid input.
func (q *Question) SetBestAnswer(a *Answer) error {
	q.db.mu.Lock()
	defer q.db.mu.Unlock()
	if a != nil && (a.deleted || a.question != q) {
		return ErrInvariantViolation
	}
	q.bestAnswer = a
	return nil
}

// BestAnswer returns the accepted answer, or nil if none is set.
func (q *Question) BestAnswer() *Answer {
	q.db.mu.RLock()
	defer q.db.mu.RUnlock()
	return q.bestAnswer
}

// Lock prevents further answers, comments and votes (enforced by callers
// through IsLocked; the store itself keeps moderation policy out).
func (q *Question) Lock() {
	q.db.mu.Lock()
	defer q.db.mu.Unlock()
	q.locked = true
}

// Unlock reopens a locked question.
func (q *Question) Unlock() {
	q.db.mu.Lock()
	defer q.db.mu.Unlock()
	q.locked = false
}

// IsLocked reports whether the question is locked.
func (q *Question) IsLocked() bool {
	q.db.mu.RLock()
	defer q.db.mu.RUnlock()
	return q.locked
}

// AddObserver subscribes a user to this question's new answers.
func (q *Question) AddObserver(u *User) {
	q.db.mu.Lock()
	defer q.db.mu.Unlock()
	if q.deleted {
		return
	}
	q.observers[voterKey(u)] = u
}

// RemoveObserver unsubscribes a user. No-op if they weren't observing.
func (q *Question) RemoveObserver(u *User) {
	q.db.mu.Lock()
	defer q.db.mu.Unlock()
	delete(q.observers, voterKey(u))
}

// HasObserver reports whether the user is observing this question.
func (q *Question) HasObserver(u *User) bool {
	q.db.mu.RLock()
	defer q.db.mu.RUnlock()
	_, ok := q.observers[voterKey(u)]
	return ok
}

// notifyObserversLocked dispatches the new answer to every observer,
// synchronously and in no particular order. A panicking observer is logged
// and isolated; the remaining observers are still notified.
func (q *Question) notifyObserversLocked(a *Answer) []NotificationEvent {
	var events []NotificationEvent
	for _, obs := range q.observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					q.db.logger.Error("observer notification failed",
						zap.String("observer", obs.name),
						zap.Int("question_id", q.id),
						zap.Any("panic", r))
				}
			}()
			if n := obs.observeLocked(q, a); n != nil {
				events = append(events, n.eventLocked())
			}
		}()
	}
	return events
}

func (q *Question) Unregister() {
	q.db.mu.Lock()
	defer q.db.mu.Unlock()
	q.unregisterLocked()
}

func (q *Question) unregisterLocked() {
	if q.deleted {
		return
	}
	q.deleted = true

	answers := make([]*Answer, len(q.answers))
	copy(answers, q.answers)
	for _, a := range answers {
		a.unregisterLocked()
	}
	comments := make([]*Comment, len(q.comments))
	copy(comments, q.comments)
	for _, c := range comments {
		c.unregisterLocked()
	}
	q.unregisterVotesLocked()

	delete(q.db.questions, q.id)
	q.owner.detachLocked(q)
}

func (q *Question) removeAnswerLocked(a *Answer) {
	for i, have := range q.answers {
		if have == a {
			q.answers = append(q.answers[:i], q.answers[i+1:]...)
			break
		}
	}
	if q.bestAnswer == a {
		q.bestAnswer = nil
	}
}

func (q *Question) removeCommentLocked(c *Comment) {
	for i, have := range q.comments {
		if have == c {
			q.comments = append(q.comments[:i], q.comments[i+1:]...)
			return
		}
	}
}
