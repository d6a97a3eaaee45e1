package qa

// Answer is a reply to a question. The question reference is lookup-only:
// deleting the question cascades to its answers, so a live answer always has
// a live question.
type Answer struct {
	entry
	question      *Question
	comments      []*Comment
	notifications map[int]*Notification
}

func (a *Answer) Kind() Kind { return KindAnswer }

// Question is the question this answer replies to, or nil once the answer
// has been deleted.
func (a *Answer) Question() *Question {
	a.db.mu.RLock()
	defer a.db.mu.RUnlock()
	if a.deleted {
		return nil
	}
	return a.question
}

// Comment attaches a new comment by the given user to this answer.
func (a *Answer) Comment(owner *User, content string) *Comment {
	a.db.mu.Lock()
	defer a.db.mu.Unlock()
	if a.deleted {
		return nil
	}
	c := a.db.newCommentLocked(a, owner, content)
	a.comments = append(a.comments, c)
	return c
}

// Comments returns the answer's comments in creation order.
func (a *Answer) Comments() []*Comment {
	a.db.mu.RLock()
	defer a.db.mu.RUnlock()
	out := make([]*Comment, len(a.comments))
	copy(out, a.comments)
	return out
}

// HasComment reports whether the comment is live and attached to this answer.
func (a *Answer) HasComment(c *Comment) bool {
	a.db.mu.RLock()
	defer a.db.mu.RUnlock()
	for _, have := range a.comments {
		if have == c {
			return true
		}
	}
	return false
}

// IsBestAnswer reports whether this answer is its question's best answer.
func (a *Answer) IsBestAnswer() bool {
	a.db.mu.RLock()
	defer a.db.mu.RUnlock()
	return !a.deleted && a.question.bestAnswer == a
}

// IsHighRated reports whether the answer's vote balance is at least five.
func (a *Answer) IsHighRated() bool {
	a.db.mu.RLock()
	defer a.db.mu.RUnlock()
	return a.countVotesLocked(true)-a.countVotesLocked(false) >= 5
}

func (a *Answer) Unregister() {
	a.db.mu.Lock()
	defer a.db.mu.Unlock()
	a.unregisterLocked()
}

func (a *Answer) unregisterLocked() {
	if a.deleted {
		return
	}
	a.deleted = true

	comments := make([]*Comment, len(a.comments))
	copy(comments, a.comments)
	for _, c := range comments {
		c.unregisterLocked()
	}
	a.unregisterVotesLocked()

	// Eager notification cleanup: anything announcing this answer goes now,
	// so no notification ever points at a deleted answer.
	notifications := make([]*Notification, 0, len(a.notifications))
	for _, n := range a.notifications {
		notifications = append(notifications, n)
	}
	for _, n := range notifications {
		n.unregisterLocked()
	}

	if !a.question.deleted {
		a.question.removeAnswerLocked(a)
	}
	delete(a.db.answers, a.id)
	a.owner.detachLocked(a)
}

func (a *Answer) removeCommentLocked(c *Comment) {
	for i, have := range a.comments {
		if have == c {
			a.comments = append(a.comments[:i], a.comments[i+1:]...)
			return
		}
	}
}
