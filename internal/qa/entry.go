package qa

import "strings"

// Entry is an item carrying user-written text that can be voted on:
// questions, answers and comments.
type Entry interface {
	Item

	// Content is the entry's text. Retained across anonymization.
	Content() string

	UpVotes() int
	DownVotes() int

	// VoteUp casts an up-vote by the given user. A prior vote by the same
	// user on this entry is replaced, never duplicated.
	VoteUp(voter *User) *Vote

	// VoteDown casts a down-vote, with the same replacement semantics.
	VoteDown(voter *User) *Vote

	// VoteCancel withdraws the user's vote on this entry, if any.
	VoteCancel(voter *User)

	// Anonymize redirects ownership to the sentinel anonymous user while
	// keeping the content in place.
	Anonymize()

	base() *entry
}

// entry is the shared implementation. The self pointer refers back to the
// embedding concrete type so that votes can record their real target.
type entry struct {
	item
	self    Entry
	content string
	votes   map[string]*Vote // keyed by lowercased voter name
}

func (db *Database) newEntry(owner *User, content string) entry {
	return entry{
		item:    db.newItem(owner),
		content: content,
		votes:   make(map[string]*Vote),
	}
}

func (e *entry) base() *entry { return e }

func (e *entry) Content() string {
	e.db.mu.RLock()
	defer e.db.mu.RUnlock()
	return e.content
}

func (e *entry) UpVotes() int {
	e.db.mu.RLock()
	defer e.db.mu.RUnlock()
	return e.countVotesLocked(true)
}

func (e *entry) DownVotes() int {
	e.db.mu.RLock()
	defer e.db.mu.RUnlock()
	return e.countVotesLocked(false)
}

func (e *entry) countVotesLocked(up bool) int {
	n := 0
	for _, v := range e.votes {
		if v.up == up {
			n++
		}
	}
	return n
}

func (e *entry) VoteUp(voter *User) *Vote {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	return e.castVoteLocked(voter, true)
}

func (e *entry) VoteDown(voter *User) *Vote {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	return e.castVoteLocked(voter, false)
}

func (e *entry) VoteCancel(voter *User) {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	if prior, ok := e.votes[voterKey(voter)]; ok {
		prior.unregisterLocked()
	}
}

// castVoteLocked enforces the one-live-vote-per-(voter,target) invariant:
// a prior vote is unregistered before the new one is recorded.
func (e *entry) castVoteLocked(voter *User, up bool) *Vote {
	if e.deleted {
		return nil
	}
	if prior, ok := e.votes[voterKey(voter)]; ok {
		prior.unregisterLocked()
	}
	v := &Vote{
		item:   e.db.newItem(voter),
		target: e.self,
		up:     up,
	}
	e.votes[voterKey(voter)] = v
	voter.attachLocked(v)
	return v
}

func (e *entry) Anonymize() {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	e.anonymizeLocked()
}

func (e *entry) anonymizeLocked() {
	if e.deleted || e.owner == e.db.anonymous {
		return
	}
	e.owner.detachLocked(e.self)
	e.owner = e.db.anonymous
	e.db.anonymous.attachLocked(e.self)
}

// unregisterVotesLocked cascades deletion to every vote on this entry.
// Snapshot first: Vote.unregisterLocked mutates e.votes.
func (e *entry) unregisterVotesLocked() {
	votes := make([]*Vote, 0, len(e.votes))
	for _, v := range e.votes {
		votes = append(votes, v)
	}
	for _, v := range votes {
		v.unregisterLocked()
	}
}

func voterKey(u *User) string { return strings.ToLower(u.name) }
