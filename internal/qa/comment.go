package qa

// Comment is a remark on a question or an answer. The parent reference is
// lookup-only; deleting the parent deletes the comment.
type Comment struct {
	entry
	parent Entry
	likers map[string]*User
}

func (c *Comment) Kind() Kind { return KindComment }

// Parent is the question or answer this comment is attached to.
func (c *Comment) Parent() Entry { return c.parent }

// AddLiker records that a user likes this comment. Idempotent.
func (c *Comment) AddLiker(u *User) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	if c.deleted {
		return
	}
	c.likers[voterKey(u)] = u
}

// RemoveLiker withdraws a user's like. No-op if they never liked it.
func (c *Comment) RemoveLiker(u *User) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	delete(c.likers, voterKey(u))
}

// HasLiker reports whether the user currently likes this comment.
func (c *Comment) HasLiker(u *User) bool {
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()
	_, ok := c.likers[voterKey(u)]
	return ok
}

// LikeCount is the number of users liking this comment.
func (c *Comment) LikeCount() int {
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()
	return len(c.likers)
}

func (c *Comment) Unregister() {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	c.unregisterLocked()
}

func (c *Comment) unregisterLocked() {
	if c.deleted {
		return
	}
	c.deleted = true
	c.unregisterVotesLocked()
	switch p := c.parent.(type) {
	case *Question:
		p.removeCommentLocked(c)
	case *Answer:
		p.removeCommentLocked(c)
	}
	c.owner.detachLocked(c)
}

func (db *Database) newCommentLocked(parent Entry, owner *User, content string) *Comment {
	c := &Comment{
		entry:  db.newEntry(owner, content),
		parent: parent,
		likers: make(map[string]*User),
	}
	c.self = c
	owner.attachLocked(c)
	return c
}
