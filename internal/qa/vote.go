package qa

// Vote is a single up- or down-vote on an entry. The target is a lookup
// reference, not ownership: the vote belongs to the voter, and deleting
// either the voter or the target deletes the vote.
type Vote struct {
	item
	target Entry
	up     bool
}

func (v *Vote) Kind() Kind { return KindVote }

// Up reports whether this is an up-vote.
func (v *Vote) Up() bool { return v.up }

// Target is the entry the vote was cast on.
func (v *Vote) Target() Entry { return v.target }

func (v *Vote) Unregister() {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	v.unregisterLocked()
}

func (v *Vote) unregisterLocked() {
	if v.deleted {
		return
	}
	v.deleted = true
	tb := v.target.base()
	if !tb.deleted && tb.votes[voterKey(v.owner)] == v {
		delete(tb.votes, voterKey(v.owner))
	}
	v.owner.detachLocked(v)
}
