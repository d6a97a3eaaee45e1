package qa

import "time"

// Kind discriminates the closed set of item variants. Cascade and
// anonymization logic switch on it instead of sprinkling type assertions
// through the user and registry code.
type Kind int

const (
	KindQuestion Kind = iota
	KindAnswer
	KindComment
	KindVote
	KindNotification
)

func (k Kind) String() string {
	switch k {
	case KindQuestion:
		return "question"
	case KindAnswer:
		return "answer"
	case KindComment:
		return "comment"
	case KindVote:
		return "vote"
	case KindNotification:
		return "notification"
	default:
		return "unknown"
	}
}

// Item is anything tracked by the store: it has exactly one owning user, a
// creation timestamp and an id unique within its database. The unexported
// method keeps the variant set closed to this package.
//
// Invariant: a live item is always present both in its owner's item set and
// in its database's id index — never in one without the other.
type Item interface {
	// ID is the item's id, assigned at creation and never reused.
	ID() int

	// Owner is the owning user. Ownership is exclusive; anonymization is
	// the only operation that redirects it (to the sentinel anonymous user).
	Owner() *User

	// Timestamp is the creation time. Immutable.
	Timestamp() time.Time

	// Kind reports which variant this item is.
	Kind() Kind

	// Unregister removes the item from its owner's item set and its
	// registry, cascading to every dependent item. Calling it a second
	// time is a no-op: once deleted, an item stays deleted.
	Unregister()

	unregisterLocked()
}

// item carries the state shared by every variant. Concrete types embed it
// and implement the cascade step in their unregisterLocked.
type item struct {
	id      int
	db      *Database
	owner   *User
	created time.Time
	deleted bool
}

func (it *item) ID() int { return it.id }

func (it *item) Timestamp() time.Time { return it.created }

func (it *item) Owner() *User {
	it.db.mu.RLock()
	defer it.db.mu.RUnlock()
	return it.owner
}

// newItem assigns an id, stamps the creation time and registers the item
// with its owner. Caller holds the database write lock.
func (db *Database) newItem(owner *User) item {
	db.nextID++
	return item{
		id:      db.nextID,
		db:      db,
		owner:   owner,
		created: db.clock.Now(),
	}
}

// attach records ownership. Called once per item right after construction,
// with the write lock held.
func (u *User) attachLocked(it Item) {
	u.items[it] = struct{}{}
}

// detachLocked removes a deleted item from its owner's set.
func (u *User) detachLocked(it Item) {
	delete(u.items, it)
}
