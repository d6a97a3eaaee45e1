package qa

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/peerqa/peerqa/internal/search"
)

// Database is the aggregate root: the authoritative id-indexed collections
// of users, questions and answers, plus the sentinel anonymous user that
// anonymized entries are handed to.
//
// All mutations are serialized behind one RWMutex per instance. Reads take
// the read lock and see a consistent snapshot; no operation ever observes a
// half-finished cascade.
type Database struct {
	mu     sync.RWMutex
	logger *zap.Logger
	clock  Clock
	sink   NotificationSink

	nextID    int
	users     map[string]*User // keyed by lowercased name
	questions map[int]*Question
	answers   map[int]*Answer
	anonymous *User
}

// NewDatabase creates an empty database. A nil logger is replaced with a
// no-op one.
func NewDatabase(logger *zap.Logger) *Database {
	if logger == nil {
		logger = zap.NewNop()
	}
	db := &Database{
		logger:    logger,
		clock:     systemClock{},
		users:     make(map[string]*User),
		questions: make(map[int]*Question),
		answers:   make(map[int]*Answer),
	}
	// The anonymous user is a sentinel, not a registered account: it owns
	// anonymized entries but never appears in the user registry.
	db.anonymous = &User{
		db:    db,
		name:  "anonymous",
		items: make(map[Item]struct{}),
	}
	return db
}

// SetClock replaces the time source. Meant for tests; not safe to call
// concurrently with other operations.
func (db *Database) SetClock(c Clock) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.clock = c
}

// SetNotificationSink installs a sink that receives an event for every
// created notification. Wired once at startup, before serving requests.
func (db *Database) SetNotificationSink(s NotificationSink) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.sink = s
}

// Anonymous is the sentinel user owning anonymized entries.
func (db *Database) Anonymous() *User { return db.anonymous }

// Users returns the user registry view of this database.
func (db *Database) Users() *UserRegistry { return &UserRegistry{db: db} }

// Questions returns the question registry view of this database.
func (db *Database) Questions() *QuestionRegistry { return &QuestionRegistry{db: db} }

// ---------------------------------------------------------------
// Process-wide active database.
//
// Consumers resolve the store through Active() on every use and never hold
// on to the result across requests, so an atomic swap is all it takes to
// replace the whole dataset — for hermetic tests, or to substitute another
// backing implementation without touching consuming code.
// ---------------------------------------------------------------

var active atomic.Pointer[Database]

// Activate installs the initial active database. Panics if one is already
// installed; later replacement goes through SwapWith.
func Activate(db *Database) {
	if !active.CompareAndSwap(nil, db) {
		panic("qa: active database already installed")
	}
}

// Active returns the currently active database.
func Active() *Database {
	return active.Load()
}

// SwapWith atomically replaces the active database and returns the previous
// one, so a caller can restore it later. Used by test harnesses and
// tooling, never by request-handling code.
func SwapWith(db *Database) *Database {
	return active.Swap(db)
}

// ---------------------------------------------------------------
// User registry
// ---------------------------------------------------------------

// UserRegistry is the factory and container for users. User names are
// unique case-insensitively, so "SoMeThinG" and "SoMetHinG" can't coexist.
type UserRegistry struct {
	db *Database
}

// Register creates a user with the given name and (already hashed)
// password. Returns ErrDuplicateName if the name is taken.
func (r *UserRegistry) Register(name, passwordHash, email string) (*User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := strings.ToLower(name)
	if _, exists := r.db.users[key]; exists {
		return nil, ErrDuplicateName
	}
	u := &User{
		db:           r.db,
		name:         name,
		passwordHash: passwordHash,
		email:        email,
		items:        make(map[Item]struct{}),
	}
	r.db.users[key] = u
	return u, nil
}

// Get returns the user with the given name (case-insensitive), or nil.
func (r *UserRegistry) Get(name string) *User {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.db.users[strings.ToLower(name)]
}

// IsAvailable reports whether no user holds the given name.
func (r *UserRegistry) IsAvailable(name string) bool {
	return r.Get(name) == nil
}

// All returns every registered user, sorted by name.
func (r *UserRegistry) All() []*User {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*User, 0, len(r.db.users))
	for _, u := range r.db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// AllModerators returns the moderating subset of All. A filtered view, not
// a separate store.
func (r *UserRegistry) AllModerators() []*User {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*User
	for _, u := range r.db.users {
		if u.moderator {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Count is the number of registered users.
func (r *UserRegistry) Count() int {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.users)
}

// Clear deletes every user and cascades through everything they own.
// With keepAdmins, moderators survive so someone can still get back in.
func (r *UserRegistry) Clear(keepAdmins bool) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	snapshot := make([]*User, 0, len(r.db.users))
	for _, u := range r.db.users {
		snapshot = append(snapshot, u)
	}
	for _, u := range snapshot {
		if keepAdmins && u.moderator {
			continue
		}
		u.deleteLocked()
	}
}

// ---------------------------------------------------------------
// Question registry
// ---------------------------------------------------------------

// QuestionRegistry is the factory and container for questions; answers are
// reachable through it by id as well.
type QuestionRegistry struct {
	db *Database
}

// Add creates a new question owned by the given user.
func (r *QuestionRegistry) Add(owner *User, content string) *Question {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := &Question{
		entry:     r.db.newEntry(owner, content),
		observers: make(map[string]*User),
	}
	q.self = q
	owner.attachLocked(q)
	r.db.questions[q.id] = q
	return q
}

// Get returns the question with the given id, or nil.
func (r *QuestionRegistry) Get(id int) *Question {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.db.questions[id]
}

// GetAnswer returns the answer with the given id, or nil.
func (r *QuestionRegistry) GetAnswer(id int) *Answer {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.db.answers[id]
}

// All returns every question, newest first.
func (r *QuestionRegistry) All() []*Question {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*Question, 0, len(r.db.questions))
	for _, q := range r.db.questions {
		out = append(out, q)
	}
	sortNewestFirst(out)
	return out
}

// Count is the number of live questions.
func (r *QuestionRegistry) Count() int {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.questions)
}

// Search ranks every question against the query and requested tags,
// excluding non-positive ratings, best match first. Ties break on newer
// question id, keeping the order deterministic.
func (r *QuestionRegistry) Search(query string, tags []string) []*Question {
	filter := search.NewFilter(query, tags)

	type ranked struct {
		q      *Question
		rating float64
	}

	r.db.mu.RLock()
	results := make([]ranked, 0, len(r.db.questions))
	for _, q := range r.db.questions {
		rating := filter.Rate(q.content, q.tags)
		if rating > 0 {
			results = append(results, ranked{q: q, rating: rating})
		}
	}
	r.db.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].rating != results[j].rating {
			return results[i].rating > results[j].rating
		}
		return results[i].q.id > results[j].q.id
	})
	out := make([]*Question, len(results))
	for i, res := range results {
		out[i] = res.q
	}
	return out
}
