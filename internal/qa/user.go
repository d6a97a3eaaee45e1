package qa

import (
	"sort"
	"time"
)

// User owns items. The items set is the single source of truth for
// ownership: every question, answer, comment, vote and notification a user
// owns lives here, and deleting the user cascades through all of them.
type User struct {
	db *Database

	name         string
	passwordHash string
	moderator    bool

	email       string
	fullName    string
	website     string
	profession  string
	employer    string
	biography   string
	dateOfBirth time.Time

	items map[Item]struct{}
}

// Name is the user's unique (case-insensitively) name.
func (u *User) Name() string { return u.name }

// PasswordHash is the stored bcrypt hash, for credential checks at the
// edge. The store never sees a plaintext password.
func (u *User) PasswordHash() string { return u.passwordHash }

// IsModerator reports whether the user has moderator privileges.
func (u *User) IsModerator() bool {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	return u.moderator
}

// SetModerator grants or revokes moderator privileges.
func (u *User) SetModerator(m bool) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.moderator = m
}

// HasItem reports whether the user owns the given item.
func (u *User) HasItem(it Item) bool {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	_, ok := u.items[it]
	return ok
}

// ItemCount is the number of items the user currently owns.
func (u *User) ItemCount() int {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	return len(u.items)
}

// Delete removes the user and everything they own. The owned-item set is
// snapshotted before iterating: the cascade mutates it (a vote's deletion
// detaches it from this very set) and must not corrupt iteration.
func (u *User) Delete() {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.deleteLocked()
}

func (u *User) deleteLocked() {
	snapshot := make([]Item, 0, len(u.items))
	for it := range u.items {
		snapshot = append(snapshot, it)
	}
	for _, it := range snapshot {
		it.unregisterLocked()
	}
	clear(u.items)
	delete(u.db.users, voterKey(u))
}

// Anonymize redirects the user's questions — and optionally answers and
// comments — to the sentinel anonymous user, keeping the content in place.
func (u *User) Anonymize(doAnswers, doComments bool) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	snapshot := make([]Item, 0, len(u.items))
	for it := range u.items {
		snapshot = append(snapshot, it)
	}
	for _, it := range snapshot {
		switch it.Kind() {
		case KindQuestion:
		case KindAnswer:
			if !doAnswers {
				continue
			}
		case KindComment:
			if !doComments {
				continue
			}
		default:
			continue
		}
		it.(Entry).base().anonymizeLocked()
	}
}

// observeLocked implements the user's side of the observer contract: a new
// answer on a watched question produces a notification, unless the user
// answered their own question.
func (u *User) observeLocked(q *Question, a *Answer) *Notification {
	if a.owner == u {
		return nil
	}
	n := &Notification{
		item:  u.db.newItem(u),
		about: a,
		isNew: true,
	}
	u.attachLocked(n)
	a.notifications[n.id] = n
	return n
}

// StartObserving subscribes the user to a question's new answers.
func (u *User) StartObserving(q *Question) { q.AddObserver(u) }

// StopObserving unsubscribes the user from a question.
func (u *User) StopObserving(q *Question) { q.RemoveObserver(u) }

// IsObserving reports whether the user watches the question.
func (u *User) IsObserving(q *Question) bool { return q.HasObserver(u) }

// Notifications returns the user's notifications, most recent first.
func (u *User) Notifications() []*Notification {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	return u.notificationsLocked()
}

// NewNotifications returns the unread notifications, most recent first.
func (u *User) NewNotifications() []*Notification {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	var out []*Notification
	for _, n := range u.notificationsLocked() {
		if n.isNew {
			out = append(out, n)
		}
	}
	return out
}

// VeryRecentNewNotification returns an unread notification at most five
// minutes old, or nil if there is none.
func (u *User) VeryRecentNewNotification() *Notification {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	now := u.db.clock.Now()
	for _, n := range u.notificationsLocked() {
		if n.isNew && now.Sub(n.created) <= 5*time.Minute {
			return n
		}
	}
	return nil
}

// Notification looks up one of the user's notifications by id.
func (u *User) Notification(id int) *Notification {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	for _, n := range u.notificationsLocked() {
		if n.id == id {
			return n
		}
	}
	return nil
}

func (u *User) notificationsLocked() []*Notification {
	var out []*Notification
	for it := range u.items {
		if n, ok := it.(*Notification); ok {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].created.Equal(out[j].created) {
			return out[i].created.After(out[j].created)
		}
		return out[i].id > out[j].id
	})
	return out
}

// Questions returns all questions the user owns, newest first.
func (u *User) Questions() []*Question {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	var out []*Question
	for it := range u.items {
		if q, ok := it.(*Question); ok {
			out = append(out, q)
		}
	}
	sortNewestFirst(out)
	return out
}

// Answers returns all answers the user owns, newest first.
func (u *User) Answers() []*Answer {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	return u.answersLocked()
}

func (u *User) answersLocked() []*Answer {
	var out []*Answer
	for it := range u.items {
		if a, ok := it.(*Answer); ok {
			out = append(out, a)
		}
	}
	sortNewestFirst(out)
	return out
}

// Comments returns all comments the user owns, newest first.
func (u *User) Comments() []*Comment {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	var out []*Comment
	for it := range u.items {
		if c, ok := it.(*Comment); ok {
			out = append(out, c)
		}
	}
	sortNewestFirst(out)
	return out
}

// RecentQuestions returns the user's last three questions.
func (u *User) RecentQuestions() []*Question { return head(u.Questions(), 3) }

// RecentAnswers returns the user's last three answers.
func (u *User) RecentAnswers() []*Answer { return head(u.Answers(), 3) }

// RecentComments returns the user's last three comments.
func (u *User) RecentComments() []*Comment { return head(u.Comments(), 3) }

// BestAnswers returns the user's answers that were accepted as best.
func (u *User) BestAnswers() []*Answer {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	var out []*Answer
	for _, a := range u.answersLocked() {
		if a.question.bestAnswer == a {
			out = append(out, a)
		}
	}
	return out
}

// HighRatedAnswers returns the user's answers with a vote balance of at
// least five.
func (u *User) HighRatedAnswers() []*Answer {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	var out []*Answer
	for _, a := range u.answersLocked() {
		if a.countVotesLocked(true)-a.countVotesLocked(false) >= 5 {
			out = append(out, a)
		}
	}
	return out
}

// ItemsPerHour counts the questions, answers, comments and votes the user
// produced in the last hour.
func (u *User) ItemsPerHour() int {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	return u.itemsPerHourLocked()
}

func (u *User) itemsPerHourLocked() int {
	now := u.db.clock.Now()
	n := 0
	for it := range u.items {
		if now.Sub(it.Timestamp()) <= time.Hour {
			n++
		}
	}
	return n
}

// IsSpammer reports whether the user produced sixty or more items in the
// last hour.
func (u *User) IsSpammer() bool {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	return u.itemsPerHourLocked() >= 60
}

// IsMaybeCheater reports whether more than half of the user's up-votes go
// to a single author, with more than three such votes.
func (u *User) IsMaybeCheater() bool {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	perAuthor := make(map[*User]int)
	total := 0
	for it := range u.items {
		v, ok := it.(*Vote)
		if !ok || !v.up {
			continue
		}
		perAuthor[v.target.base().owner]++
		total++
	}
	for _, count := range perAuthor {
		if count > 3 && count*2 > total {
			return true
		}
	}
	return false
}

// IsCheating reports whether the user trips either abuse heuristic. Callers
// use it to withhold posting rights.
func (u *User) IsCheating() bool {
	return u.IsSpammer() || u.IsMaybeCheater()
}

// Age is the user's age in years, or zero when no birth date is set.
func (u *User) Age() int {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	if u.dateOfBirth.IsZero() {
		return 0
	}
	return int(u.db.clock.Now().Sub(u.dateOfBirth).Hours() / 24 / 365)
}

// Profile is the user's editable profile data.
type Profile struct {
	Email       string
	FullName    string
	Website     string
	Profession  string
	Employer    string
	Biography   string
	DateOfBirth time.Time
}

// Profile returns a copy of the user's profile.
func (u *User) Profile() Profile {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	return Profile{
		Email:       u.email,
		FullName:    u.fullName,
		Website:     u.website,
		Profession:  u.profession,
		Employer:    u.employer,
		Biography:   u.biography,
		DateOfBirth: u.dateOfBirth,
	}
}

// SetProfile replaces the user's profile.
func (u *User) SetProfile(p Profile) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.email = p.Email
	u.fullName = p.FullName
	u.website = p.Website
	u.profession = p.Profession
	u.employer = p.Employer
	u.biography = p.Biography
	u.dateOfBirth = p.DateOfBirth
}

func sortNewestFirst[T Item](items []T) {
	sort.Slice(items, func(i, j int) bool {
		ti, tj := items[i].Timestamp(), items[j].Timestamp()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return items[i].ID() > items[j].ID()
	})
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
