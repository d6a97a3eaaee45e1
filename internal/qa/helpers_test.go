package qa_test

import (
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/peerqa/peerqa/internal/qa"
)

// fakeClock is a settable time source so timestamp-dependent behavior
// (recency, spam counters, notification age) is deterministic.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestDB(t *testing.T) (*qa.Database, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC)}
	db := qa.NewDatabase(zaptest.NewLogger(t))
	db.SetClock(clock)
	return db, clock
}

func mustRegister(t *testing.T, db *qa.Database, name string) *qa.User {
	t.Helper()
	u, err := db.Users().Register(name, "bcrypt-hash", name+"@example.com")
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u
}
