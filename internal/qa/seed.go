package qa

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Seed fills a fresh database with a small demo dataset for development
// environments. Not used in production.
func Seed(db *Database) error {
	users := db.Users()

	type account struct {
		name, password string
	}
	created := make(map[string]*User)
	for _, acc := range []account{
		{"Jack", "jack"},
		{"John", "john"},
		{"Bill", "bill"},
		{"Kate", "kate"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		u, err := users.Register(acc.name, string(hash), fmt.Sprintf("%s@example.com", acc.password))
		if err != nil {
			return fmt.Errorf("register %s: %w", acc.name, err)
		}
		created[acc.name] = u
	}

	jack := created["Jack"]
	jack.SetModerator(true)
	jack.SetProfile(Profile{
		Email:      "jack@example.com",
		FullName:   "Jack Daniel",
		Website:    "http://www.example.org/#jackd",
		Profession: "Brewer",
		Biography:  "Oh well, ...",
	})

	questions := db.Questions()

	q := questions.Add(jack, "Why did the chicken cross the road?")
	q.Answer(created["Bill"], "To get to the other side.")

	q = questions.Add(created["John"], "What is the answer to life the universe and everything?")
	q.Answer(created["Kate"], "42")
	q.Answer(created["Kate"], "1337")
	q.Comment(jack, "What a strange question")
	q.SetTagString("numb3rs")

	return nil
}
