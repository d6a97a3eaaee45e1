package qa

import "time"

// Views are plain copies of entity state, taken under a single read lock so
// a response never mixes state from before and after a cascade. The API
// layer serializes these, never the entities themselves.

type CommentView struct {
	ID        int       `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

type AnswerView struct {
	ID        int           `json:"id"`
	Author    string        `json:"author"`
	Content   string        `json:"content"`
	UpVotes   int           `json:"up_votes"`
	DownVotes int           `json:"down_votes"`
	Best      bool          `json:"best"`
	CreatedAt time.Time     `json:"created_at"`
	Comments  []CommentView `json:"comments"`
}

type QuestionView struct {
	ID        int           `json:"id"`
	Author    string        `json:"author"`
	Content   string        `json:"content"`
	Tags      []string      `json:"tags"`
	UpVotes   int           `json:"up_votes"`
	DownVotes int           `json:"down_votes"`
	Locked    bool          `json:"locked"`
	CreatedAt time.Time     `json:"created_at"`
	Answers   []AnswerView  `json:"answers"`
	Comments  []CommentView `json:"comments"`
}

type NotificationView struct {
	ID         int       `json:"id"`
	QuestionID int       `json:"question_id"`
	AnswerID   int       `json:"answer_id"`
	Author     string    `json:"author"`
	New        bool      `json:"new"`
	CreatedAt  time.Time `json:"created_at"`
}

type UserView struct {
	Name        string `json:"name"`
	Moderator   bool   `json:"moderator"`
	Email       string `json:"email,omitempty"`
	FullName    string `json:"full_name,omitempty"`
	Website     string `json:"website,omitempty"`
	Profession  string `json:"profession,omitempty"`
	Employer    string `json:"employer,omitempty"`
	Biography   string `json:"biography,omitempty"`
	Age         int    `json:"age,omitempty"`
	ItemCount   int    `json:"item_count"`
	Unread      int    `json:"unread_notifications"`
}

// View snapshots the question with its answers and comments.
func (q *Question) View() QuestionView {
	q.db.mu.RLock()
	defer q.db.mu.RUnlock()

	v := QuestionView{
		ID:        q.id,
		Author:    q.owner.name,
		Content:   q.content,
		Tags:      append([]string(nil), q.tags...),
		UpVotes:   q.countVotesLocked(true),
		DownVotes: q.countVotesLocked(false),
		Locked:    q.locked,
		CreatedAt: q.created,
		Answers:   make([]AnswerView, 0, len(q.answers)),
		Comments:  make([]CommentView, 0, len(q.comments)),
	}
	for _, a := range q.answers {
		v.Answers = append(v.Answers, a.viewLocked())
	}
	for _, c := range q.comments {
		v.Comments = append(v.Comments, c.viewLocked())
	}
	return v
}

// View snapshots the answer with its comments.
func (a *Answer) View() AnswerView {
	a.db.mu.RLock()
	defer a.db.mu.RUnlock()
	return a.viewLocked()
}

func (a *Answer) viewLocked() AnswerView {
	v := AnswerView{
		ID:        a.id,
		Author:    a.owner.name,
		Content:   a.content,
		UpVotes:   a.countVotesLocked(true),
		DownVotes: a.countVotesLocked(false),
		Best:      a.question.bestAnswer == a,
		CreatedAt: a.created,
		Comments:  make([]CommentView, 0, len(a.comments)),
	}
	for _, c := range a.comments {
		v.Comments = append(v.Comments, c.viewLocked())
	}
	return v
}

func (c *Comment) viewLocked() CommentView {
	return CommentView{
		ID:        c.id,
		Author:    c.owner.name,
		Content:   c.content,
		Likes:     len(c.likers),
		CreatedAt: c.created,
	}
}

// View snapshots the notification.
func (n *Notification) View() NotificationView {
	n.db.mu.RLock()
	defer n.db.mu.RUnlock()
	return NotificationView{
		ID:         n.id,
		QuestionID: n.about.question.id,
		AnswerID:   n.about.id,
		Author:     n.about.owner.name,
		New:        n.isNew,
		CreatedAt:  n.created,
	}
}

// View snapshots the user's public state.
func (u *User) View() UserView {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()

	unread := 0
	for it := range u.items {
		if n, ok := it.(*Notification); ok && n.isNew {
			unread++
		}
	}
	age := 0
	if !u.dateOfBirth.IsZero() {
		age = int(u.db.clock.Now().Sub(u.dateOfBirth).Hours() / 24 / 365)
	}
	return UserView{
		Name:       u.name,
		Moderator:  u.moderator,
		Email:      u.email,
		FullName:   u.fullName,
		Website:    u.website,
		Profession: u.profession,
		Employer:   u.employer,
		Biography:  u.biography,
		Age:        age,
		ItemCount:  len(u.items),
		Unread:     unread,
	}
}
