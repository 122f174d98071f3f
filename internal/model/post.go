package model

import "time"

const postTitleLength = 15

type Post struct {
	ID        int64
	Text      string
	CreatedAt time.Time
	AuthorID  int64
	Author    User
	GroupID   *int64
	Image     string
}

// Title is the short form of the post used in listings and logs.
func (p Post) Title() string {
	r := []rune(p.Text)
	if len(r) > postTitleLength {
		r = r[:postTitleLength]
	}
	return string(r)
}
