package model

import "time"

type Comment struct {
	ID        int64
	PostID    int64
	AuthorID  int64
	Author    User
	Text      string
	CreatedAt time.Time
}
