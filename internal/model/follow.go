package model

import "time"

// Follow is a directed edge: UserID wants to see AuthorID's posts.
type Follow struct {
	ID        int64
	UserID    int64
	AuthorID  int64
	CreatedAt time.Time
}
