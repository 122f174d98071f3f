package storage

import (
	"errors"
	"yatube/pkg/pagination"
)

type Direction int

const (
	DirectionUnspecified Direction = iota
	DirectionAfter
	DirectionBefore
)

var (
	ErrDirectionUnset = errors.New("direction must be set")
)

// PostFilter narrows a post listing. Zero fields do not restrict; an empty
// AuthorIDs does not restrict either, callers short-circuit empty sets.
type PostFilter struct {
	AuthorID  *int64
	GroupID   *int64
	AuthorIDs []int64
}

type ListPostsParams struct {
	Filter PostFilter
	Offset int
	Limit  int
}

type GetCommentsParams struct {
	PostID    int64
	Cursor    pagination.Cursor
	Direction Direction
	Limit     int
}
