package service

import (
	"context"
	"fmt"
	"slices"

	"yatube/pkg/logger"
)

// FollowService maintains the directed user -> author follow graph.
//
// Follow checks for an existing edge and inserts in two separate steps with
// no lock or unique constraint, so two concurrent follows of the same author
// can leave duplicate edges. Readers de-duplicate.
type FollowService struct {
	follows FollowStorage
	onFollow func()
}

type FollowOption func(*FollowService)

// WithFollowHook registers fn to be called after every new edge.
func WithFollowHook(fn func()) FollowOption {
	return func(s *FollowService) {
		s.onFollow = fn
	}
}

func NewFollowService(follows FollowStorage, opts ...FollowOption) *FollowService {
	s := &FollowService{follows: follows}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Follow creates the edge unless userID == authorID or it already exists.
// The returned flag reports whether an edge was written.
func (s *FollowService) Follow(ctx context.Context, userID, authorID int64) (bool, error) {
	if userID <= 0 {
		return false, ErrUnauthenticated
	}
	if authorID <= 0 {
		return false, fmt.Errorf("authorID must be > 0: %w", ErrInvalidRequest)
	}
	if userID == authorID {
		return false, nil
	}

	exists, err := s.follows.FollowExists(ctx, userID, authorID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if _, err := s.follows.CreateFollow(ctx, userID, authorID); err != nil {
		return false, err
	}
	if s.onFollow != nil {
		s.onFollow()
	}

	logger.FromContext(ctx).Info("follow created", "user_id", userID, "author_id", authorID)
	return true, nil
}

// Unfollow removes every edge from userID to authorID. Missing edges are not an error.
func (s *FollowService) Unfollow(ctx context.Context, userID, authorID int64) error {
	if userID <= 0 {
		return ErrUnauthenticated
	}
	n, err := s.follows.DeleteFollows(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.FromContext(ctx).Info("follow removed", "user_id", userID, "author_id", authorID, "edges", n)
	}
	return nil
}

// IsFollowing is false for anonymous viewers (userID <= 0).
func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	if userID <= 0 {
		return false, nil
	}
	return s.follows.FollowExists(ctx, userID, authorID)
}

// FollowedAuthors returns the sorted set of authors userID follows.
func (s *FollowService) FollowedAuthors(ctx context.Context, userID int64) ([]int64, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	ids, err := s.follows.GetFollowedAuthorIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}
