package inmemory

import (
	"context"
	"sync"
	"time"

	"yatube/internal/model"
)

// FollowStorage keeps edges in insertion order. Like the SQL table it does
// not reject duplicate (user, author) pairs.
type FollowStorage struct {
	mu     sync.RWMutex
	nextID int64
	edges  []model.Follow
}

func NewFollowStorage() *FollowStorage {
	return &FollowStorage{nextID: 1}
}

func (s *FollowStorage) CreateFollow(_ context.Context, userID, authorID int64) (model.Follow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := model.Follow{
		ID:        s.nextID,
		UserID:    userID,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.edges = append(s.edges, f)
	return f, nil
}

func (s *FollowStorage) DeleteFollows(_ context.Context, userID, authorID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.edges[:0]
	var deleted int64
	for _, f := range s.edges {
		if f.UserID == userID && f.AuthorID == authorID {
			deleted++
			continue
		}
		kept = append(kept, f)
	}
	s.edges = kept
	return deleted, nil
}

func (s *FollowStorage) FollowExists(_ context.Context, userID, authorID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.edges {
		if f.UserID == userID && f.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (s *FollowStorage) GetFollowedAuthorIDs(_ context.Context, userID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []int64
	for _, f := range s.edges {
		if f.UserID == userID {
			out = append(out, f.AuthorID)
		}
	}
	return out, nil
}

// Len is the number of stored edges, duplicates included.
func (s *FollowStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}
