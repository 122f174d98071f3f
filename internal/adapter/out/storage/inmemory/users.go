package inmemory

import (
	"context"
	"sync"
	"time"

	"yatube/internal/model"
	"yatube/internal/service"
)

type UserStorage struct {
	mu         sync.RWMutex
	users      []model.User
	byUsername map[string]int64
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		users:      []model.User{{}},
		byUsername: make(map[string]int64),
	}
}

func (s *UserStorage) CreateUser(_ context.Context, in model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[in.Username]; ok {
		return model.User{}, service.ErrAlreadyExists
	}

	in.ID = int64(len(s.users))
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	s.users = append(s.users, in)
	s.byUsername[in.Username] = in.ID
	return in, nil
}

func (s *UserStorage) GetUserByID(_ context.Context, userID int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.get(userID)
	if !ok {
		return model.User{}, service.ErrNotFound
	}
	return u, nil
}

func (s *UserStorage) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return model.User{}, service.ErrNotFound
	}
	return s.users[id], nil
}

// author returns the public part of a user for joins.
func (s *UserStorage) author(userID int64) model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, _ := s.get(userID)
	return model.User{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
}

func (s *UserStorage) get(userID int64) (model.User, bool) {
	if userID <= 0 || int(userID) >= len(s.users) {
		return model.User{}, false
	}
	return s.users[userID], true
}
