package inmemory

import (
	"context"
	"sync"

	"yatube/internal/model"
	"yatube/internal/service"
)

type GroupStorage struct {
	mu     sync.RWMutex
	groups []model.Group
	bySlug map[string]int64
}

func NewGroupStorage() *GroupStorage {
	return &GroupStorage{
		groups: []model.Group{{}},
		bySlug: make(map[string]int64),
	}
}

func (s *GroupStorage) CreateGroup(_ context.Context, in model.Group) (model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bySlug[in.Slug]; ok {
		return model.Group{}, service.ErrAlreadyExists
	}
	in.ID = int64(len(s.groups))
	s.groups = append(s.groups, in)
	s.bySlug[in.Slug] = in.ID
	return in, nil
}

func (s *GroupStorage) GetGroupBySlug(_ context.Context, slug string) (model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySlug[slug]
	if !ok {
		return model.Group{}, service.ErrNotFound
	}
	return s.groups[id], nil
}

func (s *GroupStorage) GetGroupByID(_ context.Context, groupID int64) (model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if groupID <= 0 || int(groupID) >= len(s.groups) {
		return model.Group{}, service.ErrNotFound
	}
	return s.groups[groupID], nil
}
