package service

import (
	"context"
	"strings"

	"yatube/internal/model"
)

type GroupService struct {
	groupStorage GroupStorage
}

func NewGroupService(groupStorage GroupStorage) *GroupService {
	return &GroupService{groupStorage: groupStorage}
}

func (s *GroupService) CreateGroup(ctx context.Context, req CreateGroupRequest) (model.Group, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	if err := validateStruct(req); err != nil {
		return model.Group{}, err
	}
	return s.groupStorage.CreateGroup(ctx, model.Group{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	})
}

func (s *GroupService) GetGroupBySlug(ctx context.Context, slug string) (model.Group, error) {
	return s.groupStorage.GetGroupBySlug(ctx, slug)
}
