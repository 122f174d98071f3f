package service

import (
	"context"
	"errors"
	"fmt"

	"yatube/internal/model"
	"yatube/pkg/logger"
)

type PostService struct {
	postStorage  PostStorage
	groupStorage GroupStorage
	trManager    TxManager
}

func NewPostService(postStorage PostStorage, groupStorage GroupStorage, trManager TxManager) *PostService {
	return &PostService{
		postStorage:  postStorage,
		groupStorage: groupStorage,
		trManager:    trManager,
	}
}

// CreatePost stores a post authored by req.AuthorID. The caller sets
// AuthorID from the authenticated user, never from client input.
func (s *PostService) CreatePost(ctx context.Context, req CreatePostRequest) (model.Post, error) {
	req.Text = normalizeText(req.Text)
	if err := validateStruct(req); err != nil {
		return model.Post{}, err
	}
	if err := s.checkGroup(ctx, req.GroupID); err != nil {
		return model.Post{}, err
	}

	post, err := s.postStorage.CreatePost(ctx, model.Post{
		AuthorID: req.AuthorID,
		Text:     req.Text,
		GroupID:  req.GroupID,
		Image:    req.Image,
	})
	if err != nil {
		return model.Post{}, err
	}

	logger.FromContext(ctx).Info("post created", "post_id", post.ID, "author_id", post.AuthorID)
	return post, nil
}

// EditPost rewrites the post if req.EditorID is its author. Otherwise it
// returns ErrForbidden and leaves the post untouched.
func (s *PostService) EditPost(ctx context.Context, req EditPostRequest) (model.Post, error) {
	if req.PostID <= 0 {
		return model.Post{}, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}

	var out model.Post
	err := s.trManager.Do(ctx, func(ctx context.Context) error {
		post, err := s.postStorage.GetPostByID(ctx, req.PostID)
		if err != nil {
			return err
		}
		if post.AuthorID != req.EditorID {
			return fmt.Errorf("%w: not a post author", ErrForbidden)
		}

		req.Text = normalizeText(req.Text)
		if err := validateStruct(req); err != nil {
			return err
		}
		if err := s.checkGroup(ctx, req.GroupID); err != nil {
			return err
		}

		post.Text = req.Text
		post.GroupID = req.GroupID
		if req.Image != "" {
			post.Image = req.Image
		}

		out, err = s.postStorage.UpdatePost(ctx, post)
		return err
	})
	if err != nil {
		return model.Post{}, err
	}
	return out, nil
}

func (s *PostService) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	if postID <= 0 {
		return model.Post{}, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}
	return s.postStorage.GetPostByID(ctx, postID)
}

func (s *PostService) checkGroup(ctx context.Context, groupID *int64) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groupStorage.GetGroupByID(ctx, *groupID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrInvalidRequest, &FieldError{Field: "GroupID", Message: "unknown group"})
		}
		return err
	}
	return nil
}
