package service

import (
	"context"
	"fmt"

	"yatube/internal/model"
	"yatube/pkg/logger"
	"yatube/pkg/pagination"
)

const (
	DefaultCommentsLimit = 50
	MaxCommentsLimit     = 250
)

type CommentService struct {
	commentStorage CommentStorage
	postStorage    PostStorage
	commentBus     CommentBus
}

func NewCommentService(commentStorage CommentStorage, postStorage PostStorage, commentBus CommentBus) *CommentService {
	return &CommentService{
		commentStorage: commentStorage,
		postStorage:    postStorage,
		commentBus:     commentBus,
	}
}

func (s *CommentService) AddComment(ctx context.Context, req CreateCommentRequest) (model.Comment, error) {
	if req.PostID <= 0 {
		return model.Comment{}, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}
	if _, err := s.postStorage.GetPostByID(ctx, req.PostID); err != nil {
		return model.Comment{}, err
	}

	req.Text = normalizeText(req.Text)
	if err := validateStruct(req); err != nil {
		return model.Comment{}, err
	}

	comment, err := s.commentStorage.CreateComment(ctx, model.Comment{
		PostID:   req.PostID,
		AuthorID: req.AuthorID,
		Text:     req.Text,
	})
	if err != nil {
		return model.Comment{}, err
	}

	if s.commentBus != nil {
		if err := s.commentBus.Publish(ctx, req.PostID, comment); err != nil {
			logger.FromContext(ctx).Warn("publish comment", "post_id", req.PostID, "error", err)
		}
	}
	return comment, nil
}

// GetCommentsByPost returns a newest-first window of the post's comments.
func (s *CommentService) GetCommentsByPost(ctx context.Context, in pagination.PageRequest, postID int64) (pagination.CursorPage[model.Comment], error) {
	var (
		items []model.Comment
		err   error
		page  pagination.CursorPage[model.Comment]
	)

	if err := validatePagination(in); err != nil {
		return page, err
	}
	if postID <= 0 {
		return page, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}

	limit := in.Limit
	if limit <= 0 {
		limit = DefaultCommentsLimit
	}
	if limit > MaxCommentsLimit {
		limit = MaxCommentsLimit
	}
	peek := limit + 1

	afterProvided := in.AfterCursor != nil && *in.AfterCursor != ""
	beforeProvided := in.BeforeCursor != nil && *in.BeforeCursor != ""

	switch {
	case !afterProvided && !beforeProvided:
		items, err = s.commentStorage.GetCommentsByPost(ctx, postID, peek)
		if err != nil {
			return page, err
		}

	default:
		params, err := toGetCommentsParams(postID, in)
		if err != nil {
			return page, err
		}
		params.Limit = peek

		items, err = s.commentStorage.GetCommentsByPostWithCursor(ctx, params)
		if err != nil {
			return page, err
		}
	}

	if len(items) == 0 {
		return page, nil
	}

	overflow := len(items) > limit
	switch {
	case beforeProvided:
		// the extra row is the newest one and sits at the head
		if overflow {
			items = items[len(items)-limit:]
		}
		page.HasPreviousPage = overflow
		page.HasNextPage = true
	default:
		if overflow {
			items = items[:limit]
		}
		page.HasNextPage = overflow
		page.HasPreviousPage = afterProvided
	}

	page.Items = items
	page.Count = len(items)

	startCursor := pagination.Cursor{
		CreatedAt: items[0].CreatedAt,
		ID:        items[0].ID,
	}
	endCursor := pagination.Cursor{
		CreatedAt: items[len(items)-1].CreatedAt,
		ID:        items[len(items)-1].ID,
	}

	page.StartCursor, page.EndCursor = startCursor.Encode(), endCursor.Encode()
	return page, nil
}

func (s *CommentService) Listen(ctx context.Context, postID int64) (<-chan model.Comment, error) {
	if s.commentBus == nil {
		return nil, fmt.Errorf("no bus configured")
	}
	if _, err := s.postStorage.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentBus.Subscribe(ctx, postID)
}
