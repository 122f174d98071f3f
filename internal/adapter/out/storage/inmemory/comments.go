package inmemory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
	"yatube/internal/service"
)

type CommentStorage struct {
	mu sync.RWMutex

	comments []model.Comment
	byPost   map[int64][]int64
	users    *UserStorage
}

func NewCommentStorage(users *UserStorage) *CommentStorage {
	return &CommentStorage{
		comments: []model.Comment{{}},
		byPost:   make(map[int64][]int64),
		users:    users,
	}
}

func (s *CommentStorage) CreateComment(_ context.Context, in model.Comment) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := model.Comment{
		ID:        int64(len(s.comments)),
		PostID:    in.PostID,
		AuthorID:  in.AuthorID,
		Text:      in.Text,
		CreatedAt: time.Now(),
	}

	s.comments = append(s.comments, c)
	s.byPost[c.PostID] = append(s.byPost[c.PostID], c.ID)

	return s.withAuthor(c), nil
}

func (s *CommentStorage) GetCommentsByPost(_ context.Context, postID int64, limit int) ([]model.Comment, error) {
	if limit <= 0 {
		limit = service.DefaultCommentsLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byPost[postID]
	if len(ids) == 0 {
		return nil, nil
	}

	out := make([]model.Comment, 0, min(limit, len(ids)))
	for i := len(ids) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.withAuthor(s.comments[ids[i]]))
	}
	return out, nil
}

func (s *CommentStorage) GetCommentsByPostWithCursor(_ context.Context, p storage.GetCommentsParams) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byPost[p.PostID]
	if len(ids) == 0 {
		return nil, nil
	}

	out := make([]model.Comment, 0, p.Limit)
	switch p.Direction {
	case storage.DirectionAfter:
		for i := len(ids) - 1; i >= 0 && len(out) < p.Limit; i-- {
			if id := ids[i]; id < p.Cursor.ID {
				out = append(out, s.withAuthor(s.comments[id]))
			}
		}
		return out, nil

	case storage.DirectionBefore:
		for i := 0; i < len(ids) && len(out) < p.Limit; i++ {
			if id := ids[i]; id > p.Cursor.ID {
				out = append(out, s.withAuthor(s.comments[id]))
			}
		}
		slices.Reverse(out)
		return out, nil

	default:
		return nil, errors.New("invalid keyset direction")
	}
}

func (s *CommentStorage) withAuthor(c model.Comment) model.Comment {
	if s.users != nil {
		c.Author = s.users.author(c.AuthorID)
	}
	return c
}
