package inmemory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
	"yatube/internal/service"
)

type PostStorage struct {
	mu    sync.RWMutex
	posts []model.Post
	users *UserStorage
}

func NewPostStorage(users *UserStorage) *PostStorage {
	return &PostStorage{
		posts: []model.Post{{}},
		users: users,
	}
}

func (s *PostStorage) CreatePost(_ context.Context, in model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in.ID = int64(len(s.posts))
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	in.Author = model.User{}
	s.posts = append(s.posts, in)
	return s.withAuthor(in), nil
}

func (s *PostStorage) UpdatePost(_ context.Context, in model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.get(in.ID)
	if !ok {
		return model.Post{}, service.ErrNotFound
	}
	p.Text = in.Text
	p.GroupID = in.GroupID
	p.Image = in.Image
	s.posts[p.ID] = p
	return s.withAuthor(p), nil
}

func (s *PostStorage) GetPostByID(_ context.Context, postID int64) (model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.get(postID)
	if !ok {
		return model.Post{}, service.ErrNotFound
	}
	return s.withAuthor(p), nil
}

func (s *PostStorage) CountPosts(_ context.Context, filter storage.PostFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.posts[1:] {
		if matches(p, filter) {
			n++
		}
	}
	return n, nil
}

// ListPosts returns matching posts newest first, with the author joined.
func (s *PostStorage) ListPosts(_ context.Context, params storage.ListPostsParams) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Post, 0)
	for _, p := range s.posts[1:] {
		if matches(p, params.Filter) {
			matched = append(matched, p)
		}
	}
	slices.SortFunc(matched, func(a, b model.Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	if params.Offset >= len(matched) {
		return nil, nil
	}
	end := len(matched)
	if params.Limit > 0 {
		end = min(params.Offset+params.Limit, end)
	}

	out := make([]model.Post, 0, end-params.Offset)
	for _, p := range matched[params.Offset:end] {
		out = append(out, s.withAuthor(p))
	}
	return out, nil
}

func (s *PostStorage) get(postID int64) (model.Post, bool) {
	if postID <= 0 || int(postID) >= len(s.posts) {
		return model.Post{}, false
	}
	return s.posts[postID], true
}

func (s *PostStorage) withAuthor(p model.Post) model.Post {
	if s.users != nil {
		p.Author = s.users.author(p.AuthorID)
	}
	return p
}

func matches(p model.Post, f storage.PostFilter) bool {
	if f.AuthorID != nil && p.AuthorID != *f.AuthorID {
		return false
	}
	if f.GroupID != nil && (p.GroupID == nil || *p.GroupID != *f.GroupID) {
		return false
	}
	if len(f.AuthorIDs) > 0 && !slices.Contains(f.AuthorIDs, p.AuthorID) {
		return false
	}
	return true
}
