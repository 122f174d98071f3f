package rest

import (
	"context"
	"time"

	"yatube/internal/auth"
	"yatube/internal/model"
	"yatube/internal/service"
	"yatube/pkg/pagination"
)

type PostService interface {
	CreatePost(ctx context.Context, req service.CreatePostRequest) (model.Post, error)
	EditPost(ctx context.Context, req service.EditPostRequest) (model.Post, error)
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
}

type CommentService interface {
	AddComment(ctx context.Context, req service.CreateCommentRequest) (model.Comment, error)
	GetCommentsByPost(ctx context.Context, in pagination.PageRequest, postID int64) (pagination.CursorPage[model.Comment], error)
	Listen(ctx context.Context, postID int64) (<-chan model.Comment, error)
}

type FeedService interface {
	HomeFeed(ctx context.Context, page int) (pagination.Page[model.Post], error)
	GroupFeed(ctx context.Context, slug string, page int) (service.GroupFeed, error)
	ProfileFeed(ctx context.Context, viewerID int64, username string, page int) (service.ProfileFeed, error)
	FollowFeed(ctx context.Context, viewerID int64, page int) (service.FollowFeed, error)
}

type FollowService interface {
	Follow(ctx context.Context, userID, authorID int64) (bool, error)
	Unfollow(ctx context.Context, userID, authorID int64) error
}

type UserService interface {
	Signup(ctx context.Context, req service.SignupRequest) (model.User, error)
	Login(ctx context.Context, username, password string) (model.User, string, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

type GroupService interface {
	CreateGroup(ctx context.Context, req service.CreateGroupRequest) (model.Group, error)
}

type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
}

// CacheObserver is told about page cache hits and misses.
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

type Handler struct {
	posts    PostService
	comments CommentService
	feeds    FeedService
	follows  FollowService
	users    UserService
	groups   GroupService
	tokens   TokenValidator

	cache         PageCache
	cacheObserver CacheObserver

	tokenTTL    time.Duration
	wsKeepAlive time.Duration
}

type Option func(*Handler)

func WithPageCache(c PageCache, obs CacheObserver) Option {
	return func(h *Handler) {
		h.cache = c
		h.cacheObserver = obs
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(h *Handler) { h.tokenTTL = ttl }
}

func WithWSKeepAlive(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.wsKeepAlive = d
		}
	}
}

func NewHandler(
	posts PostService,
	comments CommentService,
	feeds FeedService,
	follows FollowService,
	users UserService,
	groups GroupService,
	tokens TokenValidator,
	opts ...Option,
) *Handler {
	h := &Handler{
		posts:       posts,
		comments:    comments,
		feeds:       feeds,
		follows:     follows,
		users:       users,
		groups:      groups,
		tokens:      tokens,
		tokenTTL:    24 * time.Hour,
		wsKeepAlive: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
