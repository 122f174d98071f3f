package service

import (
	"context"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
)

//go:generate mockgen -source=storage.go -destination=./storage_mock.go -package=service

type PostStorage interface {
	CreatePost(ctx context.Context, post model.Post) (model.Post, error)
	UpdatePost(ctx context.Context, post model.Post) (model.Post, error)
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
	CountPosts(ctx context.Context, filter storage.PostFilter) (int, error)
	ListPosts(ctx context.Context, params storage.ListPostsParams) ([]model.Post, error)
}

type CommentStorage interface {
	CreateComment(ctx context.Context, comment model.Comment) (model.Comment, error)
	GetCommentsByPost(ctx context.Context, postID int64, limit int) ([]model.Comment, error)
	GetCommentsByPostWithCursor(ctx context.Context, params storage.GetCommentsParams) ([]model.Comment, error)
}

type GroupStorage interface {
	CreateGroup(ctx context.Context, group model.Group) (model.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (model.Group, error)
	GetGroupByID(ctx context.Context, groupID int64) (model.Group, error)
}

type UserStorage interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByID(ctx context.Context, userID int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

type FollowStorage interface {
	CreateFollow(ctx context.Context, userID, authorID int64) (model.Follow, error)
	DeleteFollows(ctx context.Context, userID, authorID int64) (int64, error)
	FollowExists(ctx context.Context, userID, authorID int64) (bool, error)
	GetFollowedAuthorIDs(ctx context.Context, userID int64) ([]int64, error)
}

type CommentBus interface {
	Subscribe(ctx context.Context, postID int64) (<-chan model.Comment, error)
	Publish(ctx context.Context, postID int64, c model.Comment) error
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
