package service

import (
	"context"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
	"yatube/pkg/pagination"
)

// FollowGraph is the part of the follow graph the feeds consult.
type FollowGraph interface {
	IsFollowing(ctx context.Context, userID, authorID int64) (bool, error)
	FollowedAuthors(ctx context.Context, userID int64) ([]int64, error)
}

type GroupFeed struct {
	Group model.Group
	Page  pagination.Page[model.Post]
}

type ProfileFeed struct {
	Author    model.User
	Following bool
	Page      pagination.Page[model.Post]
}

type FollowFeed struct {
	FollowingCount int
	Page           pagination.Page[model.Post]
}

// FeedService selects the posts shown in each viewing context and pages them.
// A viewer ID of 0 is an anonymous viewer.
type FeedService struct {
	posts   PostStorage
	groups  GroupStorage
	users   UserStorage
	follows FollowGraph
	perPage int
}

func NewFeedService(posts PostStorage, groups GroupStorage, users UserStorage, follows FollowGraph, perPage int) *FeedService {
	if perPage <= 0 {
		perPage = pagination.DefaultPerPage
	}
	return &FeedService{
		posts:   posts,
		groups:  groups,
		users:   users,
		follows: follows,
		perPage: perPage,
	}
}

func (s *FeedService) HomeFeed(ctx context.Context, page int) (pagination.Page[model.Post], error) {
	return pagination.GetPage(ctx, s.sequence(storage.PostFilter{}), s.perPage, page)
}

func (s *FeedService) GroupFeed(ctx context.Context, slug string, page int) (GroupFeed, error) {
	group, err := s.groups.GetGroupBySlug(ctx, slug)
	if err != nil {
		return GroupFeed{}, err
	}

	p, err := pagination.GetPage(ctx, s.sequence(storage.PostFilter{GroupID: &group.ID}), s.perPage, page)
	if err != nil {
		return GroupFeed{}, err
	}
	return GroupFeed{Group: group, Page: p}, nil
}

func (s *FeedService) ProfileFeed(ctx context.Context, viewerID int64, username string, page int) (ProfileFeed, error) {
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return ProfileFeed{}, err
	}

	p, err := pagination.GetPage(ctx, s.sequence(storage.PostFilter{AuthorID: &author.ID}), s.perPage, page)
	if err != nil {
		return ProfileFeed{}, err
	}

	following, err := s.follows.IsFollowing(ctx, viewerID, author.ID)
	if err != nil {
		return ProfileFeed{}, err
	}

	return ProfileFeed{Author: author, Following: following, Page: p}, nil
}

func (s *FeedService) FollowFeed(ctx context.Context, viewerID int64, page int) (FollowFeed, error) {
	if viewerID <= 0 {
		return FollowFeed{}, ErrUnauthenticated
	}

	authors, err := s.follows.FollowedAuthors(ctx, viewerID)
	if err != nil {
		return FollowFeed{}, err
	}

	var seq pagination.Sequence[model.Post] = pagination.SliceSequence[model.Post](nil)
	if len(authors) > 0 {
		seq = s.sequence(storage.PostFilter{AuthorIDs: authors})
	}

	p, err := pagination.GetPage(ctx, seq, s.perPage, page)
	if err != nil {
		return FollowFeed{}, err
	}
	return FollowFeed{FollowingCount: len(authors), Page: p}, nil
}

func (s *FeedService) sequence(filter storage.PostFilter) pagination.Sequence[model.Post] {
	return postSequence{storage: s.posts, filter: filter}
}

// postSequence runs a fresh count and slice query on each call.
type postSequence struct {
	storage PostStorage
	filter  storage.PostFilter
}

func (q postSequence) Count(ctx context.Context) (int, error) {
	return q.storage.CountPosts(ctx, q.filter)
}

func (q postSequence) Slice(ctx context.Context, offset, limit int) ([]model.Post, error) {
	return q.storage.ListPosts(ctx, storage.ListPostsParams{
		Filter: q.filter,
		Offset: offset,
		Limit:  limit,
	})
}
