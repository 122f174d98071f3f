package rest

import (
	"net/url"
	"strconv"
	"time"

	"yatube/internal/model"
	"yatube/pkg/pagination"
)

type authorDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type postDTO struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Author    authorDTO `json:"author"`
	GroupID   *int64    `json:"group_id,omitempty"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type commentDTO struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	Author    authorDTO `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type groupDTO struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type userDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

type pageDTO struct {
	Items           []postDTO `json:"items"`
	Number          int       `json:"number"`
	NumPages        int       `json:"num_pages"`
	Count           int       `json:"count"`
	HasNextPage     bool      `json:"has_next"`
	HasPreviousPage bool      `json:"has_previous"`
}

type commentPageDTO struct {
	Items           []commentDTO `json:"items"`
	StartCursor     *string      `json:"start_cursor,omitempty"`
	EndCursor       *string      `json:"end_cursor,omitempty"`
	HasNextPage     bool         `json:"has_next"`
	HasPreviousPage bool         `json:"has_previous"`
}

func toAuthor(u model.User) authorDTO {
	return authorDTO{ID: u.ID, Username: u.Username}
}

func toPostDTO(p model.Post) postDTO {
	return postDTO{
		ID:        p.ID,
		Title:     p.Title(),
		Text:      p.Text,
		Author:    toAuthor(p.Author),
		GroupID:   p.GroupID,
		Image:     p.Image,
		CreatedAt: p.CreatedAt,
	}
}

func toCommentDTO(c model.Comment) commentDTO {
	return commentDTO{
		ID:        c.ID,
		PostID:    c.PostID,
		Author:    toAuthor(c.Author),
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

func toGroupDTO(g model.Group) groupDTO {
	return groupDTO{ID: g.ID, Title: g.Title, Slug: g.Slug, Description: g.Description}
}

func toUserDTO(u model.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

func toPageDTO(p pagination.Page[model.Post]) pageDTO {
	items := make([]postDTO, 0, len(p.Items))
	for _, post := range p.Items {
		items = append(items, toPostDTO(post))
	}
	return pageDTO{
		Items:           items,
		Number:          p.Number,
		NumPages:        p.NumPages,
		Count:           p.Count,
		HasNextPage:     p.HasNextPage,
		HasPreviousPage: p.HasPreviousPage,
	}
}

func toCommentPageDTO(p pagination.CursorPage[model.Comment]) commentPageDTO {
	items := make([]commentDTO, 0, len(p.Items))
	for _, c := range p.Items {
		items = append(items, toCommentDTO(c))
	}
	return commentPageDTO{
		Items:           items,
		StartCursor:     p.StartCursor,
		EndCursor:       p.EndCursor,
		HasNextPage:     p.HasNextPage,
		HasPreviousPage: p.HasPreviousPage,
	}
}

func toPageRequest(q url.Values) pagination.PageRequest {
	var before, after *string
	if v := q.Get("before"); v != "" {
		before = &v
	}
	if v := q.Get("after"); v != "" {
		after = &v
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	return pagination.PageRequest{
		Limit:        limit,
		BeforeCursor: before,
		AfterCursor:  after,
	}
}
