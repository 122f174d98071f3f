package rest

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"yatube/internal/service"
	"yatube/pkg/pagination"
)

// postDetailResponse embeds the first page of comments. The rest is
// reachable through CommentsNext.
type postDetailResponse struct {
	Post         postDTO        `json:"post"`
	Comments     commentPageDTO `json:"comments"`
	CommentsNext string         `json:"comments_next,omitempty"`
}

func postURL(postID int64) string {
	return fmt.Sprintf("/posts/%d/", postID)
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func groupFieldError(err error) error {
	return fmt.Errorf("%w: %w", service.ErrInvalidRequest,
		&service.FieldError{Field: "GroupID", Message: err.Error()})
}

func (h *Handler) PostDetail(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDVar(r)
	if !ok {
		writeError(w, r, service.ErrNotFound)
		return
	}

	post, err := h.posts.GetPostByID(r.Context(), postID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	comments, err := h.comments.GetCommentsByPost(r.Context(), pagination.PageRequest{}, postID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := postDetailResponse{
		Post:     toPostDTO(post),
		Comments: toCommentPageDTO(comments),
	}
	if comments.HasNextPage && comments.EndCursor != nil {
		resp.CommentsNext = fmt.Sprintf("/posts/%d/comments/?after=%s", postID, url.QueryEscape(*comments.EndCursor))
	}
	writeJSON(w, http.StatusOK, resp)
}

// PostCreate publishes a post as the logged in user and sends them to
// their profile.
func (h *Handler) PostCreate(w http.ResponseWriter, r *http.Request) {
	v := viewerFrom(r.Context())

	groupID, err := optionalID(r.FormValue("group"))
	if err != nil {
		writeError(w, r, groupFieldError(err))
		return
	}

	_, err = h.posts.CreatePost(r.Context(), service.CreatePostRequest{
		AuthorID: v.ID,
		Text:     r.FormValue("text"),
		GroupID:  groupID,
		Image:    r.FormValue("image"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.Redirect(w, r, profileURL(v.Username), http.StatusSeeOther)
}

// PostEditForm returns the post for editing. Only its author gets it,
// everyone else is sent to the post page.
func (h *Handler) PostEditForm(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDVar(r)
	if !ok {
		writeError(w, r, service.ErrNotFound)
		return
	}

	post, err := h.posts.GetPostByID(r.Context(), postID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if post.AuthorID != viewerFrom(r.Context()).ID {
		http.Redirect(w, r, postURL(postID), http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, toPostDTO(post))
}

func (h *Handler) PostEdit(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDVar(r)
	if !ok {
		writeError(w, r, service.ErrNotFound)
		return
	}

	groupID, err := optionalID(r.FormValue("group"))
	if err != nil {
		writeError(w, r, groupFieldError(err))
		return
	}

	_, err = h.posts.EditPost(r.Context(), service.EditPostRequest{
		PostID:   postID,
		EditorID: viewerFrom(r.Context()).ID,
		Text:     r.FormValue("text"),
		GroupID:  groupID,
		Image:    r.FormValue("image"),
	})
	switch {
	case err == nil:
		http.Redirect(w, r, postURL(postID), http.StatusSeeOther)
	case errors.Is(err, service.ErrForbidden):
		http.Redirect(w, r, postURL(postID), http.StatusFound)
	default:
		writeError(w, r, err)
	}
}
