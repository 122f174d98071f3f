package rest

import (
	"net/http"

	"github.com/gorilla/mux"
)

type groupPageResponse struct {
	Group groupDTO `json:"group"`
	Page  pageDTO  `json:"page"`
}

type profileResponse struct {
	Author    userDTO `json:"author"`
	Following bool    `json:"following"`
	Page      pageDTO `json:"page"`
}

type followPageResponse struct {
	FollowingCount int     `json:"following_count"`
	Page           pageDTO `json:"page"`
}

// Index is the home feed. It is served through the page cache.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := h.feeds.HomeFeed(r.Context(), pageNumber(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageDTO(page))
}

func (h *Handler) GroupPosts(w http.ResponseWriter, r *http.Request) {
	feed, err := h.feeds.GroupFeed(r.Context(), mux.Vars(r)["slug"], pageNumber(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groupPageResponse{
		Group: toGroupDTO(feed.Group),
		Page:  toPageDTO(feed.Page),
	})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	v := viewerFrom(r.Context())

	feed, err := h.feeds.ProfileFeed(r.Context(), v.ID, mux.Vars(r)["username"], pageNumber(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	author := toUserDTO(feed.Author)
	author.Email = ""
	writeJSON(w, http.StatusOK, profileResponse{
		Author:    author,
		Following: feed.Following,
		Page:      toPageDTO(feed.Page),
	})
}

func (h *Handler) FollowIndex(w http.ResponseWriter, r *http.Request) {
	v := viewerFrom(r.Context())

	feed, err := h.feeds.FollowFeed(r.Context(), v.ID, pageNumber(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, followPageResponse{
		FollowingCount: feed.FollowingCount,
		Page:           toPageDTO(feed.Page),
	})
}
