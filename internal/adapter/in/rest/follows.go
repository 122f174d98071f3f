package rest

import (
	"net/http"

	"github.com/gorilla/mux"
)

const followIndexPath = "/follow/"

// ProfileFollow sends the viewer to the following feed after a new follow,
// and back to the profile when nothing changed.
func (h *Handler) ProfileFollow(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	author, err := h.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.follows.Follow(r.Context(), viewerFrom(r.Context()).ID, author.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !created {
		http.Redirect(w, r, profileURL(author.Username), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, followIndexPath, http.StatusSeeOther)
}

func (h *Handler) ProfileUnfollow(w http.ResponseWriter, r *http.Request) {
	author, err := h.users.GetUserByUsername(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.follows.Unfollow(r.Context(), viewerFrom(r.Context()).ID, author.ID); err != nil {
		writeError(w, r, err)
		return
	}
	http.Redirect(w, r, followIndexPath, http.StatusSeeOther)
}
