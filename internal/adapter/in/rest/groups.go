package rest

import (
	"net/http"

	"yatube/internal/service"
)

func (h *Handler) GroupCreate(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.CreateGroup(r.Context(), service.CreateGroupRequest{
		Title:       r.FormValue("title"),
		Slug:        r.FormValue("slug"),
		Description: r.FormValue("description"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupDTO(group))
}
