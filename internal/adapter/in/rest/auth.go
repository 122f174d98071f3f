package rest

import (
	"net/http"
	"strings"

	"yatube/internal/service"
)

type loginResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type loginHintResponse struct {
	LoginRequired bool   `json:"login_required"`
	Next          string `json:"next,omitempty"`
}

// safeNext accepts only local absolute paths as a post-login target.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Signup(r.Context(), service.SignupRequest{
		Username:  strings.TrimSpace(r.FormValue("username")),
		Password:  r.FormValue("password"),
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Email:     r.FormValue("email"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

func (h *Handler) LoginHint(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, loginHintResponse{
		LoginRequired: viewerFrom(r.Context()).ID <= 0,
		Next:          safeNext(r.URL.Query().Get("next")),
	})
}

// Login sets the session cookie. With a next target it redirects there,
// otherwise the token is returned in the body for API clients.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	user, token, err := h.users.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if next := safeNext(r.FormValue("next")); next != "" {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: toUserDTO(user)})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
