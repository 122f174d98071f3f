package rest

import (
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

const homeCachePrefix = "index_page"

// Routes registers every endpoint on r. Pages that need a logged in user
// redirect anonymous visitors to the login page.
func (h *Handler) Routes(r *mux.Router) {
	r.StrictSlash(true)

	r.Handle("/", h.CachePage(homeCachePrefix, http.HandlerFunc(h.Index))).Methods(http.MethodGet)
	r.HandleFunc("/group/{slug}/", h.GroupPosts).Methods(http.MethodGet)
	r.HandleFunc("/profile/{username}/", h.Profile).Methods(http.MethodGet)

	r.HandleFunc("/posts/{post_id:[0-9]+}/", h.PostDetail).Methods(http.MethodGet)
	r.HandleFunc("/posts/{post_id:[0-9]+}/comments/", h.Comments).Methods(http.MethodGet)
	r.HandleFunc("/posts/{post_id:[0-9]+}/comments/ws", h.CommentStream).Methods(http.MethodGet)

	r.Handle("/create/", requireLogin(http.HandlerFunc(h.PostCreate))).Methods(http.MethodPost)
	r.Handle("/posts/{post_id:[0-9]+}/edit/", requireLogin(http.HandlerFunc(h.PostEditForm))).Methods(http.MethodGet)
	r.Handle("/posts/{post_id:[0-9]+}/edit/", requireLogin(http.HandlerFunc(h.PostEdit))).Methods(http.MethodPost)
	r.Handle("/posts/{post_id:[0-9]+}/comment/", requireLogin(http.HandlerFunc(h.AddComment))).Methods(http.MethodPost)

	r.Handle("/follow/", requireLogin(http.HandlerFunc(h.FollowIndex))).Methods(http.MethodGet)
	r.Handle("/profile/{username}/follow/", requireLogin(http.HandlerFunc(h.ProfileFollow))).
		Methods(http.MethodGet, http.MethodPost)
	r.Handle("/profile/{username}/unfollow/", requireLogin(http.HandlerFunc(h.ProfileUnfollow))).
		Methods(http.MethodGet, http.MethodPost)

	r.Handle("/groups/", requireLogin(http.HandlerFunc(h.GroupCreate))).Methods(http.MethodPost)

	r.HandleFunc("/auth/signup/", h.Signup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login/", h.LoginHint).Methods(http.MethodGet)
	r.HandleFunc("/auth/login/", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout/", h.Logout).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
}

// NewRouter wires the routes behind the request scoped middleware chain:
// request id and logger, access log, panic recovery, then authentication.
func NewRouter(h *Handler, extra ...mux.MiddlewareFunc) http.Handler {
	r := mux.NewRouter()
	for _, mw := range extra {
		r.Use(mw)
	}
	r.Use(h.Authenticate)
	h.Routes(r)

	var out http.Handler = r
	out = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(true),
	)(out)
	out = handlers.CustomLoggingHandler(io.Discard, out, accessLog)
	return withRequestID(out)
}
