package rest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"yatube/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
)

const (
	requestIDHeader = "X-Request-ID"
	tokenCookieName = "yatube_token"
	loginPath       = "/auth/login/"
)

type viewer struct {
	ID       int64
	Username string
}

type viewerKey struct{}

func withViewer(ctx context.Context, v viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// viewerFrom returns the zero viewer (ID 0) for anonymous requests.
func viewerFrom(ctx context.Context) viewer {
	v, _ := ctx.Value(viewerKey{}).(viewer)
	return v
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		l := logger.FromContext(r.Context()).With("request_id", id)
		next.ServeHTTP(w, r.WithContext(logger.WithLogger(r.Context(), l)))
	})
}

func accessLog(_ io.Writer, p handlers.LogFormatterParams) {
	logger.FromContext(p.Request.Context()).Info("http request",
		"method", p.Request.Method,
		"uri", p.URL.RequestURI(),
		"status", p.StatusCode,
		"size", p.Size,
		"remote_addr", p.Request.RemoteAddr,
	)
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...any) {
	slog.Error("panic recovered", "panic", fmt.Sprint(v...))
}

func bearerToken(r *http.Request) string {
	if c, err := r.Cookie(tokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Authenticate resolves the viewer from the session cookie or a Bearer
// header. Missing or invalid tokens leave the request anonymous.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := h.tokens.Validate(token)
		if err != nil {
			logger.FromContext(r.Context()).Debug("ignoring invalid token", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := withViewer(r.Context(), viewer{ID: claims.UserID, Username: claims.Username})
		ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With("user_id", claims.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loginURL(next string) string {
	return loginPath + "?next=" + url.QueryEscape(next)
}

func requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if viewerFrom(r.Context()).ID <= 0 {
			http.Redirect(w, r, loginURL(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
