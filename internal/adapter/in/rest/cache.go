package rest

import (
	"bytes"
	"errors"
	"net/http"

	"yatube/internal/adapter/out/cache"
	"yatube/pkg/logger"

	"github.com/felixge/httpsnoop"
)

// CachePage serves successful GET responses of next from the page cache
// under prefix plus the request URI. Entries only go away when they expire.
func (h *Handler) CachePage(prefix string, next http.Handler) http.Handler {
	if h.cache == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := prefix + ":" + r.URL.RequestURI()

		body, err := h.cache.Get(ctx, key)
		switch {
		case err == nil:
			h.observeCache(true)
			w.Header().Set("Content-Type", contentTypeJSON)
			w.Header().Set("X-Cache", "HIT")
			_, _ = w.Write(body)
			return
		case !errors.Is(err, cache.ErrMiss):
			logger.FromContext(ctx).Warn("page cache get", "key", key, "error", err)
		}
		h.observeCache(false)

		var (
			buf  bytes.Buffer
			code = http.StatusOK
		)
		ww := httpsnoop.Wrap(w, httpsnoop.Hooks{
			WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
				return func(c int) {
					code = c
					next(c)
				}
			},
			Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
				return func(b []byte) (int, error) {
					buf.Write(b)
					return next(b)
				}
			},
		})
		w.Header().Set("X-Cache", "MISS")
		next.ServeHTTP(ww, r)

		if code != http.StatusOK {
			return
		}
		if err := h.cache.Set(ctx, key, buf.Bytes()); err != nil {
			logger.FromContext(ctx).Warn("page cache set", "key", key, "error", err)
		}
	})
}

func (h *Handler) observeCache(hit bool) {
	if h.cacheObserver == nil {
		return
	}
	if hit {
		h.cacheObserver.CacheHit()
	} else {
		h.cacheObserver.CacheMiss()
	}
}
