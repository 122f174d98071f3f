package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"yatube/internal/service"
	"yatube/pkg/logger"

	"github.com/gorilla/websocket"
)

const wsWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func (h *Handler) Comments(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDVar(r)
	if !ok {
		writeError(w, r, service.ErrNotFound)
		return
	}

	page, err := h.comments.GetCommentsByPost(r.Context(), toPageRequest(r.URL.Query()), postID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommentPageDTO(page))
}

// AddComment always lands back on the post page. A comment that fails
// validation is dropped without an error.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDVar(r)
	if !ok {
		writeError(w, r, service.ErrNotFound)
		return
	}

	_, err := h.comments.AddComment(r.Context(), service.CreateCommentRequest{
		PostID:   postID,
		AuthorID: viewerFrom(r.Context()).ID,
		Text:     r.FormValue("text"),
	})
	if err != nil && !errors.Is(err, service.ErrInvalidRequest) {
		writeError(w, r, err)
		return
	}

	http.Redirect(w, r, postURL(postID), http.StatusSeeOther)
}

// CommentStream pushes new comments of a post to a websocket client until
// either side goes away.
func (h *Handler) CommentStream(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDVar(r)
	if !ok {
		writeError(w, r, service.ErrNotFound)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ch, err := h.comments.Listen(ctx, postID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log := logger.FromContext(ctx).With("post_id", postID)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	// the read loop only notices the client closing the connection
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(h.wsKeepAlive)
	defer ping.Stop()

	log.Debug("comment stream opened")
	for {
		select {
		case <-ctx.Done():
			log.Debug("comment stream closed")
			return

		case c, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(toCommentDTO(c)); err != nil {
				log.Debug("comment stream write", "error", err)
				return
			}

		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
