package inmemory

import (
	"context"
	"sync"

	"yatube/internal/model"
)

const DefaultBuffer = 64

// CommentBus fans new comments out to live subscribers of a post. Slow
// subscribers drop comments instead of blocking the publisher.
type CommentBus struct {
	mu   sync.RWMutex
	subs map[int64]map[chan model.Comment]struct{}
	buf  int
}

func New(buf int) *CommentBus {
	if buf <= 0 {
		buf = DefaultBuffer
	}
	return &CommentBus{
		subs: make(map[int64]map[chan model.Comment]struct{}),
		buf:  buf,
	}
}

// Subscribe returns a channel that is closed once ctx is done.
func (b *CommentBus) Subscribe(ctx context.Context, postID int64) (<-chan model.Comment, error) {
	ch := make(chan model.Comment, b.buf)

	b.mu.Lock()
	if b.subs[postID] == nil {
		b.subs[postID] = make(map[chan model.Comment]struct{})
	}
	b.subs[postID][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		if set := b.subs[postID]; set != nil {
			delete(set, ch)
			if len(set) == 0 {
				delete(b.subs, postID)
			}
		}
		b.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

func (b *CommentBus) Publish(_ context.Context, postID int64, c model.Comment) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[postID] {
		select {
		case ch <- c:
		default:
		}
	}
	return nil
}

// Subscribers reports the number of live subscriptions for a post.
func (b *CommentBus) Subscribers(postID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[postID])
}
