package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"yatube/internal/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func passthroughTx(m *MockTxManager) {
	m.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		AnyTimes()
}

func ptr[T any](v T) *T {
	return &v
}

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name    string
		req     CreatePostRequest
		setup   func(p *MockPostStorage, g *MockGroupStorage)
		wantErr error
	}{
		{
			name:    "validation error",
			req:     CreatePostRequest{},
			setup:   func(_ *MockPostStorage, _ *MockGroupStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "blank text",
			req:     CreatePostRequest{AuthorID: 7, Text: "   "},
			setup:   func(_ *MockPostStorage, _ *MockGroupStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "unknown group",
			req:  CreatePostRequest{AuthorID: 7, Text: "x", GroupID: ptr(int64(3))},
			setup: func(_ *MockPostStorage, g *MockGroupStorage) {
				g.EXPECT().GetGroupByID(gomock.Any(), int64(3)).Return(model.Group{}, ErrNotFound)
			},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "storage error",
			req:  CreatePostRequest{AuthorID: 7, Text: "x"},
			setup: func(p *MockPostStorage, _ *MockGroupStorage) {
				p.EXPECT().
					CreatePost(gomock.Any(), model.Post{AuthorID: 7, Text: "x"}).
					Return(model.Post{}, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
		{
			name: "success with group",
			req:  CreatePostRequest{AuthorID: 7, Text: " x ", GroupID: ptr(int64(3)), Image: "posts/a.png"},
			setup: func(p *MockPostStorage, g *MockGroupStorage) {
				g.EXPECT().GetGroupByID(gomock.Any(), int64(3)).Return(model.Group{ID: 3}, nil)
				p.EXPECT().
					CreatePost(gomock.Any(), model.Post{AuthorID: 7, Text: "x", GroupID: ptr(int64(3)), Image: "posts/a.png"}).
					Return(model.Post{ID: 10, AuthorID: 7, Text: "x", GroupID: ptr(int64(3)), CreatedAt: now}, nil)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			p := NewMockPostStorage(ctrl)
			g := NewMockGroupStorage(ctrl)
			tx := NewMockTxManager(ctrl)
			tt.setup(p, g)

			svc := NewPostService(p, g, tx)
			got, err := svc.CreatePost(context.Background(), tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrInvalidRequest) {
					require.ErrorIs(t, err, ErrInvalidRequest)
				}
				return
			}

			require.NoError(t, err)
			require.Equal(t, int64(10), got.ID)
			require.WithinDuration(t, now, got.CreatedAt, time.Second)
		})
	}
}

func TestPostService_EditPost(t *testing.T) {
	t.Parallel()

	existing := model.Post{ID: 5, AuthorID: 7, Text: "old", Image: "posts/old.png"}

	tests := []struct {
		name    string
		req     EditPostRequest
		setup   func(p *MockPostStorage)
		wantErr error
		want    model.Post
	}{
		{
			name:    "invalid id",
			req:     EditPostRequest{EditorID: 7, Text: "new"},
			setup:   func(_ *MockPostStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "not found",
			req:  EditPostRequest{PostID: 5, EditorID: 7, Text: "new"},
			setup: func(p *MockPostStorage) {
				p.EXPECT().GetPostByID(gomock.Any(), int64(5)).Return(model.Post{}, ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "not the author",
			req:  EditPostRequest{PostID: 5, EditorID: 8, Text: "new"},
			setup: func(p *MockPostStorage) {
				p.EXPECT().GetPostByID(gomock.Any(), int64(5)).Return(existing, nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name: "empty text",
			req:  EditPostRequest{PostID: 5, EditorID: 7, Text: ""},
			setup: func(p *MockPostStorage) {
				p.EXPECT().GetPostByID(gomock.Any(), int64(5)).Return(existing, nil)
			},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "success keeps image",
			req:  EditPostRequest{PostID: 5, EditorID: 7, Text: "new"},
			setup: func(p *MockPostStorage) {
				p.EXPECT().GetPostByID(gomock.Any(), int64(5)).Return(existing, nil)
				p.EXPECT().
					UpdatePost(gomock.Any(), model.Post{ID: 5, AuthorID: 7, Text: "new", Image: "posts/old.png"}).
					Return(model.Post{ID: 5, AuthorID: 7, Text: "new", Image: "posts/old.png"}, nil)
			},
			want: model.Post{ID: 5, AuthorID: 7, Text: "new", Image: "posts/old.png"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			p := NewMockPostStorage(ctrl)
			tx := NewMockTxManager(ctrl)
			passthroughTx(tx)
			tt.setup(p)

			svc := NewPostService(p, NewMockGroupStorage(ctrl), tx)
			got, err := svc.EditPost(context.Background(), tt.req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPostService_GetPostByID(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	p := NewMockPostStorage(ctrl)
	svc := NewPostService(p, NewMockGroupStorage(ctrl), NewMockTxManager(ctrl))

	_, err := svc.GetPostByID(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidRequest)

	p.EXPECT().GetPostByID(gomock.Any(), int64(9)).Return(model.Post{ID: 9}, nil)
	got, err := svc.GetPostByID(context.Background(), 9)
	require.NoError(t, err)
	require.Equal(t, int64(9), got.ID)
}
