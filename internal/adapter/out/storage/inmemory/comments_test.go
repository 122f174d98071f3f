package inmemory

import (
	"context"
	"testing"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
	"yatube/pkg/pagination"

	"github.com/stretchr/testify/require"
)

func TestCommentStorage_CreateAndList(t *testing.T) {
	t.Parallel()

	users, u := seedUsers(t, "commenter")
	st := NewCommentStorage(users)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := st.CreateComment(ctx, model.Comment{PostID: 1, AuthorID: u[0].ID, Text: "c"})
		require.NoError(t, err)
	}
	other, err := st.CreateComment(ctx, model.Comment{PostID: 2, AuthorID: u[0].ID, Text: "other"})
	require.NoError(t, err)
	require.Equal(t, int64(6), other.ID)
	require.Equal(t, "commenter", other.Author.Username)

	got, err := st.GetCommentsByPost(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []int64{5, 4, 3}, []int64{got[0].ID, got[1].ID, got[2].ID})

	empty, err := st.GetCommentsByPost(ctx, 42, 3)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestCommentStorage_NewestFirstAfterCreate(t *testing.T) {
	t.Parallel()

	st := NewCommentStorage(NewUserStorage())
	ctx := context.Background()

	_, err := st.CreateComment(ctx, model.Comment{PostID: 1, AuthorID: 1, Text: "first"})
	require.NoError(t, err)
	latest, err := st.CreateComment(ctx, model.Comment{PostID: 1, AuthorID: 1, Text: "latest"})
	require.NoError(t, err)

	got, err := st.GetCommentsByPost(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, latest.ID, got[0].ID)
	require.Equal(t, "latest", got[0].Text)
}

func TestCommentStorage_WithCursor(t *testing.T) {
	t.Parallel()

	st := NewCommentStorage(NewUserStorage())
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		_, err := st.CreateComment(ctx, model.Comment{PostID: 1, AuthorID: 1, Text: "c"})
		require.NoError(t, err)
	}

	ids := func(cs []model.Comment) []int64 {
		out := make([]int64, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}

	tests := []struct {
		name    string
		params  storage.GetCommentsParams
		want    []int64
		wantErr bool
	}{
		{
			name:   "after",
			params: storage.GetCommentsParams{PostID: 1, Cursor: pagination.Cursor{ID: 4}, Direction: storage.DirectionAfter, Limit: 2},
			want:   []int64{3, 2},
		},
		{
			name:   "before",
			params: storage.GetCommentsParams{PostID: 1, Cursor: pagination.Cursor{ID: 2}, Direction: storage.DirectionBefore, Limit: 2},
			want:   []int64{4, 3},
		},
		{
			name:    "invalid direction",
			params:  storage.GetCommentsParams{PostID: 1, Cursor: pagination.Cursor{ID: 2}, Limit: 2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.GetCommentsByPostWithCursor(ctx, tt.params)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, ids(got))
		})
	}
}
