package inmemory

import (
	"context"
	"testing"
	"time"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
	"yatube/internal/service"

	"github.com/stretchr/testify/require"
)

func seedUsers(t *testing.T, names ...string) (*UserStorage, []model.User) {
	t.Helper()

	users := NewUserStorage()
	out := make([]model.User, 0, len(names))
	for _, n := range names {
		u, err := users.CreateUser(context.Background(), model.User{Username: n})
		require.NoError(t, err)
		out = append(out, u)
	}
	return users, out
}

func TestPostStorage_CreateAndGetByID(t *testing.T) {
	t.Parallel()

	users, u := seedUsers(t, "author")
	st := NewPostStorage(users)

	tests := []struct {
		name   string
		input  model.Post
		wantID int64
	}{
		{
			name:   "first post",
			input:  model.Post{AuthorID: u[0].ID, Text: "t1"},
			wantID: 1,
		},
		{
			name:   "second post",
			input:  model.Post{AuthorID: u[0].ID, Text: "t2", Image: "posts/x.png"},
			wantID: 2,
		},
	}

	for _, tt := range tests {
		out, err := st.CreatePost(context.Background(), tt.input)
		require.NoError(t, err, tt.name)
		require.Equal(t, tt.wantID, out.ID)
		require.Equal(t, tt.input.Text, out.Text)
		require.Equal(t, "author", out.Author.Username)
		require.WithinDuration(t, time.Now(), out.CreatedAt, time.Second)

		got, err := st.GetPostByID(context.Background(), tt.wantID)
		require.NoError(t, err)
		require.Equal(t, out, got)
	}
}

func TestPostStorage_GetPostByID_NotFound(t *testing.T) {
	t.Parallel()

	st := NewPostStorage(NewUserStorage())

	_, err := st.GetPostByID(context.Background(), 10)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestPostStorage_UpdatePost(t *testing.T) {
	t.Parallel()

	st := NewPostStorage(NewUserStorage())
	ctx := context.Background()

	_, err := st.UpdatePost(ctx, model.Post{ID: 1, Text: "x"})
	require.ErrorIs(t, err, service.ErrNotFound)

	p, err := st.CreatePost(ctx, model.Post{AuthorID: 1, Text: "old"})
	require.NoError(t, err)

	group := int64(3)
	p.Text = "new"
	p.GroupID = &group
	p.AuthorID = 99

	got, err := st.UpdatePost(ctx, p)
	require.NoError(t, err)
	require.Equal(t, "new", got.Text)
	require.Equal(t, int64(1), got.AuthorID)
	require.Equal(t, &group, got.GroupID)
}

func TestPostStorage_ListPosts(t *testing.T) {
	t.Parallel()

	users, u := seedUsers(t, "a", "b", "c")
	st := NewPostStorage(users)
	ctx := context.Background()

	groupSlug, groupNew := int64(1), int64(2)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	fixtures := []model.Post{
		{AuthorID: u[0].ID, Text: "a1", GroupID: &groupSlug, CreatedAt: base},
		{AuthorID: u[1].ID, Text: "b1", GroupID: &groupNew, CreatedAt: base.Add(time.Minute)},
		{AuthorID: u[0].ID, Text: "a2", CreatedAt: base.Add(2 * time.Minute)},
		{AuthorID: u[2].ID, Text: "c1", GroupID: &groupSlug, CreatedAt: base.Add(3 * time.Minute)},
	}
	for _, p := range fixtures {
		_, err := st.CreatePost(ctx, p)
		require.NoError(t, err)
	}

	texts := func(ps []model.Post) []string {
		out := make([]string, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.Text)
		}
		return out
	}

	tests := []struct {
		name   string
		params storage.ListPostsParams
		want   []string
	}{
		{
			name:   "all newest first",
			params: storage.ListPostsParams{Limit: 10},
			want:   []string{"c1", "a2", "b1", "a1"},
		},
		{
			name:   "offset and limit",
			params: storage.ListPostsParams{Offset: 1, Limit: 2},
			want:   []string{"a2", "b1"},
		},
		{
			name:   "offset past end",
			params: storage.ListPostsParams{Offset: 10, Limit: 2},
			want:   []string{},
		},
		{
			name:   "by group",
			params: storage.ListPostsParams{Filter: storage.PostFilter{GroupID: &groupSlug}, Limit: 10},
			want:   []string{"c1", "a1"},
		},
		{
			name:   "by author",
			params: storage.ListPostsParams{Filter: storage.PostFilter{AuthorID: &u[0].ID}, Limit: 10},
			want:   []string{"a2", "a1"},
		},
		{
			name:   "by author set",
			params: storage.ListPostsParams{Filter: storage.PostFilter{AuthorIDs: []int64{u[1].ID, u[2].ID}}, Limit: 10},
			want:   []string{"c1", "b1"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.ListPosts(ctx, tt.params)
			require.NoError(t, err)
			require.Equal(t, tt.want, texts(got))

			n, err := st.CountPosts(ctx, tt.params.Filter)
			require.NoError(t, err)
			if tt.params.Offset == 0 {
				require.Equal(t, len(tt.want), n)
			}
		})
	}

	got, err := st.ListPosts(ctx, storage.ListPostsParams{Limit: 1})
	require.NoError(t, err)
	require.Equal(t, "c", got[0].Author.Username)
}
