package inmemory

import (
	"context"
	"testing"

	"yatube/internal/model"
	"yatube/internal/service"

	"github.com/stretchr/testify/require"
)

func TestFollowStorage(t *testing.T) {
	t.Parallel()

	st := NewFollowStorage()
	ctx := context.Background()

	ok, err := st.FollowExists(ctx, 1, 2)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = st.CreateFollow(ctx, 1, 2)
	require.NoError(t, err)
	_, err = st.CreateFollow(ctx, 1, 3)
	require.NoError(t, err)
	// duplicates are stored, nothing enforces uniqueness
	_, err = st.CreateFollow(ctx, 1, 2)
	require.NoError(t, err)
	require.Equal(t, 3, st.Len())

	ids, err := st.GetFollowedAuthorIDs(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3, 2}, ids)

	n, err := st.DeleteFollows(ctx, 1, 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	ok, err = st.FollowExists(ctx, 1, 2)
	require.NoError(t, err)
	require.False(t, ok)

	n, err = st.DeleteFollows(ctx, 1, 2)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestFollowService_RoundTripRestoresCount(t *testing.T) {
	t.Parallel()

	st := NewFollowStorage()
	svc := service.NewFollowService(st)
	ctx := context.Background()

	for _, pair := range [][2]int64{{1, 2}, {1, 3}, {4, 1}} {
		before := st.Len()

		created, err := svc.Follow(ctx, pair[0], pair[1])
		require.NoError(t, err)
		require.True(t, created)

		following, err := svc.IsFollowing(ctx, pair[0], pair[1])
		require.NoError(t, err)
		require.True(t, following)

		// following again changes nothing
		created, err = svc.Follow(ctx, pair[0], pair[1])
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, before+1, st.Len())

		require.NoError(t, svc.Unfollow(ctx, pair[0], pair[1]))

		following, err = svc.IsFollowing(ctx, pair[0], pair[1])
		require.NoError(t, err)
		require.False(t, following)
		require.Equal(t, before, st.Len())
	}

	created, err := svc.Follow(ctx, 5, 5)
	require.NoError(t, err)
	require.False(t, created)
	require.Zero(t, st.Len())
}

func TestUserAndGroupStorage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	users := NewUserStorage()
	u, err := users.CreateUser(ctx, model.User{Username: "leo"})
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)

	_, err = users.CreateUser(ctx, model.User{Username: "leo"})
	require.ErrorIs(t, err, service.ErrAlreadyExists)

	got, err := users.GetUserByUsername(ctx, "leo")
	require.NoError(t, err)
	require.Equal(t, u, got)

	_, err = users.GetUserByID(ctx, 2)
	require.ErrorIs(t, err, service.ErrNotFound)

	groups := NewGroupStorage()
	g, err := groups.CreateGroup(ctx, model.Group{Title: "Cats", Slug: "cats"})
	require.NoError(t, err)

	_, err = groups.CreateGroup(ctx, model.Group{Title: "Dup", Slug: "cats"})
	require.ErrorIs(t, err, service.ErrAlreadyExists)

	bySlug, err := groups.GetGroupBySlug(ctx, "cats")
	require.NoError(t, err)
	require.Equal(t, g, bySlug)

	_, err = groups.GetGroupByID(ctx, 5)
	require.ErrorIs(t, err, service.ErrNotFound)
}
