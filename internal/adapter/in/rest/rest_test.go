package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	cacheinmem "yatube/internal/adapter/out/cache/inmemory"
	businmem "yatube/internal/adapter/out/pubsub/inmemory"
	"yatube/internal/adapter/out/storage/inmemory"
	"yatube/internal/auth"
	"yatube/internal/model"
	"yatube/internal/service"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	router   http.Handler
	userRepo *inmemory.UserStorage
	posts    *service.PostService
	comments *service.CommentService
	groups   *service.GroupService
	jwt      *auth.JWTManager
}

func newTestApp(t *testing.T, opts ...Option) *testApp {
	t.Helper()

	users := inmemory.NewUserStorage()
	groups := inmemory.NewGroupStorage()
	posts := inmemory.NewPostStorage(users)
	comments := inmemory.NewCommentStorage(users)
	follows := inmemory.NewFollowStorage()
	jwt := auth.NewJWTManager("test-secret", time.Hour)

	postSvc := service.NewPostService(posts, groups, inmemory.TxManager{})
	commentSvc := service.NewCommentService(comments, posts, businmem.New(0))
	followSvc := service.NewFollowService(follows)
	groupSvc := service.NewGroupService(groups)

	h := NewHandler(
		postSvc,
		commentSvc,
		service.NewFeedService(posts, groups, users, followSvc, 10),
		followSvc,
		service.NewUserService(users, jwt),
		groupSvc,
		jwt,
		opts...,
	)

	return &testApp{
		router:   NewRouter(h),
		userRepo: users,
		posts:    postSvc,
		comments: commentSvc,
		groups:   groupSvc,
		jwt:      jwt,
	}
}

func (a *testApp) user(t *testing.T, username string) model.User {
	t.Helper()
	u, err := a.userRepo.CreateUser(context.Background(), model.User{Username: username})
	require.NoError(t, err)
	return u
}

func (a *testApp) post(t *testing.T, author model.User, text string, groupID *int64) model.Post {
	t.Helper()
	p, err := a.posts.CreatePost(context.Background(), service.CreatePostRequest{
		AuthorID: author.ID, Text: text, GroupID: groupID,
	})
	require.NoError(t, err)
	return p
}

func (a *testApp) group(t *testing.T, slug string) model.Group {
	t.Helper()
	g, err := a.groups.CreateGroup(context.Background(), service.CreateGroupRequest{
		Title: slug, Slug: slug, Description: slug + " group",
	})
	require.NoError(t, err)
	return g
}

// do sends a request, form encoded when form is not nil, as the given user
// or anonymously when as is nil.
func (a *testApp) do(t *testing.T, method, target string, form url.Values, as *model.User) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if as != nil {
		token, err := a.jwt.Generate(*as)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: token})
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func postIDs(items []postDTO) []int64 {
	out := make([]int64, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func TestRequireLogin_RedirectsAnonymous(t *testing.T) {
	app := newTestApp(t)
	author := app.user(t, "leo")
	app.post(t, author, "post", nil)

	tests := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/create/"},
		{http.MethodGet, "/posts/1/edit/"},
		{http.MethodPost, "/posts/1/edit/"},
		{http.MethodPost, "/posts/1/comment/"},
		{http.MethodGet, "/follow/"},
		{http.MethodPost, "/profile/leo/follow/"},
		{http.MethodPost, "/profile/leo/unfollow/"},
		{http.MethodPost, "/groups/"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := app.do(t, tt.method, tt.target, url.Values{}, nil)
			require.Equal(t, http.StatusFound, rec.Code)
			require.Equal(t, "/auth/login/?next="+url.QueryEscape(tt.target), rec.Header().Get("Location"))
		})
	}
}

func TestInvalidTokenIsAnonymous(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/follow/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestIndex_ServesCachedPage(t *testing.T) {
	app := newTestApp(t, WithPageCache(cacheinmem.New(0, time.Hour), nil))
	author := app.user(t, "leo")
	first := app.post(t, author, "first", nil)

	rec := app.do(t, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	require.Equal(t, []int64{first.ID}, postIDs(decode[pageDTO](t, rec).Items))

	app.post(t, author, "second", nil)

	rec = app.do(t, http.MethodGet, "/", nil, nil)
	require.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	require.Equal(t, []int64{first.ID}, postIDs(decode[pageDTO](t, rec).Items), "cached page must stay stale")

	rec = app.do(t, http.MethodGet, "/?page=1", nil, nil)
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	require.Len(t, decode[pageDTO](t, rec).Items, 2)
}

func TestIndex_CacheExpires(t *testing.T) {
	app := newTestApp(t, WithPageCache(cacheinmem.New(0, 50*time.Millisecond), nil))
	author := app.user(t, "leo")

	rec := app.do(t, http.MethodGet, "/", nil, nil)
	require.Empty(t, decode[pageDTO](t, rec).Items)

	app.post(t, author, "fresh", nil)

	require.Eventually(t, func() bool {
		rec := app.do(t, http.MethodGet, "/", nil, nil)
		return len(decode[pageDTO](t, rec).Items) == 1
	}, time.Second, 20*time.Millisecond)
}

func TestGroupPosts(t *testing.T) {
	app := newTestApp(t)
	author := app.user(t, "leo")
	cats := app.group(t, "cats")
	dogs := app.group(t, "dogs")
	inCats := app.post(t, author, "about cats", &cats.ID)
	app.post(t, author, "no group", nil)

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantIDs  []int64
	}{
		{name: "group with post", target: "/group/cats/", wantCode: http.StatusOK, wantIDs: []int64{inCats.ID}},
		{name: "other group", target: "/group/" + dogs.Slug + "/", wantCode: http.StatusOK, wantIDs: []int64{}},
		{name: "unknown group", target: "/group/birds/", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodGet, tt.target, nil, nil)
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusOK {
				return
			}
			resp := decode[groupPageResponse](t, rec)
			require.Equal(t, tt.wantIDs, postIDs(resp.Page.Items))
		})
	}
}

func TestProfile_Pagination(t *testing.T) {
	app := newTestApp(t)
	author := app.user(t, "leo")
	for i := 0; i < 13; i++ {
		app.post(t, author, fmt.Sprintf("post %d", i), nil)
	}

	tests := []struct {
		query      string
		wantNumber int
		wantLen    int
	}{
		{query: "", wantNumber: 1, wantLen: 10},
		{query: "?page=2", wantNumber: 2, wantLen: 3},
		{query: "?page=abc", wantNumber: 1, wantLen: 10},
		{query: "?page=99", wantNumber: 2, wantLen: 3},
		{query: "?page=-1", wantNumber: 2, wantLen: 3},
		{query: "?page=0", wantNumber: 2, wantLen: 3},
	}
	for _, tt := range tests {
		t.Run("page"+tt.query, func(t *testing.T) {
			rec := app.do(t, http.MethodGet, "/profile/leo/"+tt.query, nil, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			resp := decode[profileResponse](t, rec)
			require.Equal(t, tt.wantNumber, resp.Page.Number)
			require.Len(t, resp.Page.Items, tt.wantLen)
			require.Equal(t, 13, resp.Page.Count)
			require.Equal(t, 2, resp.Page.NumPages)
			require.False(t, resp.Following)
		})
	}

	require.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/profile/ghost/", nil, nil).Code)
}

func TestFollowFlow(t *testing.T) {
	app := newTestApp(t)
	reader := app.user(t, "reader")
	author := app.user(t, "author")
	stranger := app.user(t, "stranger")
	p := app.post(t, author, "worth following", nil)

	rec := app.do(t, http.MethodPost, "/profile/author/follow/", url.Values{}, &reader)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/follow/", rec.Header().Get("Location"))

	rec = app.do(t, http.MethodPost, "/profile/author/follow/", url.Values{}, &reader)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/profile/author/", rec.Header().Get("Location"), "repeated follow is a no-op")

	rec = app.do(t, http.MethodPost, "/profile/reader/follow/", url.Values{}, &reader)
	require.Equal(t, "/profile/reader/", rec.Header().Get("Location"), "self follow is a no-op")

	rec = app.do(t, http.MethodGet, "/follow/", nil, &reader)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode[followPageResponse](t, rec)
	require.Equal(t, 1, feed.FollowingCount)
	require.Equal(t, []int64{p.ID}, postIDs(feed.Page.Items))

	rec = app.do(t, http.MethodGet, "/follow/", nil, &stranger)
	require.Empty(t, decode[followPageResponse](t, rec).Page.Items)

	rec = app.do(t, http.MethodGet, "/profile/author/", nil, &reader)
	require.True(t, decode[profileResponse](t, rec).Following)

	rec = app.do(t, http.MethodPost, "/profile/author/unfollow/", url.Values{}, &reader)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/follow/", rec.Header().Get("Location"))

	rec = app.do(t, http.MethodGet, "/follow/", nil, &reader)
	require.Empty(t, decode[followPageResponse](t, rec).Page.Items)

	rec = app.do(t, http.MethodPost, "/profile/ghost/follow/", url.Values{}, &reader)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostCreate(t *testing.T) {
	app := newTestApp(t)
	author := app.user(t, "leo")
	g := app.group(t, "cats")

	rec := app.do(t, http.MethodPost, "/create/", url.Values{
		"text":  {"new post"},
		"group": {fmt.Sprint(g.ID)},
	}, &author)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/profile/leo/", rec.Header().Get("Location"))

	rec = app.do(t, http.MethodGet, "/group/cats/", nil, nil)
	items := decode[groupPageResponse](t, rec).Page.Items
	require.Len(t, items, 1)
	require.Equal(t, "leo", items[0].Author.Username)

	tests := []struct {
		name      string
		form      url.Values
		wantField string
	}{
		{name: "empty text", form: url.Values{"text": {"  "}}, wantField: "Text"},
		{name: "unknown group", form: url.Values{"text": {"x"}, "group": {"42"}}, wantField: "GroupID"},
		{name: "malformed group", form: url.Values{"text": {"x"}, "group": {"cats"}}, wantField: "GroupID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/create/", tt.form, &author)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, decode[errorResponse](t, rec).Fields, tt.wantField)
		})
	}
}

func TestPostEdit(t *testing.T) {
	app := newTestApp(t)
	author := app.user(t, "leo")
	other := app.user(t, "max")
	p := app.post(t, author, "original", nil)
	target := fmt.Sprintf("/posts/%d/edit/", p.ID)

	rec := app.do(t, http.MethodGet, target, nil, &other)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, postURL(p.ID), rec.Header().Get("Location"))

	rec = app.do(t, http.MethodPost, target, url.Values{"text": {"hijacked"}}, &other)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, postURL(p.ID), rec.Header().Get("Location"))

	got, err := app.posts.GetPostByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, "original", got.Text)

	rec = app.do(t, http.MethodGet, target, nil, &author)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "original", decode[postDTO](t, rec).Text)

	rec = app.do(t, http.MethodPost, target, url.Values{"text": {"edited"}}, &author)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, postURL(p.ID), rec.Header().Get("Location"))

	got, err = app.posts.GetPostByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, "edited", got.Text)

	rec = app.do(t, http.MethodPost, "/posts/999/edit/", url.Values{"text": {"x"}}, &author)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddComment_AndPostDetail(t *testing.T) {
	app := newTestApp(t)
	author := app.user(t, "leo")
	reader := app.user(t, "max")
	p := app.post(t, author, "discuss", nil)
	target := fmt.Sprintf("/posts/%d/comment/", p.ID)

	for _, text := range []string{"first", "second"} {
		rec := app.do(t, http.MethodPost, target, url.Values{"text": {text}}, &reader)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, postURL(p.ID), rec.Header().Get("Location"))
	}

	rec := app.do(t, http.MethodPost, target, url.Values{"text": {""}}, &reader)
	require.Equal(t, http.StatusSeeOther, rec.Code, "invalid comment is dropped silently")

	rec = app.do(t, http.MethodGet, postURL(p.ID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[postDetailResponse](t, rec)
	require.Equal(t, "discuss", detail.Post.Text)
	require.Len(t, detail.Comments.Items, 2)
	require.Equal(t, "second", detail.Comments.Items[0].Text)
	require.Equal(t, "first", detail.Comments.Items[1].Text)
	require.Equal(t, "max", detail.Comments.Items[0].Author.Username)
	require.Empty(t, detail.CommentsNext)

	rec = app.do(t, http.MethodGet, fmt.Sprintf("/posts/%d/comments/?limit=1", p.ID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[commentPageDTO](t, rec)
	require.Len(t, page.Items, 1)
	require.True(t, page.HasNextPage)

	rec = app.do(t, http.MethodGet, fmt.Sprintf("/posts/%d/comments/?limit=1&after=%s", p.ID, url.QueryEscape(*page.EndCursor)), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "first", decode[commentPageDTO](t, rec).Items[0].Text)

	require.Equal(t, http.StatusNotFound, app.do(t, http.MethodPost, "/posts/999/comment/", url.Values{"text": {"x"}}, &reader).Code)
	require.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/posts/999/", nil, nil).Code)
}

func TestPostDetail_LinksRemainingComments(t *testing.T) {
	app := newTestApp(t)
	author := app.user(t, "leo")
	p := app.post(t, author, "busy thread", nil)

	total := service.DefaultCommentsLimit + 1
	for i := 0; i < total; i++ {
		_, err := app.comments.AddComment(context.Background(), service.CreateCommentRequest{
			PostID: p.ID, AuthorID: author.ID, Text: fmt.Sprintf("comment %d", i),
		})
		require.NoError(t, err)
	}

	rec := app.do(t, http.MethodGet, postURL(p.ID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[postDetailResponse](t, rec)
	require.Len(t, detail.Comments.Items, service.DefaultCommentsLimit)
	require.NotEmpty(t, detail.CommentsNext)

	rec = app.do(t, http.MethodGet, detail.CommentsNext, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tail := decode[commentPageDTO](t, rec)
	require.Len(t, tail.Items, 1)
	require.Equal(t, "comment 0", tail.Items[0].Text)
	require.False(t, tail.HasNextPage)
}

func TestSignupAndLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/auth/signup/", url.Values{
		"username": {"leo"}, "password": {"long-enough"},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "leo", decode[userDTO](t, rec).Username)

	rec = app.do(t, http.MethodPost, "/auth/signup/", url.Values{
		"username": {"leo"}, "password": {"long-enough"},
	}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodPost, "/auth/login/", url.Values{
		"username": {"leo"}, "password": {"wrong-password"},
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/auth/login/", url.Values{
		"username": {"leo"}, "password": {"long-enough"}, "next": {"/follow/"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/follow/", rec.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == tokenCookieName {
			session = c
		}
	}
	require.NotNil(t, session)

	req := httptest.NewRequest(http.MethodGet, "/follow/", nil)
	req.AddCookie(session)
	follow := httptest.NewRecorder()
	app.router.ServeHTTP(follow, req)
	require.Equal(t, http.StatusOK, follow.Code)

	rec = app.do(t, http.MethodPost, "/auth/login/", url.Values{
		"username": {"leo"}, "password": {"long-enough"}, "next": {"//evil.example"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, decode[loginResponse](t, rec).Token)
}

func TestCommentStream(t *testing.T) {
	app := newTestApp(t, WithWSKeepAlive(time.Second))
	author := app.user(t, "leo")
	p := app.post(t, author, "live", nil)

	srv := httptest.NewServer(app.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + fmt.Sprintf("/posts/%d/comments/ws", p.ID)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	_, err = app.comments.AddComment(context.Background(), service.CreateCommentRequest{
		PostID: p.ID, AuthorID: author.ID, Text: "hello live",
	})
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got commentDTO
	require.NoError(t, conn.ReadJSON(&got))
	require.Equal(t, "hello live", got.Text)
	require.Equal(t, p.ID, got.PostID)

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/posts/999/comments/ws", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
