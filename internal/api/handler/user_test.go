package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unknowntpo/threads-nextjs-sub000/config"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/repository"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/service"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/testutil"
)

func setupUserHandler(t *testing.T) (*UserHandler, *testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	cfg := &config.Config{}

	userService := service.NewUserService(userRepo, followRepo, nil, cfg)
	postService := service.NewPostService(
		repository.NewPostRepository(db),
		userRepo,
		repository.NewLikeRepository(db),
		repository.NewCommentRepository(db),
		nil,
		cfg,
	)
	handler := NewUserHandler(userService, postService)

	ctx := &testContext{DB: db}
	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return handler, ctx, cleanup
}

func userRouter(handler *UserHandler, userID string) *gin.Engine {
	router := gin.New()
	router.Use(mockAuth(userID))
	router.GET("/users/:id", handler.GetProfile)
	router.GET("/users/:id/posts", handler.ListPosts)
	router.PUT("/user/profile", handler.UpdateProfile)
	router.POST("/users/:id/follow", handler.Follow)
	router.DELETE("/users/:id/follow", handler.Unfollow)
	return router
}

func TestUserHandler_GetProfile(t *testing.T) {
	handler, ctx, cleanup := setupUserHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB, testutil.WithUsername("profileuser"))
	viewer := testutil.TestUser(t, ctx.DB)
	router := userRouter(handler, viewer.ID)

	t.Run("found", func(t *testing.T) {
		w := doRequest(router, "GET", "/users/"+user.ID, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		assert.Equal(t, "profileuser", body["username"])
	})

	t.Run("not found", func(t *testing.T) {
		w := doRequest(router, "GET", "/users/no-such-user", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserHandler_ListPosts(t *testing.T) {
	handler, ctx, cleanup := setupUserHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB)
	testutil.TestPost(t, ctx.DB, user.ID)
	testutil.TestPost(t, ctx.DB, user.ID)

	router := userRouter(handler, user.ID)

	w := doRequest(router, "GET", "/users/"+user.ID+"/posts", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["total"])
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	handler, ctx, cleanup := setupUserHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB)
	router := userRouter(handler, user.ID)

	w := doRequest(router, "PUT", "/user/profile", jsonBody(t, gin.H{
		"display_name": "Renamed",
		"bio":          "new bio",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Renamed", body["display_name"])
	assert.Equal(t, "new bio", body["bio"])
}

func TestUserHandler_FollowUnfollow(t *testing.T) {
	handler, ctx, cleanup := setupUserHandler(t)
	defer cleanup()

	follower := testutil.TestUser(t, ctx.DB)
	target := testutil.TestUser(t, ctx.DB)
	router := userRouter(handler, follower.ID)

	t.Run("follow", func(t *testing.T) {
		w := doRequest(router, "POST", "/users/"+target.ID+"/follow", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		assert.Equal(t, true, body["following"])
		assert.Equal(t, float64(1), body["follower_count"])
	})

	t.Run("self follow", func(t *testing.T) {
		w := doRequest(router, "POST", "/users/"+follower.ID+"/follow", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate follow", func(t *testing.T) {
		w := doRequest(router, "POST", "/users/"+target.ID+"/follow", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unfollow", func(t *testing.T) {
		w := doRequest(router, "DELETE", "/users/"+target.ID+"/follow", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		assert.Equal(t, false, body["following"])
	})
}
