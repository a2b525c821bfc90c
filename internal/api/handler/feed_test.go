package handler

import (
	"fmt"
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

func setupFeedHandler(t *testing.T) (*FeedHandler, *testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	// No recommender and no Redis: the service serves the random path
	// and computes stats directly.
	feedService := service.NewFeedService(
		repository.NewPostRepository(db),
		repository.NewUserRepository(db),
		repository.NewInteractionRepository(db),
		nil,
		nil,
		&config.Config{},
	)
	handler := NewFeedHandler(feedService)

	ctx := &testContext{DB: db}
	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return handler, ctx, cleanup
}

func feedRouter(handler *FeedHandler, userID string) *gin.Engine {
	router := gin.New()
	router.Use(mockAuth(userID))
	router.GET("/feeds", handler.GetFeed)
	router.GET("/feeds/stats", handler.GetStats)
	return router
}

func TestFeedHandler_GetFeed(t *testing.T) {
	handler, ctx, cleanup := setupFeedHandler(t)
	defer cleanup()

	viewer := testutil.TestUser(t, ctx.DB)
	author := testutil.TestUser(t, ctx.DB)
	for i := 0; i < 5; i++ {
		testutil.TestPost(t, ctx.DB, author.ID, testutil.WithContent(fmt.Sprintf("post %d", i)))
	}

	router := feedRouter(handler, viewer.ID)

	t.Run("defaults", func(t *testing.T) {
		w := doRequest(router, "GET", "/feeds", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)

		posts, ok := body["posts"].([]interface{})
		require.True(t, ok)
		assert.Len(t, posts, 5)

		meta, ok := body["metadata"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "random", meta["source"])
		assert.Equal(t, float64(50), meta["limit"])
		assert.Equal(t, float64(0), meta["offset"])
	})

	t.Run("windowed", func(t *testing.T) {
		w := doRequest(router, "GET", "/feeds?limit=2&offset=1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		posts, ok := body["posts"].([]interface{})
		require.True(t, ok)
		assert.Len(t, posts, 2)
	})

	t.Run("invalid limit", func(t *testing.T) {
		w := doRequest(router, "GET", "/feeds?limit=101", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		w := doRequest(router, "GET", "/feeds?offset=-1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFeedHandler_GetStats(t *testing.T) {
	handler, ctx, cleanup := setupFeedHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB)
	post := testutil.TestPost(t, ctx.DB, user.ID)
	testutil.TestInteraction(t, ctx.DB, user.ID, post.ID, "view")
	testutil.TestInteraction(t, ctx.DB, user.ID, post.ID, "click")

	router := feedRouter(handler, user.ID)

	w := doRequest(router, "GET", "/feeds/stats", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["total_posts"])
	assert.Equal(t, float64(1), body["total_users"])
	assert.Equal(t, float64(2), body["total_interactions"])
}
