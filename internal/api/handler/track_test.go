package handler

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/unknowntpo/threads-nextjs-sub000/config"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/repository"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/service"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/testutil"
)

func setupTrackHandler(t *testing.T) (*TrackHandler, *service.TrackingService, *testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	interactionRepo := repository.NewInteractionRepository(db)

	trackingService := service.NewTrackingService(interactionRepo, &config.Config{})
	handler := NewTrackHandler(trackingService)

	ctx := &testContext{DB: db}
	cleanup := func() {
		trackingService.Close()
		testutil.CleanupTestDB(t, db)
	}
	return handler, trackingService, ctx, cleanup
}

func trackRouter(handler *TrackHandler, userID string) *gin.Engine {
	router := gin.New()
	router.Use(mockAuth(userID))
	router.POST("/track", handler.Track)
	return router
}

func countInteractions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Interaction{}).Count(&n).Error)
	return n
}

func TestTrackHandler_Batch(t *testing.T) {
	handler, _, ctx, cleanup := setupTrackHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB)
	post := testutil.TestPost(t, ctx.DB, user.ID)
	router := trackRouter(handler, user.ID)

	t.Run("all valid", func(t *testing.T) {
		w := doRequest(router, "POST", "/track", jsonBody(t, gin.H{
			"interactions": []gin.H{
				{"post_id": post.ID, "interaction_type": "view"},
				{"post_id": post.ID, "interaction_type": "click", "metadata": gin.H{"position": 3}},
			},
		}))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(2), body["tracked"])
		assert.Equal(t, int64(2), countInteractions(t, ctx.DB))
	})

	t.Run("partially valid keeps the good rows", func(t *testing.T) {
		before := countInteractions(t, ctx.DB)

		w := doRequest(router, "POST", "/track", jsonBody(t, gin.H{
			"interactions": []gin.H{
				{"post_id": post.ID, "interaction_type": "share"},
				{"post_id": "", "interaction_type": "view"},
				{"post_id": post.ID, "interaction_type": "poke"},
			},
		}))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(1), body["tracked"])

		errs, ok := body["errors"].([]interface{})
		require.True(t, ok)
		require.Len(t, errs, 2)
		assert.Equal(t, "[1] post_id is required and must be a string", errs[0])
		assert.Equal(t, "[2] interaction_type must be one of: view, click, like, share", errs[1])

		assert.Equal(t, before+1, countInteractions(t, ctx.DB))
	})

	t.Run("all invalid writes nothing", func(t *testing.T) {
		before := countInteractions(t, ctx.DB)

		w := doRequest(router, "POST", "/track", jsonBody(t, gin.H{
			"interactions": []gin.H{
				{"post_id": 42, "interaction_type": "view"},
				{"post_id": post.ID, "interaction_type": "hover"},
			},
		}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, false, body["success"])

		errs, ok := body["errors"].([]interface{})
		require.True(t, ok)
		assert.Len(t, errs, 2)

		assert.Equal(t, before, countInteractions(t, ctx.DB))
	})
}

func TestTrackHandler_SingleEntry(t *testing.T) {
	handler, trackingService, ctx, cleanup := setupTrackHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB)
	post := testutil.TestPost(t, ctx.DB, user.ID)
	router := trackRouter(handler, user.ID)

	w := doRequest(router, "POST", "/track", jsonBody(t, gin.H{
		"post_id":          post.ID,
		"interaction_type": "like",
	}))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["tracked"])

	// Single entries go through the write-behind buffer.
	trackingService.Flush()
	assert.Equal(t, int64(1), countInteractions(t, ctx.DB))
}

func TestTrackHandler_MalformedJSON(t *testing.T) {
	handler, _, ctx, cleanup := setupTrackHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB)
	router := trackRouter(handler, user.ID)

	w := doRequest(router, "POST", "/track", bytes.NewReader([]byte("{not json")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["error"])
}
