package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/api/middleware"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model/dto"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/response"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/service"
)

type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// GetFeed assembles the viewer's personalized feed. `exclude` is an
// optional comma-separated list of post IDs to keep out of the
// recommendation request.
// GET /api/v1/feeds?limit=&offset=&exclude=
func (h *FeedHandler) GetFeed(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.FeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var excludeIDs []string
	if raw := c.Query("exclude"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				excludeIDs = append(excludeIDs, id)
			}
		}
	}

	feed, err := h.feedService.GetFeed(c.Request.Context(), userID, req.Limit, req.Offset, excludeIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidLimit), errors.Is(err, service.ErrInvalidOffset):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.OK(c, feed)
}

// GetStats returns feed-level totals for the viewer.
// GET /api/v1/feeds/stats
func (h *FeedHandler) GetStats(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	stats, err := h.feedService.Stats(c.Request.Context(), userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.OK(c, stats)
}
