package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/response"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/service"
)

type HealthHandler struct {
	feedService *service.FeedService
}

func NewHealthHandler(feedService *service.FeedService) *HealthHandler {
	return &HealthHandler{
		feedService: feedService,
	}
}

// Check reports liveness. The recommendation service flag is
// informational; the endpoint itself is always 200 while the process
// serves requests.
// GET /api/v1/healthz
func (h *HealthHandler) Check(c *gin.Context) {
	response.OK(c, gin.H{
		"status":     "ok",
		"ml_service": h.feedService.Healthy(c.Request.Context()),
	})
}
