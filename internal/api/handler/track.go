package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/api/middleware"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model/dto"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/response"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/service"
)

type TrackHandler struct {
	trackingService *service.TrackingService
}

func NewTrackHandler(trackingService *service.TrackingService) *TrackHandler {
	return &TrackHandler{
		trackingService: trackingService,
	}
}

// Track ingests interactions. The body is either a single
// `{post_id, interaction_type, metadata?}` object or a batch wrapped in
// `{"interactions": [...]}`.
// POST /api/v1/track
func (h *TrackHandler) Track(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "failed to read request body")
		return
	}

	// Probe for the batch wrapper before committing to a shape.
	var probe struct {
		Interactions json.RawMessage `json:"interactions"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}

	var resp *dto.TrackResponse
	if probe.Interactions != nil {
		var req dto.BatchTrackRequest
		if err := json.Unmarshal(body, &req); err != nil {
			response.BadRequest(c, "invalid JSON body")
			return
		}
		resp, err = h.trackingService.TrackBatch(userID, req.Interactions)
	} else {
		var entry dto.TrackEntry
		if err := json.Unmarshal(body, &entry); err != nil {
			response.BadRequest(c, "invalid JSON body")
			return
		}
		resp, err = h.trackingService.TrackOne(userID, entry)
	}

	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"errors":  verr.Messages,
			})
			return
		}
		response.ServerError(c, "")
		return
	}

	response.OK(c, resp)
}
