package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/api/middleware"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model/dto"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/response"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/service"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Search matches posts by content and users by name.
// GET /api/v1/search?q=&filter=&limit=&offset=
func (h *SearchHandler) Search(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.searchService.Search(&req, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyQuery), errors.Is(err, service.ErrInvalidFilter),
			errors.Is(err, service.ErrInvalidLimit), errors.Is(err, service.ErrInvalidOffset):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.OK(c, resp)
}
