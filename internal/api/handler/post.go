package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/api/middleware"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model/dto"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/response"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/service"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// Create publishes a new post.
// POST /api/v1/posts
func (h *PostHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.postService.Create(userID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Created(c, post)
}

// List returns the newest posts across all users.
// GET /api/v1/posts
func (h *PostHandler) List(c *gin.Context) {
	viewerID, _ := middleware.GetUserID(c)

	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	posts, total, err := h.postService.ListRecent(page.Limit, page.Offset, viewerID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.OK(c, gin.H{"posts": posts, "total": total})
}

// Get returns one post with counts and viewer flags.
// GET /api/v1/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	viewerID, _ := middleware.GetUserID(c)

	post, err := h.postService.Get(c.Param("id"), viewerID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.OK(c, post)
}

// Delete removes the caller's own post and everything hanging off it.
// DELETE /api/v1/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.postService.Delete(c.Param("id"), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrNotPostOwner):
			response.Forbidden(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.OK(c, gin.H{"deleted": true})
}

// Like records a like.
// POST /api/v1/posts/:id/like
func (h *PostHandler) Like(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	resp, err := h.postService.Like(userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrAlreadyLiked):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.OK(c, resp)
}

// Unlike removes a like.
// DELETE /api/v1/posts/:id/like
func (h *PostHandler) Unlike(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	resp, err := h.postService.Unlike(userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotLiked) {
			response.NotFound(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.OK(c, resp)
}

// Repost shares a post onto the caller's own timeline.
// POST /api/v1/posts/:id/repost
func (h *PostHandler) Repost(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	post, err := h.postService.Repost(userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrAlreadyReposted):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Created(c, &dto.RepostResponse{Post: post})
}

// Unrepost deletes the caller's repost of a post.
// DELETE /api/v1/posts/:id/repost
func (h *PostHandler) Unrepost(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.postService.Unrepost(userID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotReposted) {
			response.NotFound(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.OK(c, gin.H{"success": true})
}

// ListComments returns a post's comments, oldest first.
// GET /api/v1/posts/:id/comments
func (h *PostHandler) ListComments(c *gin.Context) {
	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.postService.ListComments(c.Param("id"), page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.OK(c, resp)
}

// CreateComment adds a comment to a post.
// POST /api/v1/posts/:id/comments
func (h *PostHandler) CreateComment(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.postService.CreateComment(userID, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Created(c, comment)
}

// DeleteComment removes the caller's own comment.
// DELETE /api/v1/posts/:id/comments/:commentID
func (h *PostHandler) DeleteComment(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.postService.DeleteComment(c.Param("commentID"), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrNotPostOwner):
			response.Forbidden(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.OK(c, gin.H{"deleted": true})
}
