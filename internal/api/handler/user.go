package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/api/middleware"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model/dto"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/response"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/service"
)

const maxAvatarBytes = 5 << 20 // 5 MiB

type UserHandler struct {
	userService *service.UserService
	postService *service.PostService
}

func NewUserHandler(userService *service.UserService, postService *service.PostService) *UserHandler {
	return &UserHandler{
		userService: userService,
		postService: postService,
	}
}

// GetProfile returns a user's public profile.
// GET /api/v1/users/:id
func (h *UserHandler) GetProfile(c *gin.Context) {
	viewerID, _ := middleware.GetUserID(c)

	info, err := h.userService.GetProfile(c.Param("id"), viewerID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.OK(c, info)
}

// ListPosts returns a user's posts, newest first.
// GET /api/v1/users/:id/posts
func (h *UserHandler) ListPosts(c *gin.Context) {
	viewerID, _ := middleware.GetUserID(c)

	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	posts, total, err := h.postService.ListByUser(c.Param("id"), page.Limit, page.Offset, viewerID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.OK(c, gin.H{"posts": posts, "total": total})
}

// UpdateProfile edits display name and bio.
// PUT /api/v1/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	info, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.OK(c, info)
}

// UploadAvatar stores a new avatar image.
// POST /api/v1/user/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		response.BadRequest(c, "avatar file is required")
		return
	}
	if fileHeader.Size > maxAvatarBytes {
		response.BadRequest(c, "avatar must be at most 5MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	url, err := h.userService.UploadAvatar(userID, fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, service.ErrBadAvatarFormat) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.OK(c, &dto.AvatarResponse{AvatarURL: url})
}

// Follow adds a follow edge to the target user.
// POST /api/v1/users/:id/follow
func (h *UserHandler) Follow(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	resp, err := h.userService.Follow(userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow), errors.Is(err, service.ErrAlreadyFollowing):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.OK(c, resp)
}

// Unfollow removes a follow edge.
// DELETE /api/v1/users/:id/follow
func (h *UserHandler) Unfollow(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	resp, err := h.userService.Unfollow(userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFollowing) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.OK(c, resp)
}
