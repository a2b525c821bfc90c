package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/model/dto"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/response"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates an account.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists), errors.Is(err, service.ErrUsernameExists):
			response.Conflict(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Created(c, resp)
}

// Login exchanges credentials for a token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.OK(c, resp)
}

// ForgotPassword mails a reset code. Always 200 so the endpoint cannot
// be used to probe which emails are registered.
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		response.ServerError(c, "")
		return
	}

	response.OK(c, gin.H{"message": "if the account exists, a reset code has been sent"})
}

// ResetPassword redeems a reset code.
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.ResetPassword(&req); err != nil {
		if errors.Is(err, service.ErrInvalidResetCode) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.OK(c, gin.H{"message": "password updated"})
}

// GithubLogin redirects to GitHub's consent page.
// GET /api/v1/auth/github
func (h *AuthHandler) GithubLogin(c *gin.Context) {
	redirectURI := c.Query("redirect_uri")

	authURL, err := h.authService.GithubAuthURL(c.Request.Context(), redirectURI)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GithubCallback finishes the OAuth flow and issues a session token.
// GET /api/v1/auth/github/callback
func (h *AuthHandler) GithubCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		response.BadRequest(c, "code and state are required")
		return
	}

	resp, redirectURI, err := h.authService.GithubCallback(c.Request.Context(), code, state)
	if err != nil {
		response.Unauthorized(c, "github authentication failed")
		return
	}

	if redirectURI != "" {
		c.Redirect(http.StatusTemporaryRedirect, redirectURI+"?token="+resp.Token)
		return
	}
	response.OK(c, resp)
}
