package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// OK writes data with a 200 status.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created writes data with a 201 status.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error writes an error body with the given status.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Error: message})
}

// BadRequest reports a malformed or invalid request.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "invalid request"
	}
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "unauthorized"
	}
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden reports an action the caller may not perform.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "forbidden"
	}
	Error(c, http.StatusForbidden, message)
}

// NotFound reports a missing resource.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "not found"
	}
	Error(c, http.StatusNotFound, message)
}

// Conflict reports a state conflict, e.g. a duplicate action.
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "conflict"
	}
	Error(c, http.StatusConflict, message)
}

// ServerError reports an internal failure without leaking details.
func ServerError(c *gin.Context, message string) {
	if message == "" {
		message = "internal server error"
	}
	Error(c, http.StatusInternalServerError, message)
}
