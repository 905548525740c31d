package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/wizardry/internal/common"
	"github.com/dmitrijs2005/wizardry/internal/server/models"
	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

func respondData(c *gin.Context, code int, data gin.H) {
	c.JSON(code, gin.H{"status": statusSuccess, "data": data})
}

func respondPosts(c *gin.Context, posts []models.Post) {
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  statusSuccess,
		"results": len(posts),
		"data":    gin.H{"posts": posts},
	})
}

// respondError writes the error envelope and stops the handler chain.
// 4xx answers are "fail", 5xx are "error".
func respondError(c *gin.Context, code int, message string) {
	status := statusFail
	if code >= http.StatusInternalServerError {
		status = statusError
	}
	c.AbortWithStatusJSON(code, gin.H{"status": status, "message": message})
}

// errorStatus maps a service error to its HTTP status and client message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, common.ErrInvalidID):
		return http.StatusBadRequest, "Invalid id"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, notAuthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "Not authorized to change this post"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrGeneration):
		return http.StatusInternalServerError, "Failed to generate blog post"
	default:
		return http.StatusInternalServerError, "Server error"
	}
}

func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": ")
	if msg == "" {
		return "Invalid request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// fail answers with the mapped error. Server side failures are logged and
// reported with internalMsg.
func (s *Server) fail(c *gin.Context, err error, internalMsg string) {
	code, msg := errorStatus(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), internalMsg, "path", c.FullPath(), "error", err)
		msg = internalMsg
	}
	respondError(c, code, msg)
}
