package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/wizardry/internal/server/models"
	"github.com/gin-gonic/gin"
)

type uploadURLRequest struct {
	ContentType string `json:"contentType"`
}

func (s *Server) uploadURL(c *gin.Context, caller *models.User) {
	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	up, err := s.media.CreateUploadURL(c.Request.Context(), caller.ID, req.ContentType)
	if err != nil {
		s.fail(c, err, "Failed to create upload url")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"key":       up.Key,
		"url":       up.URL,
		"expiresIn": int(up.ExpiresIn.Seconds()),
	})
}
