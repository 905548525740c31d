package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/wizardry/internal/common"
	"github.com/dmitrijs2005/wizardry/internal/server/models"
	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func userSummary(u *models.User, token string) gin.H {
	return gin.H{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"token":    token,
	}
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := s.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.fail(c, err, "Server error")
		return
	}

	respondData(c, http.StatusCreated, userSummary(user, token))
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := s.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err, "Server error")
		return
	}

	respondData(c, http.StatusOK, userSummary(user, token))
}

func (s *Server) authorName(c *gin.Context) {
	name, err := s.users.AuthorName(c.Request.Context(), c.Param("userId"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		s.fail(c, err, "Failed to retrieve author")
		return
	}

	respondData(c, http.StatusOK, gin.H{"name": name})
}
