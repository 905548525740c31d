package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/wizardry/internal/common"
	"github.com/dmitrijs2005/wizardry/internal/server/models"
	"github.com/dmitrijs2005/wizardry/internal/server/services"
	"github.com/gin-gonic/gin"
)

type savePostRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Excerpt    string `json:"excerpt"`
	Author     string `json:"author"`
	Status     string `json:"status"`
	CoverImage string `json:"coverImage"`
}

func (s *Server) savePost(c *gin.Context, caller *models.User) {
	var req savePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := s.posts.Save(c.Request.Context(), caller, services.SaveInput{
		Title:      req.Title,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		Author:     req.Author,
		Status:     req.Status,
		CoverImage: req.CoverImage,
	})
	if err != nil {
		s.fail(c, err, "Failed to save blog post")
		return
	}

	respondData(c, http.StatusCreated, gin.H{"post": post})
}

func (s *Server) userPosts(c *gin.Context, caller *models.User) {
	posts, err := s.posts.ListMine(c.Request.Context(), caller)
	if err != nil {
		s.fail(c, err, "Failed to retrieve posts")
		return
	}
	respondPosts(c, posts)
}

func (s *Server) allPosts(c *gin.Context) {
	posts, err := s.posts.ListAll(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Failed to retrieve posts")
		return
	}
	respondPosts(c, posts)
}

func (s *Server) postsByAuthor(c *gin.Context) {
	posts, err := s.posts.ListByAuthor(c.Request.Context(), c.Param("userId"))
	if err != nil {
		s.fail(c, err, "Failed to retrieve posts")
		return
	}
	respondPosts(c, posts)
}

func (s *Server) searchPosts(c *gin.Context) {
	posts, err := s.posts.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		s.fail(c, err, "Failed to search posts")
		return
	}
	respondPosts(c, posts)
}

func (s *Server) getPost(c *gin.Context) {
	post, err := s.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(c, http.StatusNotFound, "Post not found")
			return
		}
		s.fail(c, err, "Failed to retrieve post")
		return
	}

	respondData(c, http.StatusOK, gin.H{"post": post})
}

func (s *Server) updatePost(c *gin.Context, caller *models.User) {
	var patch models.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := s.posts.Update(c.Request.Context(), caller, c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(c, http.StatusNotFound, "Post not found")
			return
		}
		s.fail(c, err, "Failed to update post")
		return
	}

	respondData(c, http.StatusOK, gin.H{"post": post})
}

func (s *Server) deletePost(c *gin.Context, caller *models.User) {
	if err := s.posts.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		s.fail(c, err, "Failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  statusSuccess,
		"message": "Post deleted successfully",
	})
}
