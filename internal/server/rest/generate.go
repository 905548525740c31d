package rest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/wizardry/internal/server/generation"
	"github.com/dmitrijs2005/wizardry/internal/server/models"
	"github.com/gin-gonic/gin"
)

// keywordList accepts either a JSON array of strings or a single
// comma separated string.
type keywordList []string

func (k *keywordList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*k = trimAll(list)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*k = trimAll(strings.Split(s, ","))
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

type generateRequest struct {
	Topic    string      `json:"topic"`
	Style    string      `json:"style"`
	Keywords keywordList `json:"keywords"`
	Language string      `json:"language"`
}

func (s *Server) generate(c *gin.Context, caller *models.User) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	draft, err := s.generator.Generate(c.Request.Context(), generation.Request{
		Topic:    req.Topic,
		Style:    req.Style,
		Keywords: req.Keywords,
		Language: req.Language,
	})
	if err != nil {
		s.fail(c, err, "Failed to generate blog post")
		return
	}

	s.logger.Debug(c.Request.Context(), "post generated", "user", caller.ID, "title", draft.Title)

	respondData(c, http.StatusOK, gin.H{
		"title":   draft.Title,
		"excerpt": draft.Excerpt,
		"content": draft.Content,
	})
}
