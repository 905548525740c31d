package rest

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/wizardry/internal/common"
	"github.com/dmitrijs2005/wizardry/internal/server/models"
	"github.com/gin-gonic/gin"
)

// notAuthorized is the single answer for every rejected token, so callers
// cannot tell a missing token from an expired or forged one.
const notAuthorized = "Not authorized"

// authedHandler is a handler that needs the authenticated caller.
type authedHandler func(c *gin.Context, caller *models.User)

// protect resolves the bearer token into the caller and passes it to h.
func (s *Server) protect(h authedHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || scheme != common.BearerScheme || strings.TrimSpace(token) == "" {
			respondError(c, http.StatusUnauthorized, notAuthorized)
			return
		}

		caller, err := s.users.Identify(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			s.logger.Warn(c.Request.Context(), "auth failed", "path", c.FullPath(), "error", err)
			s.fail(c, err, "Server error")
			return
		}

		h(c, caller)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}

// recovery turns panics into a 500. The panic value is only shown to the
// client in development.
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.Error(c.Request.Context(), "panic recovered", "path", c.Request.URL.Path, "panic", recovered)

		msg := "Server error"
		if s.config.IsDevelopment() {
			msg = fmt.Sprint(recovered)
		}
		respondError(c, http.StatusInternalServerError, msg)
	})
}

// cors allows the configured origins; "*" allows any.
func cors(allowed []string) gin.HandlerFunc {
	allowAll := false
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
		set[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			_, ok := set[strings.TrimRight(origin, "/")]
			if allowAll || ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Max-Age", "86400")
				h.Add("Vary", "Origin")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := s.limiter.Allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			respondError(c, http.StatusTooManyRequests, "Too many requests, please try again later.")
			return
		}
		c.Next()
	}
}
