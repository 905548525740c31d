package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Router builds the gin engine with every route and middleware attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()

	// ClientIP keys the rate limiter, so X-Forwarded-For is honoured only
	// from configured proxies.
	if err := r.SetTrustedProxies(s.config.TrustedProxies); err != nil {
		s.logger.Warn(context.Background(), "invalid trusted proxies, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// requestLogger must stay ahead of recovery or panicking requests go unlogged.
	r.Use(
		s.requestLogger(),
		s.recovery(),
		cors(s.config.AllowedOrigins),
		s.rateLimit(),
	)

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Route not found")
	})

	r.GET("/healthz", s.healthz)

	a := r.Group("/auth")
	a.POST("/signup", s.signup)
	a.POST("/login", s.login)
	a.GET("/author/:userId", s.authorName)

	r.POST("/generate", s.protect(s.generate))

	r.POST("/media/upload-url", s.protect(s.uploadURL))

	p := r.Group("/post")
	p.POST("/save", s.protect(s.savePost))
	p.GET("/user", s.protect(s.userPosts))
	p.GET("/all", s.allPosts)
	p.GET("/all/:userId", s.postsByAuthor)
	p.GET("/search", s.searchPosts)
	p.GET("/:id", s.getPost)
	p.PUT("/:id", s.protect(s.updatePost))
	p.DELETE("/:id", s.protect(s.deletePost))

	return r
}
