package handler

import (
	"net/http"

	"github.com/BloggingApp/posts-service/internal/config"
	"github.com/BloggingApp/posts-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const greeting = "Hello from Posts API"

type Handler struct {
	logger   *zap.Logger
	services *service.Service
	limiter  *IPRateLimiter
}

func New(logger *zap.Logger, services *service.Service, rateLimit config.RateLimitConfig) *Handler {
	return &Handler{
		logger:   logger,
		services: services,
		limiter:  NewIPRateLimiter(rate.Limit(rateLimit.RPS), rateLimit.Burst),
	}
}

func (h *Handler) InitRoutes(clientOrigin string) *gin.Engine {
	r := gin.New()

	r.Use(requestLogger(h.logger), gin.Recovery(), securityHeaders())
	r.Use(cors.New(corsConfig(clientOrigin)))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, greeting)
	})

	posts := r.Group("/posts")
	{
		posts.GET("", h.postsGet)
		posts.POST("", h.authMiddleware, h.postsCreate)

		post := posts.Group("/:postID")
		{
			post.GET("", h.postsGetByID)
			post.PUT("", h.authMiddleware, h.postsUpdate)
			post.DELETE("", h.authMiddleware, h.postsDelete)
			post.PUT("/likePost", h.authMiddleware, h.postsLike)
		}
	}

	users := r.Group("/users")
	{
		users.POST("/register", rateLimit(h.limiter), h.usersRegister)
		users.POST("/login", rateLimit(h.limiter), h.usersLogin)
		users.POST("/tokenIsValid", h.usersTokenIsValid)
		users.GET("/getUser", h.authMiddleware, h.usersGet)
		users.POST("/logout", h.authMiddleware, h.usersLogout)
		users.DELETE("/delete", h.authMiddleware, h.usersDelete)
	}

	return r
}

func corsConfig(clientOrigin string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", authTokenHeader},
	}

	if clientOrigin == "" || clientOrigin == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{clientOrigin}
		cfg.AllowCredentials = true
	}

	return cfg
}
