package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/peerqa/peerqa/internal/middleware"
	"github.com/peerqa/peerqa/internal/ws"
)

// NewRouter builds the gin engine with all routes registered. Health is
// public so load balancers can probe without credentials; everything else
// under /v1 requires a valid token.
func NewRouter(jwtSecret string, rps float64, burst int, hub *ws.Hub, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RateLimit(rps, burst))

	r.GET("/v1/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authHandler := NewAuthHandler(jwtSecret, logger)
	r.POST("/v1/auth/signup", authHandler.Signup)
	r.POST("/v1/auth/login", authHandler.Login)

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthMiddleware(jwtSecret))

	questions := NewQuestionHandler(logger)
	v1.POST("/questions", questions.Create)
	v1.GET("/questions", questions.List)
	v1.GET("/questions/:id", questions.Get)
	v1.DELETE("/questions/:id", questions.Delete)
	v1.PUT("/questions/:id/tags", questions.SetTags)
	v1.PUT("/questions/:id/best-answer", questions.SetBestAnswer)
	v1.POST("/questions/:id/watch", questions.Watch)
	v1.DELETE("/questions/:id/watch", questions.Unwatch)
	v1.POST("/questions/:id/lock", questions.Lock)
	v1.DELETE("/questions/:id/lock", questions.Unlock)

	answers := NewAnswerHandler(logger)
	v1.POST("/questions/:id/answers", answers.Create)
	v1.DELETE("/questions/:id/answers/:answerID", answers.Delete)
	v1.POST("/questions/:id/comments", answers.CommentQuestion)
	v1.POST("/questions/:id/answers/:answerID/comments", answers.CommentAnswer)
	v1.POST("/questions/:id/vote", answers.VoteQuestion)
	v1.DELETE("/questions/:id/vote", answers.UnvoteQuestion)
	v1.POST("/questions/:id/answers/:answerID/vote", answers.VoteAnswer)
	v1.DELETE("/questions/:id/answers/:answerID/vote", answers.UnvoteAnswer)
	v1.POST("/questions/:id/comments/:commentID/like", answers.LikeComment)
	v1.DELETE("/questions/:id/comments/:commentID/like", answers.UnlikeComment)

	users := NewUserHandler(logger)
	v1.GET("/users/me", users.Me)
	v1.PUT("/users/me", users.UpdateProfile)
	v1.POST("/users/me/anonymize", users.Anonymize)
	v1.GET("/users/me/notifications", users.Notifications)
	v1.PUT("/users/me/notifications/:id/read", users.ReadNotification)
	v1.DELETE("/users/me/notifications/:id", users.DeleteNotification)
	v1.GET("/users", users.List)
	v1.DELETE("/users/:name", users.Delete)
	v1.POST("/admin/clear", users.Clear)

	search := NewSearchHandler(logger)
	v1.GET("/search", search.Search)

	v1.GET("/ws", func(c *gin.Context) {
		hub.Serve(c, middleware.GetUsername(c))
	})

	return r
}
