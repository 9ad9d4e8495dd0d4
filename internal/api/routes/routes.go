package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/preplab/interviewd/internal/api/handlers"
)

type Deps struct {
	Interview *handlers.InterviewHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api/mock-interview")

	api.POST("/start-interview", d.Interview.Start)
	api.POST("/interact", d.Interview.Interact)
	api.POST("/next-question", d.Interview.NextQuestion)
	api.POST("/end-interview", d.Interview.End)

	api.GET("/session/:session_id", d.Interview.Get)
	api.DELETE("/session/:session_id", d.Interview.Delete)
}
