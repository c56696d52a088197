package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"message-notifier/pkg/metrics"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	r.GET("/metrics", gin.WrapH(metrics.PromHandler()))

	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Message-created events pushed by Eventarc or a Pub/Sub push subscription
		events := api.Group("/events")
		{
			events.POST("/messages", h.MessageCreated)
		}
	}
}
