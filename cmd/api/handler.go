package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"message-notifier/internal/notification"
	"message-notifier/pkg/config"
	"message-notifier/pkg/logging"
)

type Handler struct {
	eventHandler notification.EventHandler
	config       *config.Config
}

func NewHandler(eventHandler notification.EventHandler, cfg *config.Config) *Handler {
	return &Handler{
		eventHandler: eventHandler,
		config:       cfg,
	}
}

// Engine builds the gin router with all routes registered
func (h *Handler) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	SetupRoutes(r, h)
	return r
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down within
// the configured timeout.
func (h *Handler) Start(ctx context.Context, addr string) error {
	log := logging.Component("http")
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), h.config.ShutdownTimeout)
	defer cancel()
	log.Info().Msg("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := logging.Component("http")
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
