package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bastiangx/wordgraph/pkg/config"
	"github.com/bastiangx/wordgraph/pkg/engine"
	"github.com/bastiangx/wordgraph/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 5 * time.Second

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// CompleteReply is the body answering GET /complete.
type CompleteReply struct {
	Prefix      string               `json:"prefix"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
	Count       int                  `json:"count"`
	TimeTaken   int64                `json:"time_us"`
}

// HTTPServer serves the engine over HTTP.
type HTTPServer struct {
	*frontend
	limiter *rate.Limiter
	router  *gin.Engine
}

// NewHTTPServer builds the router. metrics may be nil, in which case
// /metrics is not served.
func NewHTTPServer(eng engine.TextEngine, cfg *config.Config, metrics *Metrics, logger *log.Logger) *HTTPServer {
	s := &HTTPServer{frontend: newFrontend(eng, cfg, metrics, logger)}
	settings := s.settings()
	s.limiter = rate.NewLimiter(limitFor(settings.Server.RateLimit), settings.Server.Burst)
	s.router = s.setupRouter()
	return s
}

func (s *HTTPServer) setupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(RecoveryMiddleware(s.logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(s.logger, s.metrics))
	router.Use(RateLimitMiddleware(s.limiter))

	router.POST("/chat", s.handleChat)
	router.GET("/complete", s.handleComplete)
	router.GET("/stats", s.handleStats)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	return router
}

// Handler returns the router.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// UpdateConfig applies a reloaded config: limits, rate budget and the
// engine's top word count. The listen address only changes on restart.
func (s *HTTPServer) UpdateConfig(cfg *config.Config) {
	s.applyConfig(cfg)
	s.limiter.SetLimit(limitFor(cfg.Server.RateLimit))
	s.limiter.SetBurst(cfg.Server.Burst)
	s.logger.Info("Server config updated", "rate_limit", cfg.Server.RateLimit, "burst", cfg.Server.Burst)
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *HTTPServer) ListenAndServe(ctx context.Context) error {
	addr := s.settings().Server.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *HTTPServer) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Bad chat body", "error", err)
		abortWithError(c, fmt.Errorf("%w: body must be JSON with a message field", ErrInvalidRequest))
		return
	}

	reply, err := s.chat(req.Message)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, FormatReply(reply, s.settings().CLI.Placeholder))
}

func (s *HTTPServer) handleComplete(c *gin.Context) {
	prefix := c.Query("prefix")
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, fmt.Errorf("%w: limit must be an integer", ErrInvalidRequest))
			return
		}
		limit = n
	}

	start := time.Now()
	suggestions, err := s.complete(prefix, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, CompleteReply{
		Prefix:      prefix,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

func (s *HTTPServer) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Stats())
}
