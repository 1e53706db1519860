package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/storage"
)

// Server provides the HTTP handlers of the task tracker.
type Server struct {
	engine    *gin.Engine
	pool      storage.Pool
	logger    *slog.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured. The pool is shared by
// every handler; the server never closes it.
func New(pool storage.Pool, logger *slog.Logger, staticDir string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(logger, "/api"))

	srv := &Server{
		engine:    router,
		pool:      pool,
		logger:    logger,
		staticDir: staticDir,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		tasks := api.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.GET(":id", s.handleGetTask)
			tasks.PUT(":id", s.handleUpdateTask)
			tasks.DELETE(":id", s.handleDeleteTask)
		}
	}

	s.mountStatic()
}

// handleHealth reports ready when a pooled connection can be checked out.
func (s *Server) handleHealth(c *gin.Context) {
	conn, err := s.pool.Acquire(c.Request.Context())
	if err != nil {
		s.logger.Warn("health check failed", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	conn.Release()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// acquire checks out a connection for the current request. On failure the 500 response has
// already been written.
func (s *Server) acquire(c *gin.Context) (storage.Conn, bool) {
	conn, err := s.pool.Acquire(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "Failed to get DB connection", err)
		return nil, false
	}
	return conn, true
}

// storeContext detaches store calls from client disconnects; a started operation runs to
// completion and its result is dropped if nobody is listening.
func storeContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// parseID converts the id path parameter with error handling.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid task id")
		return 0, false
	}
	return id, true
}

// respondError logs the error and writes a plain-text message.
func (s *Server) respondError(c *gin.Context, status int, msg string, err error) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(c.Request.Context(), level, "request failed",
		slog.String("path", c.FullPath()),
		slog.String("request_id", c.GetString(requestIDKey)),
		slog.String("error", msg),
	)
	c.String(status, msg)
}

// respondSuccess writes payload as JSON, or just the status when there is none.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
