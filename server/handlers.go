package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/adapterkit/adapter"
	apperrors "github.com/kbukum/adapterkit/errors"
	"github.com/kbukum/adapterkit/logger"
	"github.com/kbukum/adapterkit/version"
)

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/metrics", s.handleMetrics)
	s.engine.GET("/adapters", s.handleListAdapters)
	s.engine.GET("/adapters/:name", s.handleGetAdapter)
	s.engine.POST("/adapters/:name/circuit/reset", s.handleCircuitReset)
	s.engine.POST("/adapters/:name/cache/clear", s.handleCacheClear)
	s.engine.GET("/version", s.handleVersion)
}

// handleHealth serves the aggregate health snapshot. A degraded registry
// answers 503 so load balancers and probes see it without parsing the body.
func (s *Server) handleHealth(c *gin.Context) {
	snapshot := s.registry.AllHealth()
	status := http.StatusOK
	if snapshot.OverallHealth != adapter.HealthLabelHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, snapshot)
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.registry.AllMetrics())
}

func (s *Server) handleListAdapters(c *gin.Context) {
	names := s.registry.List()
	c.JSON(http.StatusOK, gin.H{
		"adapters": names,
		"count":    len(names),
	})
}

func (s *Server) handleGetAdapter(c *gin.Context) {
	name := c.Param("name")
	m, ok := s.registry.Get(name)
	if !ok {
		RespondWithError(c, apperrors.NotFound(name))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":    name,
		"health":  m.Health(),
		"metrics": m.Metrics(),
	})
}

func (s *Server) handleCircuitReset(c *gin.Context) {
	name := c.Param("name")
	m, ok := s.registry.Get(name)
	if !ok {
		RespondWithError(c, apperrors.NotFound(name))
		return
	}
	m.ResetCircuitBreaker()
	s.log.Info("circuit breaker reset via admin endpoint", logger.Fields(
		logger.FieldAdapter, name,
	))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCacheClear(c *gin.Context) {
	name := c.Param("name")
	m, ok := s.registry.Get(name)
	if !ok {
		RespondWithError(c, apperrors.NotFound(name))
		return
	}
	m.ClearCache()
	s.log.Info("cache cleared via admin endpoint", logger.Fields(
		logger.FieldAdapter, name,
	))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
