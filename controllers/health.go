package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether the database is reachable.
func (e *Env) HealthCheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("X-Content-Type-Options", "nosniff")

	if c.Request.Method != http.MethodGet {
		c.Status(http.StatusMethodNotAllowed)
		return
	}
	if c.Request.ContentLength > 0 {
		c.Status(http.StatusBadRequest)
		return
	}

	sqlDB, err := e.DB.DB()
	if err != nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Status(http.StatusOK)
}
