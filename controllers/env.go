package controllers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"app/homework/config"
	"app/homework/notify"
)

// Env holds the dependencies shared by all handlers.
type Env struct {
	DB       *gorm.DB
	Cfg      config.Config
	Log      zerolog.Logger
	Notifier *notify.Notifier
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
)

const (
	sessionCookie = "session_token"
	flashCookie   = "flash"
	ctxUserKey    = "current_user"
)

// setFlash stores a one-shot message shown on the next rendered page.
// SetCookie/Cookie handle the value encoding.
func setFlash(c *gin.Context, msg string) {
	c.SetCookie(flashCookie, msg, 30, "/", "", false, true)
}

// takeFlash returns the pending flash message, clearing it.
func takeFlash(c *gin.Context) string {
	msg, err := c.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	return msg
}

// RequestLogger logs one line per request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
