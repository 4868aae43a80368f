package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"app/homework/models"
)

// Authenticate verifies a username/password pair against the stored bcrypt
// hash. Unknown username and wrong password both return
// ErrInvalidCredentials so callers cannot enumerate accounts.
func Authenticate(db *gorm.DB, username, password string) (models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// CreateSession stores a new session row bound to the user.
func CreateSession(db *gorm.DB, user models.User, ttl time.Duration) (models.Session, error) {
	sess := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := db.Create(&sess).Error; err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

// UserFromSession resolves a session token to its user. Expired sessions are
// deleted on sight.
func UserFromSession(db *gorm.DB, token string) (models.User, error) {
	var sess models.Session
	if err := db.First(&sess, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUnauthenticated
		}
		return models.User{}, err
	}
	if time.Now().After(sess.ExpiresAt) {
		db.Delete(&sess)
		return models.User{}, ErrUnauthenticated
	}
	var user models.User
	if err := db.First(&user, sess.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUnauthenticated
		}
		return models.User{}, err
	}
	return user, nil
}

// CurrentUser returns the user placed in the context by RequireLogin.
func CurrentUser(c *gin.Context) models.User {
	v, _ := c.Get(ctxUserKey)
	user, _ := v.(models.User)
	return user
}

// RequireLogin resolves the session cookie and aborts with a redirect to the
// login page when no valid session exists.
func (e *Env) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		user, err := UserFromSession(e.DB, token)
		if err != nil {
			if errors.Is(err, ErrUnauthenticated) {
				c.Redirect(http.StatusFound, "/")
			} else {
				e.Log.Error().Err(err).Msg("session lookup failed")
				c.String(http.StatusInternalServerError, "internal error")
			}
			c.Abort()
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// RequireAdmin redirects non-admin users to the dashboard. Must run after
// RequireLogin.
func (e *Env) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c).Role != models.RoleAdmin {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginPage renders the login form. Already-authenticated users go straight
// to the dashboard.
func (e *Env) LoginPage(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		if _, err := UserFromSession(e.DB, token); err == nil {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
	}
	c.HTML(http.StatusOK, "login.tmpl", gin.H{"Flash": takeFlash(c)})
}

// Login attempts to authenticate the submitted form and establish a session.
func (e *Env) Login(c *gin.Context) {
	var form models.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		setFlash(c, "Invalid credentials")
		c.Redirect(http.StatusFound, "/")
		return
	}

	user, err := Authenticate(e.DB, form.Username, form.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			setFlash(c, "Invalid credentials")
			c.Redirect(http.StatusFound, "/")
			return
		}
		e.Log.Error().Err(err).Msg("login failed")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	sess, err := CreateSession(e.DB, user, e.Cfg.SessionTTL)
	if err != nil {
		e.Log.Error().Err(err).Msg("failed to create session")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	c.SetCookie(sessionCookie, sess.Token, int(e.Cfg.SessionTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout destroys the current session unconditionally.
func (e *Env) Logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		if err := e.DB.Delete(&models.Session{}, "token = ?", token).Error; err != nil {
			e.Log.Error().Err(err).Msg("failed to delete session")
		}
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}
