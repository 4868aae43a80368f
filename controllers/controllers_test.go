package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"app/homework/config"
	"app/homework/models"
)

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection, or each pooled connection would get its own
	// in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Assignment{}, &models.HomeworkStatus{}, &models.Session{}))

	return &Env{
		DB:  db,
		Cfg: config.Config{SessionTTL: time.Hour},
		Log: zerolog.Nop(),
	}
}

func newTestRouter(e *Env) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.LoadHTMLGlob("../templates/*.tmpl")

	router.GET("/", e.LoginPage)
	router.POST("/", e.Login)

	authed := router.Group("/", e.RequireLogin())
	authed.GET("/logout", e.Logout)
	authed.GET("/dashboard", e.Dashboard)
	authed.GET("/update_status/:assignment_id/:status", e.UpdateStatus)
	authed.GET("/leaderboard", e.Leaderboard)

	admin := authed.Group("/assignments", e.RequireAdmin())
	admin.GET("", e.AssignmentsPage)
	admin.POST("", e.CreateAssignmentHandler)

	return router
}

func createTestUser(t *testing.T, db *gorm.DB, username, password string, role models.Role) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Username: username, Password: string(hashed), Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func postForm(router *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// loginAs performs the login POST and returns the session cookie.
func loginAs(t *testing.T, router *gin.Engine, username, password string) *http.Cookie {
	t.Helper()
	w := postForm(router, "/", url.Values{"username": {username}, "password": {password}})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))
	for _, ck := range w.Result().Cookies() {
		if ck.Name == sessionCookie && ck.Value != "" {
			return ck
		}
	}
	t.Fatal("no session cookie set")
	return nil
}
