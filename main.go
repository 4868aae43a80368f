package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"app/homework/config"
	"app/homework/controllers"
	"app/homework/models"
	"app/homework/notify"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	log.Info().Str("db", cfg.DBName).Msg("connected to MySQL")

	if err := db.AutoMigrate(&models.User{}, &models.Assignment{}, &models.HomeworkStatus{}, &models.Session{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}

	if err := seedUsers(db, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to seed accounts")
	}

	var notifier *notify.Notifier
	if cfg.SNSTopicARN != "" {
		notifier, err = notify.New(context.Background(), cfg.AWSRegion, cfg.SNSTopicARN)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure SNS")
		}
		log.Info().Str("topic", cfg.SNSTopicARN).Msg("assignment notifications enabled")
	}

	env := &controllers.Env{DB: db, Cfg: cfg, Log: log, Notifier: notifier}

	router := gin.New()
	router.Use(gin.Recovery(), controllers.RequestLogger(log))
	router.LoadHTMLGlob("templates/*.tmpl")
	registerRoutes(router, env)

	log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// openDatabase connects to the server first so the database can be created
// on first boot, then reconnects with the database selected.
func openDatabase(cfg config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.ServerDSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if _, err := sqlDB.Exec("CREATE DATABASE IF NOT EXISTS " + cfg.DBName); err != nil {
		sqlDB.Close()
		return nil, err
	}
	sqlDB.Close()

	return gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
}

func registerRoutes(router *gin.Engine, env *controllers.Env) {
	router.Any("/healthz", env.HealthCheck)

	router.GET("/", env.LoginPage)
	router.POST("/", env.Login)

	authed := router.Group("/", env.RequireLogin())
	authed.GET("/logout", env.Logout)
	authed.GET("/dashboard", env.Dashboard)
	authed.GET("/update_status/:assignment_id/:status", env.UpdateStatus)
	authed.GET("/leaderboard", env.Leaderboard)

	admin := authed.Group("/assignments", env.RequireAdmin())
	admin.GET("", env.AssignmentsPage)
	admin.POST("", env.CreateAssignmentHandler)
}

// seedUsers creates the demo accounts on first boot. Passwords come from the
// configuration and are stored hashed.
func seedUsers(db *gorm.DB, cfg config.Config) error {
	seeds := []struct {
		username string
		password string
		role     models.Role
	}{
		{"admin", cfg.SeedAdminPassword, models.RoleAdmin},
		{"student", cfg.SeedStudentPassword, models.RoleStudent},
	}
	for _, s := range seeds {
		var existing models.User
		if db.First(&existing, "username = ?", s.username).Error == nil {
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := models.User{Username: s.username, Password: string(hashed), Role: s.role}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}
