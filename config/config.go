package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the application needs at startup. It is built
// once in main and never mutated afterwards.
type Config struct {
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	ListenAddr string
	SessionTTL time.Duration

	SeedAdminPassword   string
	SeedStudentPassword string

	// SNS publishing is enabled only when a topic ARN is configured.
	SNSTopicARN string
	AWSRegion   string
}

// Load reads the configuration from the environment, after loading a .env
// file when one is present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBHost:              getenv("DB_HOST", "localhost"),
		DBPort:              getenv("DB_PORT", "3306"),
		DBName:              getenv("DB_NAME", "homework"),
		ListenAddr:          getenv("LISTEN_ADDR", ":8080"),
		SeedAdminPassword:   getenv("SEED_ADMIN_PASSWORD", "adminpass"),
		SeedStudentPassword: getenv("SEED_STUDENT_PASSWORD", "studentpass"),
		SNSTopicARN:         os.Getenv("SNS_TOPIC_ARN"),
		AWSRegion:           getenv("AWS_REGION", "us-east-1"),
	}

	ttl := getenv("SESSION_TTL", "24h")
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return Config{}, fmt.Errorf("invalid SESSION_TTL %q: %w", ttl, err)
	}
	cfg.SessionTTL = d

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DBUser == "" {
		return errors.New("DB_USER is required")
	}
	if c.DBName == "" {
		return errors.New("DB_NAME is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.SeedAdminPassword == "" || c.SeedStudentPassword == "" {
		return errors.New("seed account passwords must not be empty")
	}
	return nil
}

// ServerDSN connects to the MySQL server without selecting a database, so
// the database can be created on first boot.
func (c Config) ServerDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/?parseTime=true&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort)
}

func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
