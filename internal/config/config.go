package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Cfg *AppConfig

// AppConfig holds all environment variables.
type AppConfig struct {
	Port            string
	DBHost          string
	DBPort          string
	DBUser          string
	DBName          string
	DBPassword      string
	DBSSLMode       string
	JWTSecret       string
	FrontendURL     string
	DefaultParanoia int    // paranoia level used when requests omit one, 0..10
	AdminUsername   string // bootstrap admin account, created at boot if absent
	AdminPassword   string
	BeaconURL       string // optional external randomness beacon, stirred in uncredited
}

// Load reads environment variables (and .env if present)
func Load() *AppConfig {
	_ = godotenv.Load()

	Cfg = &AppConfig{
		Port:          os.Getenv("PORT"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBUser:        os.Getenv("DB_USER"),
		DBName:        os.Getenv("DB_NAME"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBSSLMode:     os.Getenv("DB_SSLMODE"),
		JWTSecret:     os.Getenv("JWT_SECRET_KEY"),
		FrontendURL:   os.Getenv("FRONTEND_URL"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		BeaconURL:     os.Getenv("BEACON_URL"),
	}
	if Cfg.Port == "" {
		Cfg.Port = "8080"
	}
	if Cfg.DBSSLMode == "" {
		Cfg.DBSSLMode = "disable"
	}
	Cfg.DefaultParanoia = 6
	if v := os.Getenv("DEFAULT_PARANOIA"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 0 || p > 10 {
			log.Printf("config: ignoring invalid DEFAULT_PARANOIA=%q, keeping %d", v, Cfg.DefaultParanoia)
		} else {
			Cfg.DefaultParanoia = p
		}
	}
	return Cfg
}

var DB *gorm.DB

// InitDB connects to postgres with a detailed SQL logger.
func InitDB(c *AppConfig) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		panic("failed to connect database: " + err.Error())
	}
	DB = db
	return db
}

// CORSMiddleware allows the entropy-feeding frontend to reach the API. When
// FRONTEND_URL is unset the API is open to any origin.
func CORSMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if Cfg != nil && Cfg.FrontendURL != "" {
		cfg.AllowOrigins = []string{Cfg.FrontendURL}
	} else {
		cfg.AllowAllOrigins = true
	}
	return cors.New(cfg)
}
