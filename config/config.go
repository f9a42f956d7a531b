package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds application configuration loaded from environment variables and .env file.
type AppConfig struct {
	// Database config
	DBHost            string
	DBPort            int
	DBUser            string
	DBPass            string
	DBName            string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// HTTP config
	ListenPort string

	// Auth config
	JWTSecret         string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	PasswordMinLength int
	BcryptCost        int
	DefaultAdminUser  string
	DefaultAdminPass  string
	DefaultAdminEmail string

	// Logging config
	LogLevel      string
	LogFile       string
	LogMaxSize    int // MB
	LogMaxBackups int
	LogMaxAge     int // days
	LogCompress   bool

	// Scheduler config
	SchedulerTickInterval time.Duration // How often the evaluator checks for due schedules
	ProbeTimeout          time.Duration // Per-connection probe timeout

	// Import config
	ImportMaxRows int // Upper bound on rows accepted per bulk import request
}

// Cfg is the global application configuration instance.
var Cfg AppConfig

// LoadConfig loads and validates application configuration from .env file and environment variables.
func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		// Use standard log here since logger is not initialized yet
		log.Printf("[WARN] .env file not found or cannot be loaded: %v", err)
	} else {
		log.Printf("[INFO] .env file loaded successfully")
	}

	Cfg.DBHost = getEnv("DB_HOST", "127.0.0.1")
	Cfg.DBUser = getEnv("DB_USER", "root")
	Cfg.DBPass = getEnv("DB_PASS", "")
	Cfg.DBName = getEnv("DB_NAME", "cams")
	Cfg.DBPort = getEnvInt("DB_PORT", 3306)
	Cfg.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 25)
	Cfg.DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 5)
	Cfg.DBConnMaxLifetime = time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute

	Cfg.ListenPort = getEnv("PORT", "8081")

	// Load auth config
	Cfg.JWTSecret = getEnv("JWT_SECRET", "")
	Cfg.AccessTokenTTL = time.Duration(getEnvInt("ACCESS_TOKEN_TTL_MINUTES", 15)) * time.Minute
	Cfg.RefreshTokenTTL = time.Duration(getEnvInt("REFRESH_TOKEN_TTL_HOURS", 168)) * time.Hour
	Cfg.PasswordMinLength = getEnvInt("PASSWORD_MIN_LENGTH", 8)
	Cfg.BcryptCost = getEnvInt("BCRYPT_COST", 12)
	Cfg.DefaultAdminUser = getEnv("DEFAULT_ADMIN_USER", "admin")
	Cfg.DefaultAdminPass = getEnv("DEFAULT_ADMIN_PASS", "")
	Cfg.DefaultAdminEmail = getEnv("DEFAULT_ADMIN_EMAIL", "admin@localhost")

	// Load logging config
	Cfg.LogLevel = getEnv("LOG_LEVEL", "DEBUG")
	Cfg.LogFile = getEnv("LOG_FILE", "/var/log/cams/camsapi.log")
	Cfg.LogMaxSize = getEnvInt("LOG_MAX_SIZE", 10)
	Cfg.LogMaxBackups = getEnvInt("LOG_MAX_BACKUPS", 3)
	Cfg.LogMaxAge = getEnvInt("LOG_MAX_AGE", 28)
	Cfg.LogCompress = getEnvBool("LOG_COMPRESS", true)

	// Load scheduler config
	Cfg.SchedulerTickInterval = time.Duration(getEnvInt("SCHEDULER_TICK_SECONDS", 30)) * time.Second
	Cfg.ProbeTimeout = time.Duration(getEnvInt("PROBE_TIMEOUT_SECONDS", 10)) * time.Second

	Cfg.ImportMaxRows = getEnvInt("IMPORT_MAX_ROWS", 10000)

	log.Printf("[INFO] Config loaded - DB: %s@%s:%d/%s, LogLevel: %s",
		Cfg.DBUser, Cfg.DBHost, Cfg.DBPort, Cfg.DBName, Cfg.LogLevel)
	log.Printf("[INFO] Scheduler config - TickInterval: %v, ProbeTimeout: %v",
		Cfg.SchedulerTickInterval, Cfg.ProbeTimeout)

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
