package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort             string   // Application port
	DBDriver            string   // Database driver: mysql, postgres or sqlite
	DBUser              string   // Database user
	DBPassword          string   // Database password
	DBHost              string   // Database host
	DBPort              string   // Database port
	DBName              string   // Database name
	DBPath              string   // SQLite file path
	JWTSecret           string   // JWT secret key
	LoginProviderSecret string   // Secret the login relay signs profile assertions with
	RedisAddr           string   // Redis server address
	RedisPass           string   // Redis password
	RedisDB             int      // Redis database number
	CacheDriver         string   // Cache driver: redis or memory
	CacheKey            string   // Redis hash holding proxy snapshots
	BaseDomain          string   // Reserved domain that can never be registered as a proxy
	AdminUsers          []string // User ids allowed on admin routes
	GatewayToken        string   // Shared secret for the edge proxy lookup endpoint
	LogLevel            string   // Logrus level
	LogFile             string   // Optional rotating log file
	IsProd              bool     // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:             getEnv("APP_PORT", "8080"),          // Application port
		DBDriver:            getEnv("DB_DRIVER", "mysql"),        // Database driver
		DBUser:              os.Getenv("DB_USER"),                // Database user
		DBPassword:          os.Getenv("DB_PASSWORD"),            // Database password
		DBHost:              os.Getenv("DB_HOST"),                // Database host
		DBPort:              os.Getenv("DB_PORT"),                // Database port
		DBName:              os.Getenv("DB_NAME"),                // Database name
		DBPath:              getEnv("DB_PATH", "proxy.db"),       // SQLite file path
		JWTSecret:           os.Getenv("JWT_SECRET"),             // JWT secret key
		LoginProviderSecret: os.Getenv("LOGIN_PROVIDER_SECRET"),  // Login relay secret
		RedisAddr:           os.Getenv("REDIS_ADDR"),             // Redis server address
		RedisPass:           os.Getenv("REDIS_PASS"),             // Redis password
		RedisDB:             redisDB,                             // Redis database number
		CacheDriver:         getEnv("CACHE_DRIVER", "redis"),     // Cache driver
		CacheKey:            getEnv("CACHE_KEY", "proxies"),      // Redis hash name
		BaseDomain:          os.Getenv("BASE_DOMAIN"),            // Reserved base domain
		AdminUsers:          splitList(os.Getenv("ADMIN_USERS")), // Admin user ids
		GatewayToken:        os.Getenv("GATEWAY_TOKEN"),          // Edge proxy secret
		LogLevel:            getEnv("LOG_LEVEL", "info"),         // Log level
		LogFile:             os.Getenv("LOG_FILE"),               // Log file
		IsProd:              os.Getenv("IS_PROD") == "true",      // Is production environment
	}
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser + " password=" + c.DBPassword + " dbname=" + c.DBName + " sslmode=disable"
	case "sqlite":
		return c.DBPath
	default:
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
