package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Entity store.
	DatabaseDriver    string `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	MongoTransactions bool   `mapstructure:"MONGO_TRANSACTIONS"`

	// Sessions.
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`

	MaxRequestsPerMin  int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	Timezone           string `mapstructure:"APP_TIMEZONE"`

	// Bookings.
	BookingMinDetailsLength  int  `mapstructure:"BOOKING_MIN_DETAILS_LENGTH"`
	BookingRecentWindowDays  int  `mapstructure:"BOOKING_RECENT_WINDOW_DAYS"`
	BookingStrictTransitions bool `mapstructure:"BOOKING_STRICT_TRANSITIONS"`
	AdminPageSize            int  `mapstructure:"ADMIN_PAGE_SIZE"`

	// Cron expression for the orphan sub-service sweep. Empty disables it.
	OrphanSweepSchedule string `mapstructure:"ORPHAN_SWEEP_SCHEDULE"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_DRIVER", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "relocare")
	viper.SetDefault("MONGO_TRANSACTIONS", false)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("SESSION_TTL_HOURS", 24)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("APP_TIMEZONE", "UTC")
	viper.SetDefault("BOOKING_MIN_DETAILS_LENGTH", 10)
	viper.SetDefault("BOOKING_RECENT_WINDOW_DAYS", 7)
	viper.SetDefault("BOOKING_STRICT_TRANSITIONS", false)
	viper.SetDefault("ADMIN_PAGE_SIZE", 20)
	viper.SetDefault("ORPHAN_SWEEP_SCHEDULE", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if AppConfig.JWTSecret == "" {
		if IsProduction() {
			log.Fatal("JWT_SECRET must be set in production")
		}
		AppConfig.JWTSecret = "relocare-dev-secret"
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves APP_TIMEZONE, falling back to UTC.
func Location() *time.Location {
	if AppConfig.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Printf("invalid APP_TIMEZONE %q, using UTC", AppConfig.Timezone)
		return time.UTC
	}
	return loc
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(AppConfig.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SessionTTL is the lifetime of issued session tokens.
func SessionTTL() time.Duration {
	if AppConfig.SessionTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(AppConfig.SessionTTLHours) * time.Hour
}
