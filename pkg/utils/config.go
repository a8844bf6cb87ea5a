package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Reservation ReservationConfig
	Notify      NotifyConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// AuthConfig holds the identity provider's token verification key and the
// bcrypt hash of the API key trusted callers use for direct bookings.
type AuthConfig struct {
	TokenSecret     string
	AdminAPIKeyHash string
}

type ReservationConfig struct {
	HoldTTL       time.Duration
	SweepInterval time.Duration
}

type NotifyConfig struct {
	ToastWindow time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("RESERVATION_TTL_MINUTES", 5)
	viper.SetDefault("SWEEP_INTERVAL_SECONDS", 30)
	viper.SetDefault("TOAST_WINDOW_SECONDS", 5)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Auth: AuthConfig{
			TokenSecret:     viper.GetString("TOKEN_SECRET"),
			AdminAPIKeyHash: viper.GetString("ADMIN_API_KEY_HASH"),
		},
		Reservation: ReservationConfig{
			HoldTTL:       time.Duration(viper.GetInt("RESERVATION_TTL_MINUTES")) * time.Minute,
			SweepInterval: time.Duration(viper.GetInt("SWEEP_INTERVAL_SECONDS")) * time.Second,
		},
		Notify: NotifyConfig{
			ToastWindow: time.Duration(viper.GetInt("TOAST_WINDOW_SECONDS")) * time.Second,
		},
	}

	return config, nil
}
