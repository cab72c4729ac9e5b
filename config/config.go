package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	AppName           string `mapstructure:"app_name"`
	ListenIP          string `mapstructure:"listen_ip"`
	ListenPort        int    `mapstructure:"listen_port"`
	SessionKey        string `mapstructure:"session_key"`
	SecureCookies     bool   `mapstructure:"secure_cookies"`
	DBDriver          string `mapstructure:"db_driver"`
	DBDSN             string `mapstructure:"db_dsn"`
	Timezone          string `mapstructure:"timezone"`
	DestinationNumber string `mapstructure:"destination_number"`
	SchoolName        string `mapstructure:"school_name"`
	HashPasswords     bool   `mapstructure:"hash_passwords"`
	LogLevel          string `mapstructure:"log_level"`
	Environment       string `mapstructure:"environment"`

	// Browser origins allowed to make credentialed cross-origin requests.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// Location is Timezone resolved once at load time.
	Location *time.Location `mapstructure:"-"`
}

var AppConfig Config

const placeholderKey = "CHANGE_ME_IN_PRODUCTION"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "ExitPass")
	v.SetDefault("listen_ip", "0.0.0.0")
	v.SetDefault("listen_port", 8080)
	v.SetDefault("session_key", "")
	v.SetDefault("secure_cookies", false)
	v.SetDefault("db_driver", "sqlite3")
	v.SetDefault("db_dsn", "./exitpass.db")
	v.SetDefault("timezone", "Asia/Riyadh")
	v.SetDefault("destination_number", "966551141804")
	v.SetDefault("school_name", "ثانوية قرطبة الأهلية")
	v.SetDefault("hash_passwords", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("environment", "development")
	v.SetDefault("allowed_origins", []string{})
}

// LoadConfig reads the JSON config at path. A .env file in the working
// directory is loaded first when present; EXITPASS_* variables override
// file values.
func LoadConfig(path string) error {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("EXITPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return err
	}
	cfg.DBDriver = strings.ToLower(cfg.DBDriver)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Environment = strings.ToLower(cfg.Environment)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	// If no key is provided or it's the placeholder, generate a secure random one
	if cfg.SessionKey == "" || cfg.SessionKey == placeholderKey {
		logrus.Warn("No session key configured. Generating a random key. Sessions will be invalidated on restart.")
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err != nil {
			return err
		}
		cfg.SessionKey = hex.EncodeToString(randomKey)
	}

	AppConfig = cfg
	return nil
}
