package app

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
	"github.com/rulemine/rulemine-backend/internal/utils"
)

type Config struct {
	Environment    string
	Version        string
	Port           string
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	AllowedOrigins []string
}

// fileConfig is the optional CONFIG_FILE overlay. Only fields present in the
// file override the environment.
type fileConfig struct {
	Environment    string   `yaml:"environment"`
	Port           string   `yaml:"port"`
	JWTSecretKey   string   `yaml:"jwt_secret_key"`
	AccessTokenTTL int      `yaml:"access_token_ttl_seconds"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Environment:    utils.GetEnv("APP_ENV", "development", log),
		Version:        utils.GetEnv("APP_VERSION", "dev", log),
		Port:           utils.GetEnv("PORT", "8080", log),
		JWTSecretKey:   utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL: time.Duration(utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,
	}
	if origins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if path == "" {
		return cfg
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("config file unreadable, using environment only", "path", path, "error", err)
		return cfg
	}
	var overlay fileConfig
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		log.Warn("config file invalid, using environment only", "path", path, "error", err)
		return cfg
	}
	if overlay.Environment != "" {
		cfg.Environment = overlay.Environment
	}
	if overlay.Port != "" {
		cfg.Port = overlay.Port
	}
	if overlay.JWTSecretKey != "" {
		cfg.JWTSecretKey = overlay.JWTSecretKey
	}
	if overlay.AccessTokenTTL > 0 {
		cfg.AccessTokenTTL = time.Duration(overlay.AccessTokenTTL) * time.Second
	}
	if len(overlay.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = overlay.AllowedOrigins
	}
	log.Info("config file applied", "path", path)
	return cfg
}
