package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Storage StorageConfig
	Auth    AuthConfig
	Log     LogConfig
}

// StorageConfig locates the durable collections and copied artifacts.
type StorageConfig struct {
	DataDir      string
	DocumentsDir string
	ExportsDir   string
}

// AuthConfig tunes credential hashing.
type AuthConfig struct {
	BcryptCost int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Running without a .env file is the normal case.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Storage = StorageConfig{
		DataDir:      v.GetString("DATA_DIR"),
		DocumentsDir: v.GetString("DOCUMENTS_DIR"),
		ExportsDir:   v.GetString("EXPORTS_DIR"),
	}

	cfg.Auth = AuthConfig{
		BcryptCost: v.GetInt("BCRYPT_COST"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("DOCUMENTS_DIR", "./documents")
	v.SetDefault("EXPORTS_DIR", "./exports")

	v.SetDefault("BCRYPT_COST", 10)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}
