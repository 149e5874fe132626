package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"port" default:"8080"`
	GinMode     string `envconfig:"gin_mode" default:"debug"`
	DatabaseURL string `envconfig:"database_url"`
	RedisURL    string `envconfig:"redis_url" default:"redis://localhost:6379"`
	JWTSecret   string `envconfig:"jwt_secret" required:"true"`
	JWTTTLHours int    `envconfig:"jwt_ttl_hours" default:"24"`
	CORSOrigin  string `envconfig:"cors_origin" default:"*"`
}

func Load() (*Config, error) {
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(".env.local"); err != nil {
			if err := godotenv.Load(); err != nil {
				log.Println(".env not found, using environment variables")
			}
		}
	}

	c := &Config{}
	if err := envconfig.Process("circle", c); err != nil {
		return nil, err
	}
	return c, nil
}
