package config

import (
	"log"
	"sync"
	"time"
)

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

var (
	authConfig *AuthConfig
	authOnce   sync.Once
)

func LoadAuthConfig() *AuthConfig {
	authOnce.Do(func() {
		secret := getEnv("JWT_SECRET", "")
		if secret == "" {
			secret = "dev"
			log.Printf("Warning: JWT_SECRET not set, using development secret")
		}
		authConfig = &AuthConfig{
			JWTSecret: secret,
			TokenTTL:  getEnvDuration("JWT_TTL", 24*time.Hour),
		}
	})
	return authConfig
}
