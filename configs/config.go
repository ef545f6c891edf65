package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

func Config(key string) string {
	loadOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("Warning: .env file not found, reading from system environment variables")
		}
	})
	return os.Getenv(key)
}

// MustConfig is for keys the process cannot run without, e.g. JWT_SECRET.
func MustConfig(key string) string {
	v := Config(key)
	if v == "" {
		log.Fatalf("🔥 Required environment variable %s is not set", key)
	}
	return v
}

// ConfigBool treats "true" and "1" as on; anything else (including unset) is off.
func ConfigBool(key string) bool {
	v := Config(key)
	return v == "true" || v == "1"
}
