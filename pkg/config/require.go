package config

import (
	"log"
	"os"
)

// MustEnv returns a required environment variable and aborts startup
// when it is missing. Config errors should kill the process before it
// starts accepting traffic.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("missing required env %s", key)
	}
	return v
}

func MustEnvBytes(key string) []byte {
	return []byte(MustEnv(key))
}
