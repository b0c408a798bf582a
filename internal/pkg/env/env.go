package env

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var Env map[string]string

// GetEnv returns the value from the loaded .env file, then the process
// environment, then def.
func GetEnv(key, def string) string {
	if val, ok := Env[key]; ok {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// SetupEnvFile loads the first .env file found. Containers usually inject
// plain environment variables, so a missing file is not fatal.
func SetupEnvFile() {
	envFiles := []string{
		".env",          // Current directory
		"../../.env",    // From cmd/coursefox to project root
		"../../../.env", // Fallback for deeper nesting
	}

	for _, envFile := range envFiles {
		loaded, err := godotenv.Read(envFile)
		if err == nil {
			Env = loaded
			log.Printf("Loaded environment from %s", envFile)
			return
		}
	}

	Env = map[string]string{}
	log.Print("No .env file found, using process environment only")
}

// AppEnv returns the normalized deployment mode (dev, staging, prod).
func AppEnv() string {
	return strings.ToLower(strings.TrimSpace(GetEnv("APP_ENV", "prod")))
}

func IsDev() bool {
	return AppEnv() == "dev"
}
