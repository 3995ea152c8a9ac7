package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Env struct {
	Port           string
	FrontendOrigin string
	JwtKey         []byte
	PostgresUrl    string
	GinMode        string
}

// Load reads a local .env if present, then the process environment.
func Load() Env {
	godotenv.Load()

	env := Env{
		Port:           os.Getenv("PORT"),
		FrontendOrigin: os.Getenv("FRONTEND_ORIGIN"),
		JwtKey:         []byte(os.Getenv("JWT_KEY")),
		PostgresUrl:    os.Getenv("POSTGRES_URL"),
		GinMode:        os.Getenv("GIN_MODE"),
	}
	if env.Port == "" {
		env.Port = "5000"
	}
	if env.FrontendOrigin == "" {
		env.FrontendOrigin = "localhost:5173"
	}
	return env
}
