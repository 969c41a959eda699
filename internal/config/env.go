package config

import (
	"fmt"
	"os"
	"strings"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	// PublicBaseURL is what the payment provider calls back to, e.g.
	// "https://booking.example.com".
	PublicBaseURL string

	ChapaSecretKey string
	ChapaBaseURL   string

	JWTSecret string

	// CORSAllowedOrigins is the browser origin allowlist; "*" allows all.
	CORSAllowedOrigins []string
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func splitCSV(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadEnv reads process configuration. The Chapa credential is required: a
// missing secret must fail at startup, not on the first payment request.
func LoadEnv() (Env, error) {
	env := Env{
		AppAddr: getenv("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBUser: getenv("DB_USER", "root"),
		DBPass: strings.TrimSpace(os.Getenv("DB_PASS")),
		DBHost: getenv("DB_HOST", "127.0.0.1:3306"),
		DBName: getenv("DB_NAME", "travel_app"),

		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://127.0.0.1:8080"),

		ChapaSecretKey: strings.TrimSpace(os.Getenv("CHAPA_SECRET_KEY")),
		ChapaBaseURL:   getenv("CHAPA_BASE_URL", "https://api.chapa.co/v1"),

		JWTSecret: getenv("JWT_SECRET", "super-secret-key-change-me"),

		CORSAllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if env.ChapaSecretKey == "" {
		return env, fmt.Errorf("CHAPA_SECRET_KEY is not set")
	}

	env.PublicBaseURL = strings.TrimRight(env.PublicBaseURL, "/")

	return env, nil
}
