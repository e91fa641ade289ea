package config

import "os"

// GetCookieSecure returns whether session cookies should use the Secure flag.
// Defaults to false for development, true for production.
func GetCookieSecure() bool {
	if val := os.Getenv("CLINIC_COOKIE_SECURE"); val != "" {
		return val == "true"
	}
	return os.Getenv("CLINIC_ENVIRONMENT") == "production"
}
