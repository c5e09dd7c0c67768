package utilities

import (
	"os"
	"strings"
)

// EnvOrDefault returns the trimmed value of key, or fallback when unset.
func EnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
