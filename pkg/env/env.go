// Package env reads raw environment variables for the few settings
// needed before the envconfig-backed configuration is loaded, such as
// choosing the log format of the bootstrap logger.
package env

import "os"

// Get returns the variable's value, or fallback when unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
