// Package config loads the settings shared by the portfolio binaries.
package config

import "os"

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "PORTFOLIO_"

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// DefaultPath returns the config file location, PORTFOLIO_CONFIG or
// portfolio.yaml in the working directory.
func DefaultPath() string {
	return GetEnv(EnvPrefix+"CONFIG", "portfolio.yaml")
}
