package env

import (
	"os"
	"strconv"
)

// GetString returns the value of the environment variable or the fallback
// when it is unset.
func GetString(key, fallback string) string {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return val
}

// GetInt returns the integer value of the environment variable. Unset or
// unparseable values yield the fallback.
func GetInt(key string, fallback int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	valInt, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return valInt
}
