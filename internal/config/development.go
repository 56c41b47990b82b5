package config

import (
	"os"
	"strings"
)

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	switch strings.ToLower(development) {
	case "", "0", "false":
		return false
	}
	return true
}
