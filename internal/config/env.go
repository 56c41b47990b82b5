package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// lookup reads a required variable.
func lookup(name string) (string, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("%s env variable is not set", name)
	}
	return v, nil
}

// lookupSecret reads name, or the file named by name_FILE.
func lookupSecret(name string) (string, error) {
	if v, ok := os.LookupEnv(name); ok {
		return v, nil
	}
	path, ok := os.LookupEnv(name + "_FILE")
	if !ok {
		return "", fmt.Errorf("no %s or %s_FILE env variable set", name, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read %s_FILE: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func intOr(name string, fallback int) (int, error) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("unable to convert %s to int: %w", name, err)
	}
	return i, nil
}

func durationOr(name string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("unable to parse %s: %w", name, err)
	}
	return d, nil
}
