package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	Username string
	Password string
	Host     string
	Port     uint16
	DBName   string
	SSLMode  string
}

func NewDatabase() (*Database, error) {
	var (
		cfg Database
		err error
	)
	if cfg.Username, err = lookup("POSTGRES_USER"); err != nil {
		return nil, err
	}
	if cfg.Password, err = lookupSecret("POSTGRES_PASSWORD"); err != nil {
		return nil, fmt.Errorf("unable to load password: %w", err)
	}
	if cfg.Host, err = lookup("POSTGRES_HOST"); err != nil {
		return nil, err
	}
	portStr, err := lookup("POSTGRES_PORT")
	if err != nil {
		return nil, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("unable to convert port to int: %w", err)
	}
	cfg.Port = uint16(port)
	if cfg.DBName, err = lookup("POSTGRES_DB"); err != nil {
		return nil, err
	}
	if cfg.SSLMode, err = lookup("POSTGRES_SSLMODE"); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Database) URL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.Username),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

// DbURL prefers DATABASE_URL and falls back to the POSTGRES_* variables.
func DbURL() (string, error) {
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		return dbURL, nil
	}
	cfg, err := NewDatabase()
	if err != nil {
		return "", fmt.Errorf("no DATABASE_URL set; %w", err)
	}
	return cfg.URL(), nil
}

func NewPgxpoolConfig() (*pgxpool.Config, error) {
	dbURL, err := DbURL()
	if err != nil {
		return nil, err
	}
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, err
	}
	maxConns, err := intOr("POSTGRES_MAX_CONNS", 0)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	return cfg, nil
}
