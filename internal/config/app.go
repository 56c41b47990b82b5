package config

import (
	"fmt"
	"os"

	"github.com/vancomm/untangle-server/internal/untangle"
)

const defaultMaxPoints = 100

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return ":8080"
	}
	return port
}

/*
MaxPoints is the largest puzzle the server will generate, from
UNTANGLE_MAX_POINTS. It defaults to 100 and may not exceed
[untangle.MaxPoints].
*/
func MaxPoints() (int, error) {
	n, err := intOr("UNTANGLE_MAX_POINTS", defaultMaxPoints)
	if err != nil {
		return 0, err
	}
	if n < 4 || n > untangle.MaxPoints {
		return 0, fmt.Errorf(
			"UNTANGLE_MAX_POINTS must be between 4 and %d, got %d", untangle.MaxPoints, n,
		)
	}
	return n, nil
}
