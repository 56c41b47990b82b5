package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/vancomm/untangle-server/internal/untangle"
)

func main() {
	untangle.Log = slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelWarn}))

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
