// Command server serves the rows endpoint over HTTP.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"sheetrows/internal/app"
)

func main() {
	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env file", slog.String("error", err.Error()))
	}

	ctx := context.Background()

	application, err := app.NewApplication(ctx)
	if err != nil {
		slog.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		application.Logger.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
