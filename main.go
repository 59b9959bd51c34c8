package main

import (
	"context"

	"github.com/rpxanalytics/portfolio-api/internal/bootstrap"
	"github.com/rpxanalytics/portfolio-api/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		panic(err)
	}

	logger.InfoLog(ctx, "Portfolio API initialized, starting server")
	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, "Server stopped", err)
		panic(err)
	}
}
