package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rpxanalytics/portfolio-api/internal/config"
	"github.com/rpxanalytics/portfolio-api/internal/database"
	"github.com/rpxanalytics/portfolio-api/internal/handler"
	"github.com/rpxanalytics/portfolio-api/internal/logger"
	"github.com/rpxanalytics/portfolio-api/internal/repository"
	"github.com/rpxanalytics/portfolio-api/internal/service"
	"github.com/rpxanalytics/portfolio-api/pkg/auditfmt"
	"github.com/rpxanalytics/portfolio-api/pkg/xlbook"
)

type App struct {
	Echo *echo.Echo
	DB   *sql.DB
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	// Initialize logging
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	// The audit column registry must validate before anything is
	// served; a malformed registry would mean every export silently
	// produces a malformed document.
	registry, err := auditfmt.NewRegistry()
	if err != nil {
		return fmt.Errorf("failed to build audit column registry: %w", err)
	}

	opts := xlbook.DefaultOptions()
	if path := config.DefaultEnvConfig.REPORT_CONFIG_PATH; path != "" {
		opts, err = xlbook.OptionsFromYAMLFile(path)
		if err != nil {
			return fmt.Errorf("failed to load report config: %w", err)
		}
	}

	// Initialize database connection
	dbConfig := database.Config{
		Host:            config.DefaultEnvConfig.DB_HOST,
		Port:            config.DefaultEnvConfig.DB_PORT,
		User:            config.DefaultEnvConfig.DB_USER,
		Password:        config.DefaultEnvConfig.DB_PASSWORD,
		DBName:          config.DefaultEnvConfig.DB_NAME,
		SSLMode:         config.DefaultEnvConfig.DB_SSL_MODE,
		MaxOpenConns:    config.DefaultEnvConfig.DB_MAX_OPEN_CONNS,
		MaxIdleConns:    config.DefaultEnvConfig.DB_MAX_IDLE_CONNS,
		ConnMaxLifetime: config.DefaultEnvConfig.DB_CONN_MAX_LIFETIME,
	}

	db, err := database.NewPostgresDB(ctx, dbConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db

	// Initialize dependencies
	store := repository.NewPortfolioRepository(db)
	reportBuilder := xlbook.NewReportBuilder(registry, opts)
	reportSvc := service.NewReportService(store, reportBuilder)
	exportHandler := handler.NewExportHandler(reportSvc)

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(exportHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(exportHandler *handler.ExportHandler) {
	exportGroup := a.Echo.Group("/export")
	exportGroup.GET("/loans/excel", exportHandler.LoansExcelHandler)
	exportGroup.GET("/pricing-results/excel", exportHandler.PricingResultsExcelHandler)
	exportGroup.GET("/portfolio-analysis/excel", exportHandler.PortfolioAnalysisExcelHandler)
	exportGroup.GET("/complete-report/excel", exportHandler.CompleteReportExcelHandler)
}

func (a *App) Run() error {
	defer a.DB.Close()
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
