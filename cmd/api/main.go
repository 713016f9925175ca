package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/backoffice-api/internal/app"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/ws"
	httpRouter "github.com/jhoicas/backoffice-api/internal/interfaces/http"
	"github.com/jhoicas/backoffice-api/internal/platform/observability"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("driver", cfg.DB.Driver).
		Str("consistency", cfg.Stock.Consistency).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Otel)
	if err != nil {
		log.Warn().Err(err).Msg("trazas deshabilitadas")
	}

	hub := ws.NewHub(log.Zerolog())
	go hub.Run(ctx)

	c, err := app.Build(ctx, cfg, log.Zerolog(), app.Options{AsyncAudit: true, Hub: hub})
	if err != nil {
		log.Fatal().Err(err).Msg("armado de dependencias")
	}
	go c.Recorder.RunReplayLoop(ctx, cfg.Audit.ReplayInterval)

	server := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    12 << 20,
	})
	server.Use(recover.New())
	server.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSOrigins}))
	server.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		server.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Back-office API",
		}))
	}

	httpRouter.Router(server, httpRouter.RouterDeps{
		AuthUC:       c.Auth,
		InvoiceUC:    c.Invoices,
		StockUC:      c.Stock,
		AdjustmentUC: c.Adjustments,
		SupplierUC:   c.Suppliers,
		ReportUC:     c.Reports,
		HistoryUC:    c.History,
		CustomerUC:   c.Customers,
		StaffUC:      c.Staff,
		Hub:          hub,
		JWTSecret:    cfg.JWT.Secret,
		ServiceName:  cfg.App.Name,
		FilesDir:     c.FilesDir,
		FilesURL:     cfg.Storage.PublicBaseURL,
		Ping:         c.Stores.Ping,
	})

	go func() {
		if err := server.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := c.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre de dependencias")
	}
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("cierre de trazas")
		}
	}

	log.Info().Msg("aplicación detenida")
}
