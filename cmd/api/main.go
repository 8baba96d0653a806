package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/mydata-invoicing/internal/application/invoicing"
	"github.com/jhoicas/mydata-invoicing/internal/domain/repository"
	"github.com/jhoicas/mydata-invoicing/internal/infrastructure/memory"
	inframydata "github.com/jhoicas/mydata-invoicing/internal/infrastructure/mydata"
	infrapdf "github.com/jhoicas/mydata-invoicing/internal/infrastructure/pdf"
	"github.com/jhoicas/mydata-invoicing/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/mydata-invoicing/internal/interfaces/http"
	"github.com/jhoicas/mydata-invoicing/pkg/config"
	"github.com/jhoicas/mydata-invoicing/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("mydata_env", cfg.MyData.Environment).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Registro de auditoría: PostgreSQL si hay DB configurada, memoria en otro caso.
	var transmissions repository.TransmissionRepository
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("crear esquema de transmisiones")
		}
		transmissions = postgres.NewTransmissionRepository(pool)
	} else {
		log.Warn().Msg("sin base de datos configurada: registro de transmisiones en memoria")
		transmissions = memory.NewTransmissionRepository()
	}

	mapper, err := invoicing.NewOrderMapper(invoicing.MapperConfigFrom(cfg.MyData), log.Component("mapper"))
	if err != nil {
		log.Fatal().Err(err).Msg("configuración del mapper")
	}

	// Cliente REST myDATA. Sin credenciales trabaja en modo simulado.
	client := inframydata.NewClient(
		inframydata.ClientConfigFrom(cfg.MyData),
		inframydata.NewXMLBuilderService(),
		nil,
		log.Component("mydata"),
	)

	// Orchestrator: Pedido → Documento → XML → SendInvoices → Registro
	orchestrator := invoicing.NewOrchestrator(mapper, client, transmissions, log.Component("invoicing"))

	// PDF: comprobante impreso con el QR de AADE
	pdfUC := invoicing.NewPDFUseCase(transmissions, infrapdf.NewMarotoReceiptGenerator(cfg.MyData.IssuerName))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Orchestrator:  orchestrator,
		PDFUC:         pdfUC,
		Transmissions: transmissions,
		JWTSecret:     cfg.JWT.Secret,
		WebhookSecret: cfg.Shopify.WebhookSecret,
		Log:           log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
