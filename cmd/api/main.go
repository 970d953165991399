// @title        Catalogo API
// @version      1.0
// @description  Catálogo de libros organizado en un árbol de categorías.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/jhoicas/Catalogo-api/docs"
	"github.com/jhoicas/Catalogo-api/internal/application/auth"
	"github.com/jhoicas/Catalogo-api/internal/application/catalog"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/domain/taxonomy"
	infrapdf "github.com/jhoicas/Catalogo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Catalogo-api/internal/interfaces/http"
	"github.com/jhoicas/Catalogo-api/pkg/config"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("path_mode", cfg.Catalog.PathMode).
		Bool("auth", cfg.Auth.Enabled).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	categoryRepo := postgres.NewCategoryRepository(pool)
	bookRepo := postgres.NewBookRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	resolver := taxonomy.NewResolver(categoryRepo, cfg.Catalog.MaxTreeNodes)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, resolver, txRunner)
	bookUC := usecase.NewBookUseCase(bookRepo, categoryRepo, resolver, usecase.PathMode(cfg.Catalog.PathMode))

	// PDF: catálogo imprimible de una rama
	pdfGenerator := infrapdf.NewMarotoCatalogGenerator(cfg.App.Name)
	catalogPDFUC := catalog.NewPDFUseCase(categoryRepo, bookRepo, resolver, pdfGenerator, cfg.Catalog.ReportMaxBooks)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.Docs.Path); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.Path,
			Path:     "docs",
			Title:    "Catalogo API",
		}))
	} else {
		log.Warn().Str("path", cfg.Docs.Path).Msg("documento OpenAPI no encontrado, /docs deshabilitado")
	}
	// Documento embebido en el binario (no depende de DOCS_PATH).
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(docs.SwaggerInfo.ReadDoc())
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC:  categoryUC,
		BookUC:      bookUC,
		CatalogPDF:  catalogPDFUC,
		AuthUC:      authUC,
		Log:         log,
		JWTSecret:   cfg.JWT.Secret,
		AuthEnabled: cfg.Auth.Enabled,
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
