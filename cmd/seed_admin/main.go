// seed_admin crea (o restablece) el administrador del catálogo.
//
// Uso: ADMIN_EMAIL=admin@example.com ADMIN_PASSWORD=... go run ./cmd/seed_admin
// Usa la misma configuración de base de datos que cmd/api y aplica las migraciones pendientes.
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/Catalogo-api/internal/application/auth"
	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Catalogo-api/pkg/config"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	in := dto.SeedAdminRequest{
		Email:    os.Getenv("ADMIN_EMAIL"),
		Password: os.Getenv("ADMIN_PASSWORD"),
		Name:     os.Getenv("ADMIN_NAME"),
	}
	if in.Email == "" || in.Password == "" {
		log.Fatal().Msg("ADMIN_EMAIL y ADMIN_PASSWORD son obligatorios")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	user, err := authUC.SeedAdmin(ctx, in)
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}
	log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("administrador listo")
}
