// cmd/seeduser/main.go: crea o actualiza el usuario Gerente inicial.
// Uso: SEED_USERNAME=admin SEED_PASSWORD=secreto go run ./cmd/seeduser
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"interfaz/internal/config"
	"interfaz/internal/infra"
	"interfaz/internal/model"
	"interfaz/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	username := envOr("SEED_USERNAME", "admin")
	password := envOr("SEED_PASSWORD", "admin1234")
	email := envOr("SEED_EMAIL", "admin@interfaz.local")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, false)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}
	ctx := context.Background()

	rol, err := repository.NewRolRepository(db).FindOrCreate(ctx, model.RolGerente)
	if err != nil {
		log.Fatal().Err(err).Msg("rol error")
	}

	u := model.Usuario{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		RolID:        &rol.ID,
		Activo:       true,
	}
	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "email", "rol_id", "activo"}),
	}).Omit(clause.Associations).Create(&u).Error
	if err != nil {
		log.Fatal().Err(err).Msg("insert error")
	}
	fmt.Printf("Usuario '%s' (%s) creado/actualizado\n", username, model.RolGerente)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
