// cmd/migrate/main.go: aplica o revierte las migraciones SQL.
// Uso: go run ./cmd/migrate [up|down] [-steps N]
package main

import (
	"flag"
	"os"
	"time"

	"interfaz/internal/config"
	"interfaz/internal/infra"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	steps := flag.Int("steps", 1, "migraciones a revertir con down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	accion := flag.Arg(0)
	switch accion {
	case "", "up":
		err = infra.RunMigrations(cfg.DatabaseURL)
	case "down":
		err = infra.RollbackMigrations(cfg.DatabaseURL, *steps)
	default:
		log.Fatal().Str("accion", accion).Msg("accion desconocida: use up o down")
	}
	if err != nil {
		log.Fatal().Err(err).Str("accion", accion).Msg("migracion fallida")
	}
	log.Info().Str("accion", accion).Msg("listo")
}
