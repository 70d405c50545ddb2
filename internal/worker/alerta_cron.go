package worker

// alerta_cron.go
// Background goroutine that periodically scans for products at or below their
// low-stock threshold and mails a digest. A digest is only sent when the set
// of low products (or their stock) changed since the previous tick.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"interfaz/internal/model"
	"interfaz/internal/repository"

	"github.com/rs/zerolog/log"
)

const alertaIntervaloDefault = 15 * time.Minute

type AlertaCronConfig struct {
	Productos    repository.ProductoRepository
	Dispatcher   *Dispatcher
	Destinatario string
	Intervalo    time.Duration
}

// StartAlertaStockCron launches the scanner. It does nothing when no
// recipient is configured and stops with ctx.
func StartAlertaStockCron(ctx context.Context, cfg AlertaCronConfig) {
	if cfg.Destinatario == "" {
		log.Info().Msg("alerta_cron: ALERT_EMAIL vacío, escaner deshabilitado")
		return
	}
	if cfg.Intervalo <= 0 {
		cfg.Intervalo = alertaIntervaloDefault
	}
	e := &escanerStockBajo{cfg: cfg}

	go func() {
		ticker := time.NewTicker(cfg.Intervalo)
		defer ticker.Stop()

		log.Info().Dur("intervalo", cfg.Intervalo).Msg("alerta_cron: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("alerta_cron: shutting down")
				return
			case <-ticker.C:
				e.tick(ctx)
			}
		}
	}()
}

type escanerStockBajo struct {
	cfg         AlertaCronConfig
	ultimaFirma string
}

func (e *escanerStockBajo) tick(ctx context.Context) {
	productos, err := e.cfg.Productos.ListStockBajo(ctx)
	if err != nil {
		log.Error().Err(err).Msg("alerta_cron: failed to query low stock")
		return
	}

	firma := firmaStock(productos)
	if firma == e.ultimaFirma {
		return
	}
	e.ultimaFirma = firma
	if len(productos) == 0 {
		return
	}

	asunto, cuerpo := ResumenStockBajo(productos)
	payload := EmailJobPayload{To: []string{e.cfg.Destinatario}, Subject: asunto, Body: cuerpo}
	if err := e.cfg.Dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Error().Err(err).Msg("alerta_cron: failed to enqueue digest")
		return
	}
	log.Info().Int("productos", len(productos)).Msg("alerta_cron: resumen de stock bajo encolado")
}

// firmaStock identifies a low-stock snapshot by product and stock level.
func firmaStock(productos []model.Producto) string {
	var b strings.Builder
	for _, p := range productos {
		b.WriteString(p.ID.String())
		b.WriteByte('=')
		b.WriteString(p.Stock.String())
		b.WriteByte(';')
	}
	return b.String()
}

// ResumenStockBajo builds the subject and plain-text body of a low-stock mail.
func ResumenStockBajo(productos []model.Producto) (string, string) {
	asunto := fmt.Sprintf("Stock bajo: %d producto(s)", len(productos))
	if len(productos) == 1 {
		asunto = fmt.Sprintf("Stock bajo: %s", productos[0].Nombre)
	}

	var b strings.Builder
	b.WriteString("Los siguientes productos están en o por debajo de su umbral de stock:\n\n")
	for _, p := range productos {
		fmt.Fprintf(&b, "- %s: %s %s (umbral %s)\n",
			p.Nombre, p.Stock.String(), p.Unidad, p.UmbralStockBajo.String())
	}
	return asunto, b.String()
}
