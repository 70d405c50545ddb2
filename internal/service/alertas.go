package service

import (
	"context"
	"fmt"

	"interfaz/internal/model"
	"interfaz/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// EncoladorEmail is the part of worker.Dispatcher alerts need.
type EncoladorEmail interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
}

// AlertaStock mails the configured address when stock needs attention.
// A nil *AlertaStock, or one without recipient, does nothing.
type AlertaStock struct {
	dispatcher   EncoladorEmail
	destinatario string
}

func NewAlertaStock(dispatcher EncoladorEmail, destinatario string) *AlertaStock {
	return &AlertaStock{dispatcher: dispatcher, destinatario: destinatario}
}

func (a *AlertaStock) activa() bool {
	return a != nil && a.destinatario != ""
}

// Avisar enqueues one digest for the products that just reached their
// low-stock threshold.
func (a *AlertaStock) Avisar(ctx context.Context, productos []model.Producto) {
	if !a.activa() || len(productos) == 0 {
		return
	}
	asunto, cuerpo := worker.ResumenStockBajo(productos)
	a.encolar(ctx, asunto, cuerpo)
}

// AvisarReporte forwards a staff low-stock report.
func (a *AlertaStock) AvisarReporte(ctx context.Context, producto *model.Producto, mensaje, reportadoPor string) {
	if !a.activa() || producto == nil {
		return
	}
	asunto := fmt.Sprintf("Reporte de stock bajo: %s", producto.Nombre)
	cuerpo := fmt.Sprintf("%s reportó stock bajo de %s (stock actual %s %s).\n\n%s\n",
		reportadoPor, producto.Nombre, producto.Stock.String(), producto.Unidad, mensaje)
	a.encolar(ctx, asunto, cuerpo)
}

// cruzaronUmbral returns, ordered by id, the products that were above their
// threshold before the operation and are at or below it now.
func cruzaronUmbral(antes map[uuid.UUID]decimal.Decimal, productos map[uuid.UUID]*model.Producto) []model.Producto {
	var cruzaron []model.Producto
	for _, id := range ordenarClaves(productos) {
		p := productos[id]
		previo, ok := antes[id]
		if ok && previo.GreaterThan(p.UmbralStockBajo) && p.StockBajo() {
			cruzaron = append(cruzaron, *p)
		}
	}
	return cruzaron
}

func stocksDe(productos map[uuid.UUID]*model.Producto) map[uuid.UUID]decimal.Decimal {
	stocks := make(map[uuid.UUID]decimal.Decimal, len(productos))
	for id, p := range productos {
		stocks[id] = p.Stock
	}
	return stocks
}

func (a *AlertaStock) encolar(ctx context.Context, asunto, cuerpo string) {
	payload := worker.EmailJobPayload{To: []string{a.destinatario}, Subject: asunto, Body: cuerpo}
	if err := a.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Str("asunto", asunto).Msg("alerta de stock: no se pudo encolar el mail")
	}
}
