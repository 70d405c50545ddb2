package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CambioInventarioRequest keeps quantity raw: clients send numbers, numeric
// strings or negative values and the service normalizes them.
type CambioInventarioRequest struct {
	ProductoID string          `json:"product"  validate:"required,uuid"`
	Tipo       string          `json:"type"     validate:"required,oneof=Entrada Salida"`
	Cantidad   json.RawMessage `json:"quantity"`
	Motivo     string          `json:"reason"   validate:"max=255"`
}

type ReporteStockBajoRequest struct {
	ProductoID string `json:"product" validate:"required,uuid"`
	Mensaje    string `json:"message" validate:"required,min=3,max=500"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type MovimientoStockFilter struct {
	ProductoID string `form:"product" validate:"omitempty,uuid"`
	Tipo       string `form:"type"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
	// SoloCambios restricts the ledger to manual inventory changes (audit view).
	SoloCambios bool `form:"-"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CambioInventarioResponse struct {
	ID             string          `json:"id"`
	Producto       string          `json:"product"`
	ProductoNombre string          `json:"product_name"`
	Tipo           string          `json:"type"`
	Cantidad       decimal.Decimal `json:"quantity"`
	Motivo         string          `json:"reason"`
	Usuario        *string         `json:"user"`
	Timestamp      string          `json:"timestamp"`
}

type AuditoriaInventarioResponse struct {
	ID               string          `json:"id"`
	CambioInventario *string         `json:"inventory_change"`
	Producto         string          `json:"product"`
	ProductoNombre   string          `json:"product_name"`
	Usuario          *string         `json:"user"`
	Rol              string          `json:"role"`
	TipoCambio       string          `json:"change_type"`
	Cantidad         decimal.Decimal `json:"quantity"`
	StockAnterior    decimal.Decimal `json:"previous_stock"`
	StockNuevo       decimal.Decimal `json:"new_stock"`
	Motivo           string          `json:"reason"`
	Timestamp        string          `json:"timestamp"`
}

type AuditoriaListResponse struct {
	Data  []AuditoriaInventarioResponse `json:"data"`
	Total int64                         `json:"total"`
	Page  int                           `json:"page"`
	Limit int                           `json:"limit"`
}

type ReporteStockBajoResponse struct {
	ID             string  `json:"id"`
	Producto       string  `json:"product"`
	ProductoNombre string  `json:"product_name"`
	Mensaje        string  `json:"message"`
	ReportadoPor   *string `json:"reported_by"`
	CreatedAt      string  `json:"created_at"`
	Resuelto       bool    `json:"is_resolved"`
}

type AlertaStockResponse struct {
	ProductoID      string          `json:"product"`
	Nombre          string          `json:"name"`
	Stock           decimal.Decimal `json:"stock"`
	UmbralStockBajo decimal.Decimal `json:"low_stock_threshold"`
	Unidad          string          `json:"unit"`
}

type CambioInventarioListResponse struct {
	Data  []CambioInventarioResponse `json:"data"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}
