package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/sales.
type VentaFilter struct {
	Fecha string `form:"date"  validate:"omitempty,datetime=2006-01-02"` // empty = all
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemVentaRequest.ProductoID is not checked as a UUID here: an unknown or
// malformed id is reported as "producto no encontrado" by the service.
type ItemVentaRequest struct {
	ProductoID string          `json:"product_id" validate:"required"`
	Cantidad   decimal.Decimal `json:"quantity"   validate:"required,gt=0"`
	Precio     decimal.Decimal `json:"price"      validate:"gte=0"`
}

type RegistrarVentaRequest struct {
	Items      []ItemVentaRequest `json:"items"          validate:"required,min=1,dive"`
	MetodoPago string             `json:"payment_method" validate:"required,oneof=Efectivo Tarjeta Transferencia"`
	// TotalAmount is optional; when absent it is Σ quantity × price.
	TotalAmount *decimal.Decimal `json:"total_amount"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ID             string          `json:"id"`
	Producto       string          `json:"product"`
	ProductoNombre string          `json:"product_name"`
	Cantidad       decimal.Decimal `json:"quantity"`
	Precio         decimal.Decimal `json:"price"`
}

type VentaResponse struct {
	ID          string              `json:"id"`
	Timestamp   string              `json:"timestamp"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	MetodoPago  string              `json:"payment_method"`
	Usuario     *string             `json:"user"`
	Items       []ItemVentaResponse `json:"sale_items"`
}
