package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearCompraRequest accepts items as free-form JSON; the purchase total is
// derived from it on read. Status and approval fields are server-owned.
type CrearCompraRequest struct {
	Proveedor   string          `json:"supplier"     validate:"required,max=200"`
	Items       json.RawMessage `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount" validate:"gte=0"`
	Notas       *string         `json:"notes"`
}

type CompraFilter struct {
	Estado string `form:"status" validate:"omitempty,oneof=Pendiente Aprobada Rechazada"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CompraResponse struct {
	ID          string          `json:"id"`
	Proveedor   string          `json:"supplier"`
	Items       json.RawMessage `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Total       decimal.Decimal `json:"total"`
	Notas       *string         `json:"notes"`
	Estado      string          `json:"status"`
	Usuario     *string         `json:"user"`
	AprobadoPor *string         `json:"approved_by"`
	AprobadoEn  *string         `json:"approved_at"`
	CreatedAt   string          `json:"created_at"`
}

type CompraListResponse struct {
	Data  []CompraResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
