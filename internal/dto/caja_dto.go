package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type MovimientoCajaRequest struct {
	Tipo        string          `json:"type"           validate:"required,oneof=Ingreso Egreso"`
	Monto       decimal.Decimal `json:"amount"         validate:"required,gt=0"`
	Descripcion string          `json:"description"    validate:"max=255"`
	MetodoPago  string          `json:"payment_method" validate:"required,oneof=Efectivo Tarjeta Transferencia"`
}

type MovimientoCajaFilter struct {
	Fecha string `form:"date" validate:"omitempty,datetime=2006-01-02"`
	Tipo  string `form:"type" validate:"omitempty,oneof=Ingreso Egreso"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoCajaResponse struct {
	ID          string          `json:"id"`
	Tipo        string          `json:"type"`
	Monto       decimal.Decimal `json:"amount"`
	Descripcion string          `json:"description"`
	Timestamp   string          `json:"timestamp"`
	Usuario     *string         `json:"user"`
	MetodoPago  string          `json:"payment_method"`
	Venta       *string         `json:"sale"`
}

type MovimientoCajaListResponse struct {
	Data  []MovimientoCajaResponse `json:"data"`
	Total int64                    `json:"total"`
	Page  int                      `json:"page"`
	Limit int                      `json:"limit"`
}

// ResumenCajaResponse totals one day of cash movements.
type ResumenCajaResponse struct {
	Fecha    string          `json:"date"`
	Ingresos decimal.Decimal `json:"income"`
	Egresos  decimal.Decimal `json:"expense"`
	Balance  decimal.Decimal `json:"balance"`
}
