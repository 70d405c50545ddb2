package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemPedidoRequest: quantity defaults to 1 and unit_price to 0.
type ItemPedidoRequest struct {
	ProductoNombre string           `json:"product_name"   validate:"max=200"`
	Cantidad       *int             `json:"quantity"       validate:"omitempty,min=1"`
	PrecioUnitario *decimal.Decimal `json:"unit_price"`
}

type CrearPedidoRequest struct {
	ClienteNombre string              `json:"customer_name"  validate:"required,max=200"`
	Fecha         string              `json:"date"           validate:"omitempty,datetime=2006-01-02"`
	MetodoPago    string              `json:"payment_method" validate:"omitempty,oneof=Efectivo Tarjeta Transferencia"`
	Items         []ItemPedidoRequest `json:"items"          validate:"required,dive"`
	Notas         *string             `json:"notes"`
}

type ActualizarEstadoPedidoRequest struct {
	Estado string `json:"status" validate:"required,oneof=Pendiente Preparado Entregado Cancelado"`
}

type PedidoFilter struct {
	Estado string `form:"status" validate:"omitempty,oneof=Pendiente Preparado Entregado Cancelado"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemPedidoResponse struct {
	ID             string          `json:"id"`
	ProductoNombre string          `json:"product_name"`
	Cantidad       int             `json:"quantity"`
	PrecioUnitario decimal.Decimal `json:"unit_price"`
	Total          decimal.Decimal `json:"total"`
}

type PedidoResponse struct {
	ID            string               `json:"id"`
	ClienteNombre string               `json:"customer_name"`
	Fecha         string               `json:"date"`
	MetodoPago    string               `json:"payment_method"`
	Items         []ItemPedidoResponse `json:"items"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	Notas         *string              `json:"notes"`
	Estado        string               `json:"status"`
	CreatedAt     string               `json:"created_at"`
	Usuario       *string              `json:"user"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
