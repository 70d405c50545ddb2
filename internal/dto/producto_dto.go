package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RecetaIngredienteRequest is one recipe line. Every field is optional:
// incomplete lines are stored but never deducted.
type RecetaIngredienteRequest struct {
	Ingrediente *string          `json:"ingredient"`
	Cantidad    *decimal.Decimal `json:"quantity"`
	Unidad      string           `json:"unit"`
}

// Product rules (name, price, stock, threshold) are checked by the service so
// every broken field is reported at once with its own message.
type CrearProductoRequest struct {
	Nombre             string                     `json:"name"`
	Descripcion        *string                    `json:"description"`
	Precio             *decimal.Decimal           `json:"price"`
	Stock              *decimal.Decimal           `json:"stock"`
	UmbralStockBajo    *decimal.Decimal           `json:"low_stock_threshold"`
	Categoria          string                     `json:"category"    validate:"max=100"`
	EsIngrediente      bool                       `json:"is_ingredient"`
	Unidad             string                     `json:"unit"        validate:"max=20"`
	RecetaIngredientes []RecetaIngredienteRequest `json:"recipe_ingredients"`
}

// ActualizarProductoRequest is a partial update; nil fields stay unchanged.
// A non-nil RecetaIngredientes replaces the whole recipe.
type ActualizarProductoRequest struct {
	Nombre             *string                     `json:"name"`
	Descripcion        *string                     `json:"description"`
	Precio             *decimal.Decimal            `json:"price"`
	Stock              *decimal.Decimal            `json:"stock"`
	UmbralStockBajo    *decimal.Decimal            `json:"low_stock_threshold"`
	Categoria          *string                     `json:"category"    validate:"omitempty,max=100"`
	EsIngrediente      *bool                       `json:"is_ingredient"`
	Unidad             *string                     `json:"unit"        validate:"omitempty,max=20"`
	RecetaIngredientes *[]RecetaIngredienteRequest `json:"recipe_ingredients"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre        string `form:"search"`
	Categoria     string `form:"category"`
	EsIngrediente string `form:"is_ingredient"` // "true" | "false" | ""
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RecetaIngredienteResponse struct {
	ID                string          `json:"id"`
	Producto          string          `json:"product"`
	Ingrediente       *string         `json:"ingredient"`
	IngredienteNombre string          `json:"ingredient_name"`
	Cantidad          decimal.Decimal `json:"quantity"`
	Unidad            string          `json:"unit"`
}

type ProductoResponse struct {
	ID              string                      `json:"id"`
	Nombre          string                      `json:"name"`
	Descripcion     *string                     `json:"description"`
	Precio          decimal.Decimal             `json:"price"`
	Stock           decimal.Decimal             `json:"stock"`
	UmbralStockBajo decimal.Decimal             `json:"low_stock_threshold"`
	Categoria       string                      `json:"category"`
	EsIngrediente   bool                        `json:"is_ingredient"`
	Unidad          string                      `json:"unit"`
	Receta          []RecetaIngredienteResponse `json:"recipe"`
	Estado          string                      `json:"estado"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// EventoStock is pushed to websocket clients after a committed stock change.
type EventoStock struct {
	ProductoID string          `json:"product_id"`
	Nombre     string          `json:"name"`
	Stock      decimal.Decimal `json:"stock"`
	Estado     string          `json:"estado"`
}
