package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockInsuficienteError aborts a sale, a recipe deduction or a manual
// Salida. Insumo selects the ingredient wording used by product creation.
type StockInsuficienteError struct {
	Producto   string
	Necesario  decimal.Decimal
	Disponible decimal.Decimal
	Insumo     bool
}

func (e *StockInsuficienteError) Error() string {
	if e.Insumo {
		return fmt.Sprintf("No hay suficiente stock para el insumo '%s'. Necesario: %s, Disponible: %s",
			e.Producto, e.Necesario.String(), e.Disponible.String())
	}
	return fmt.Sprintf("Stock insuficiente para %s. Disponible: %s, Requerido: %s",
		e.Producto, e.Disponible.String(), e.Necesario.String())
}

// NoEncontradoError names the entity and the id the client sent.
type NoEncontradoError struct {
	Entidad string
	ID      string
}

func (e *NoEncontradoError) Error() string {
	return fmt.Sprintf("%s con ID %s no encontrado", e.Entidad, e.ID)
}

var (
	// ErrEstadoInvalido is returned when a state transition is not allowed.
	ErrEstadoInvalido = errors.New("la operacion no es valida para el estado actual")
	ErrProductoEnUso  = errors.New("no se puede eliminar: el producto es insumo de otras recetas")

	// ErrProductoConHistorial protects products that were sold or moved.
	ErrProductoConHistorial = errors.New("no se puede eliminar: el producto tiene ventas o movimientos de stock registrados")
)

// noEncontrado converts gorm's not-found into a NoEncontradoError and
// passes every other error through.
func noEncontrado(err error, entidad, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NoEncontradoError{Entidad: entidad, ID: id}
	}
	return err
}
