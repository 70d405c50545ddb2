package model

import "github.com/google/uuid"

// asignarID gives a record a fresh UUID unless the caller already set one.
// Keys are generated in Go so SQLite (tests) and PostgreSQL behave the same.
func asignarID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// Actor is the authenticated user behind a request. It is attached to the
// records a request creates and can never be set from a payload.
type Actor struct {
	ID       uuid.UUID
	Username string
	Rol      string
}

// UsuarioID returns a pointer suitable for nullable user FKs; nil for an
// anonymous actor.
func (a Actor) UsuarioID() *uuid.UUID {
	if a.ID == uuid.Nil {
		return nil
	}
	id := a.ID
	return &id
}

// Todos lists every persisted model, in dependency order.
func Todos() []interface{} {
	return []interface{}{
		&Rol{}, &Usuario{},
		&Proveedor{},
		&Producto{}, &RecetaIngrediente{},
		&CambioInventario{}, &MovimientoStock{},
		&Venta{}, &VentaItem{},
		&MovimientoCaja{},
		&Compra{},
		&Pedido{}, &PedidoItem{},
		&ReporteStockBajo{},
		&ConsultaUsuario{},
		&AlmacenamientoUsuario{},
	}
}
