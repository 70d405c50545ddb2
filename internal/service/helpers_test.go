package service

import (
	"context"
	"testing"

	"interfaz/internal/dto"
	"interfaz/internal/model"
	"interfaz/internal/repository"
	"interfaz/internal/testutil"
	"interfaz/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Fixtures ──────────────────────────────────────────────────────────────────

type notifierSpy struct {
	eventos []dto.EventoStock
}

func (n *notifierSpy) PublicarStock(eventos ...dto.EventoStock) {
	n.eventos = append(n.eventos, eventos...)
}

type encoladorSpy struct {
	correos []worker.EmailJobPayload
}

func (e *encoladorSpy) EnqueueEmail(_ context.Context, payload worker.EmailJobPayload) error {
	e.correos = append(e.correos, payload)
	return nil
}

var cajero = model.Actor{ID: uuid.New(), Username: "cajero1", Rol: model.RolCajero}

type entorno struct {
	db        *gorm.DB
	productos repository.ProductoRepository
	notifier  *notifierSpy
	correos   *encoladorSpy
	alertas   *AlertaStock
}

func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	db := testutil.NewDB(t)
	correos := &encoladorSpy{}
	return &entorno{
		db:        db,
		productos: repository.NewProductoRepository(db),
		notifier:  &notifierSpy{},
		correos:   correos,
		alertas:   NewAlertaStock(correos, "gerencia@example.com"),
	}
}

func (e *entorno) productoService() ProductoService {
	return NewProductoService(e.productos, repository.NewMovimientoStockRepository(e.db), nil, e.notifier, e.alertas)
}

func (e *entorno) ventaService() VentaService {
	return NewVentaService(
		repository.NewVentaRepository(e.db),
		e.productos,
		repository.NewMovimientoStockRepository(e.db),
		repository.NewCajaRepository(e.db),
		nil, e.notifier, e.alertas,
	)
}

func (e *entorno) inventarioService() InventarioService {
	return NewInventarioService(
		e.productos,
		repository.NewCambioInventarioRepository(e.db),
		repository.NewMovimientoStockRepository(e.db),
		nil, e.notifier, e.alertas,
	)
}

// sembrar inserts a product directly, bypassing the service.
func (e *entorno) sembrar(t *testing.T, nombre string, stock string) *model.Producto {
	t.Helper()
	p := &model.Producto{
		Nombre:          nombre,
		Precio:          decimal.NewFromInt(100),
		Stock:           decimal.RequireFromString(stock),
		UmbralStockBajo: decimal.NewFromInt(1),
		Unidad:          "unidad",
	}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *entorno) stock(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	p, err := e.productos.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func (e *entorno) contar(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Count(&n).Error)
	return n
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
