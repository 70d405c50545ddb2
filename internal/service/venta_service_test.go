package service

import (
	"context"
	"errors"
	"testing"

	"interfaz/internal/apierror"
	"interfaz/internal/dto"
	"interfaz/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id uuid.UUID, cantidad, precio string) dto.ItemVentaRequest {
	return dto.ItemVentaRequest{
		ProductoID: id.String(),
		Cantidad:   decimal.RequireFromString(cantidad),
		Precio:     decimal.RequireFromString(precio),
	}
}

func TestRegistrarVenta_DescuentaStockYRegistraCaja(t *testing.T) {
	e := nuevoEntorno(t)
	cafe := e.sembrar(t, "Café", "10")
	medialuna := e.sembrar(t, "Medialuna", "20")

	resp, err := e.ventaService().Registrar(context.Background(), cajero, dto.RegistrarVentaRequest{
		MetodoPago: "Efectivo",
		Items: []dto.ItemVentaRequest{
			item(cafe.ID, "2", "800"),
			item(medialuna.ID, "3", "350.50"),
		},
	})

	require.NoError(t, err)
	assertDecimal(t, "2651.5", resp.TotalAmount)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Café", resp.Items[0].ProductoNombre)
	assert.Equal(t, "cajero1", *resp.Usuario)

	assertDecimal(t, "8", e.stock(t, cafe.ID))
	assertDecimal(t, "17", e.stock(t, medialuna.ID))

	var caja model.MovimientoCaja
	require.NoError(t, e.db.First(&caja).Error)
	assert.Equal(t, model.CajaIngreso, caja.Tipo)
	assertDecimal(t, "2651.5", caja.Monto)
	require.NotNil(t, caja.VentaID)
	assert.Equal(t, resp.ID, caja.VentaID.String())

	assert.Equal(t, int64(2), e.contar(t, &model.MovimientoStock{}))
	assert.Len(t, e.notifier.eventos, 2)
}

func TestRegistrarVenta_RespetaTotalEnviado(t *testing.T) {
	e := nuevoEntorno(t)
	cafe := e.sembrar(t, "Café", "10")

	resp, err := e.ventaService().Registrar(context.Background(), cajero, dto.RegistrarVentaRequest{
		MetodoPago:  "Tarjeta",
		Items:       []dto.ItemVentaRequest{item(cafe.ID, "1", "800")},
		TotalAmount: dec("750"),
	})

	require.NoError(t, err)
	assertDecimal(t, "750", resp.TotalAmount)
}

func TestRegistrarVenta_StockInsuficienteRevierte(t *testing.T) {
	e := nuevoEntorno(t)
	cafe := e.sembrar(t, "Café", "10")
	medialuna := e.sembrar(t, "Medialuna", "2")

	_, err := e.ventaService().Registrar(context.Background(), cajero, dto.RegistrarVentaRequest{
		MetodoPago: "Efectivo",
		Items: []dto.ItemVentaRequest{
			item(cafe.ID, "2", "800"),
			item(medialuna.ID, "3", "350"),
		},
	})

	var stockErr *StockInsuficienteError
	require.True(t, errors.As(err, &stockErr), "got %v", err)
	assert.Equal(t, "Stock insuficiente para Medialuna. Disponible: 2, Requerido: 3", err.Error())

	assertDecimal(t, "10", e.stock(t, cafe.ID))
	assertDecimal(t, "2", e.stock(t, medialuna.ID))
	assert.Zero(t, e.contar(t, &model.Venta{}))
	assert.Zero(t, e.contar(t, &model.VentaItem{}))
	assert.Zero(t, e.contar(t, &model.MovimientoCaja{}))
	assert.Empty(t, e.notifier.eventos)
}

func TestRegistrarVenta_ProductoInexistente(t *testing.T) {
	e := nuevoEntorno(t)
	cafe := e.sembrar(t, "Café", "10")

	for _, id := range []string{uuid.NewString(), "no-es-un-uuid"} {
		_, err := e.ventaService().Registrar(context.Background(), cajero, dto.RegistrarVentaRequest{
			MetodoPago: "Efectivo",
			Items: []dto.ItemVentaRequest{
				item(cafe.ID, "1", "800"),
				{ProductoID: id, Cantidad: decimal.NewFromInt(1)},
			},
		})

		var nf *NoEncontradoError
		require.True(t, errors.As(err, &nf), "got %v", err)
		assert.Equal(t, id, nf.ID)
	}
	assertDecimal(t, "10", e.stock(t, cafe.ID))
	assert.Zero(t, e.contar(t, &model.Venta{}))
}

func TestRegistrarVenta_MismoProductoDosVeces(t *testing.T) {
	e := nuevoEntorno(t)
	cafe := e.sembrar(t, "Café", "5")

	_, err := e.ventaService().Registrar(context.Background(), cajero, dto.RegistrarVentaRequest{
		MetodoPago: "Efectivo",
		Items: []dto.ItemVentaRequest{
			item(cafe.ID, "3", "800"),
			item(cafe.ID, "3", "800"),
		},
	})

	var stockErr *StockInsuficienteError
	require.True(t, errors.As(err, &stockErr))
	assertDecimal(t, "5", e.stock(t, cafe.ID))
}

func TestVenta_ObtenerYTicket(t *testing.T) {
	e := nuevoEntorno(t)
	cafe := e.sembrar(t, "Café", "10")
	svc := e.ventaService()
	creada, err := svc.Registrar(context.Background(), cajero, dto.RegistrarVentaRequest{
		MetodoPago: "Transferencia",
		Items:      []dto.ItemVentaRequest{item(cafe.ID, "1", "800")},
	})
	require.NoError(t, err)
	id := uuid.MustParse(creada.ID)

	got, err := svc.ObtenerPorID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Transferencia", got.MetodoPago)
	require.Len(t, got.Items, 1)

	pdf, err := svc.GenerarTicket(context.Background(), id)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	_, err = svc.ObtenerPorID(context.Background(), uuid.New())
	var nf *NoEncontradoError
	assert.True(t, errors.As(err, &nf))
}

func TestTotalVenta(t *testing.T) {
	req := dto.RegistrarVentaRequest{Items: []dto.ItemVentaRequest{
		{Cantidad: decimal.RequireFromString("1.5"), Precio: decimal.NewFromInt(10)},
		{Cantidad: decimal.NewFromInt(2), Precio: decimal.RequireFromString("0.25")},
	}}
	assertDecimal(t, "15.5", totalVenta(req))
}

func TestRegistrarVenta_DecimalesDeMas(t *testing.T) {
	e := nuevoEntorno(t)
	cafe := e.sembrar(t, "Café", "10")

	_, err := e.ventaService().Registrar(context.Background(), cajero, dto.RegistrarVentaRequest{
		MetodoPago: "Efectivo",
		Items:      []dto.ItemVentaRequest{item(cafe.ID, "1.0005", "800.001")},
	})

	var fe apierror.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "items[0].quantity")
	assert.Contains(t, fe, "items[0].price")
	assertDecimal(t, "10", e.stock(t, cafe.ID))
	assert.Zero(t, e.contar(t, &model.Venta{}))
}
