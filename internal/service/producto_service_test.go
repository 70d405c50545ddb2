package service

import (
	"context"
	"errors"
	"testing"

	"interfaz/internal/apierror"
	"interfaz/internal/dto"
	"interfaz/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineaReceta(id uuid.UUID, cantidad string) dto.RecetaIngredienteRequest {
	s := id.String()
	return dto.RecetaIngredienteRequest{Ingrediente: &s, Cantidad: dec(cantidad), Unidad: "kg"}
}

func TestCrearProducto_DescuentaInsumos(t *testing.T) {
	e := nuevoEntorno(t)
	harina := e.sembrar(t, "Harina", "10")
	svc := e.productoService()

	resp, err := svc.Crear(context.Background(), cajero, dto.CrearProductoRequest{
		Nombre:             "  Pan  ",
		Precio:             dec("150"),
		Stock:              dec("3"),
		RecetaIngredientes: []dto.RecetaIngredienteRequest{lineaReceta(harina.ID, "2")},
	})

	require.NoError(t, err)
	assert.Equal(t, "Pan", resp.Nombre)
	assertDecimal(t, "3", resp.Stock)
	assert.Equal(t, model.EstadoActivo, resp.Estado)
	require.Len(t, resp.Receta, 1)
	assert.Equal(t, "Harina", resp.Receta[0].IngredienteNombre)

	assertDecimal(t, "4", e.stock(t, harina.ID))
	assert.Equal(t, int64(1), e.contar(t, &model.MovimientoStock{}))
	require.Len(t, e.notifier.eventos, 1)
	assert.Equal(t, harina.ID.String(), e.notifier.eventos[0].ProductoID)
}

func TestCrearProducto_LineasRepetidasSeAcumulan(t *testing.T) {
	e := nuevoEntorno(t)
	harina := e.sembrar(t, "Harina", "10")

	_, err := e.productoService().Crear(context.Background(), cajero, dto.CrearProductoRequest{
		Nombre: "Pan",
		Precio: dec("150"),
		Stock:  dec("3"),
		RecetaIngredientes: []dto.RecetaIngredienteRequest{
			lineaReceta(harina.ID, "1"),
			lineaReceta(harina.ID, "1"),
		},
	})

	require.NoError(t, err)
	assertDecimal(t, "4", e.stock(t, harina.ID))
}

func TestCrearProducto_InsumoInsuficienteRevierteTodo(t *testing.T) {
	e := nuevoEntorno(t)
	harina := e.sembrar(t, "Harina", "10")
	levadura := e.sembrar(t, "Levadura", "1")

	_, err := e.productoService().Crear(context.Background(), cajero, dto.CrearProductoRequest{
		Nombre: "Pan",
		Precio: dec("150"),
		Stock:  dec("2"),
		RecetaIngredientes: []dto.RecetaIngredienteRequest{
			lineaReceta(harina.ID, "2"),
			lineaReceta(levadura.ID, "1"),
		},
	})

	var stockErr *StockInsuficienteError
	require.True(t, errors.As(err, &stockErr), "got %v", err)
	assert.True(t, stockErr.Insumo)
	assert.Equal(t, "Levadura", stockErr.Producto)
	assert.Contains(t, err.Error(), "No hay suficiente stock para el insumo 'Levadura'")

	assertDecimal(t, "10", e.stock(t, harina.ID))
	assert.Equal(t, int64(2), e.contar(t, &model.Producto{}))
	assert.Zero(t, e.contar(t, &model.RecetaIngrediente{}))
	assert.Zero(t, e.contar(t, &model.MovimientoStock{}))
	assert.Empty(t, e.notifier.eventos)
}

func TestCrearProducto_SinStockNoDescuenta(t *testing.T) {
	e := nuevoEntorno(t)
	harina := e.sembrar(t, "Harina", "1")

	resp, err := e.productoService().Crear(context.Background(), cajero, dto.CrearProductoRequest{
		Nombre:             "Pan",
		Precio:             dec("150"),
		RecetaIngredientes: []dto.RecetaIngredienteRequest{lineaReceta(harina.ID, "5")},
	})

	require.NoError(t, err)
	assert.Equal(t, model.EstadoInactivo, resp.Estado)
	assertDecimal(t, "5", resp.UmbralStockBajo)
	assert.Equal(t, "unidad", resp.Unidad)
	assertDecimal(t, "1", e.stock(t, harina.ID))
}

func TestCrearProducto_LineasIncompletasSeGuardan(t *testing.T) {
	e := nuevoEntorno(t)

	resp, err := e.productoService().Crear(context.Background(), cajero, dto.CrearProductoRequest{
		Nombre:             "Pan",
		Precio:             dec("150"),
		Stock:              dec("4"),
		RecetaIngredientes: []dto.RecetaIngredienteRequest{{Unidad: "g"}},
	})

	require.NoError(t, err)
	require.Len(t, resp.Receta, 1)
	assert.Nil(t, resp.Receta[0].Ingrediente)
}

func TestCrearProducto_Validacion(t *testing.T) {
	e := nuevoEntorno(t)

	_, err := e.productoService().Crear(context.Background(), cajero, dto.CrearProductoRequest{
		Nombre:          "   ",
		Precio:          dec("0"),
		Stock:           dec("-1"),
		UmbralStockBajo: dec("-2"),
		RecetaIngredientes: []dto.RecetaIngredienteRequest{
			lineaReceta(uuid.New(), "1"),
		},
	})

	var fe apierror.FieldErrors
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.Contains(t, fe, "name")
	assert.Contains(t, fe, "price")
	assert.Contains(t, fe, "stock")
	assert.Contains(t, fe, "low_stock_threshold")
	assert.Contains(t, fe, "recipe_ingredients[0].ingredient")
	assert.Zero(t, e.contar(t, &model.Producto{}))
}

func TestCrearProducto_PrecioRequerido(t *testing.T) {
	e := nuevoEntorno(t)

	_, err := e.productoService().Crear(context.Background(), cajero, dto.CrearProductoRequest{Nombre: "Pan"})

	var fe apierror.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []string{"Este campo es requerido."}, fe["price"])
}

func TestActualizarProducto_AjusteDeStock(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.sembrar(t, "Queso", "3")
	nombre := "Queso cremoso"

	resp, err := e.productoService().Actualizar(context.Background(), cajero, p.ID, dto.ActualizarProductoRequest{
		Nombre: &nombre,
		Stock:  dec("8"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Queso cremoso", resp.Nombre)
	assertDecimal(t, "8", resp.Stock)

	var mov model.MovimientoStock
	require.NoError(t, e.db.First(&mov).Error)
	assert.Equal(t, model.MovimientoAjuste, mov.Tipo)
	assertDecimal(t, "5", mov.Cantidad)
}

func TestActualizarProducto_NoEncontrado(t *testing.T) {
	e := nuevoEntorno(t)

	_, err := e.productoService().Actualizar(context.Background(), cajero, uuid.New(), dto.ActualizarProductoRequest{})

	var nf *NoEncontradoError
	assert.True(t, errors.As(err, &nf))
}

func TestEliminarProducto_InsumoEnUso(t *testing.T) {
	e := nuevoEntorno(t)
	harina := e.sembrar(t, "Harina", "10")
	svc := e.productoService()
	pan, err := svc.Crear(context.Background(), cajero, dto.CrearProductoRequest{
		Nombre:             "Pan",
		Precio:             dec("150"),
		RecetaIngredientes: []dto.RecetaIngredienteRequest{lineaReceta(harina.ID, "1")},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Eliminar(context.Background(), harina.ID), ErrProductoEnUso)

	require.NoError(t, svc.Eliminar(context.Background(), uuid.MustParse(pan.ID)))
	assert.Zero(t, e.contar(t, &model.RecetaIngrediente{}))
	require.NoError(t, svc.Eliminar(context.Background(), harina.ID))

	var nf *NoEncontradoError
	assert.True(t, errors.As(svc.Eliminar(context.Background(), harina.ID), &nf))
}

func TestListarStockBajo(t *testing.T) {
	e := nuevoEntorno(t)
	e.sembrar(t, "Harina", "1")
	e.sembrar(t, "Azúcar", "50")

	alertas, err := e.productoService().ListarStockBajo(context.Background())

	require.NoError(t, err)
	require.Len(t, alertas, 1)
}

func TestEliminarProducto_ConVentasSeConserva(t *testing.T) {
	e := nuevoEntorno(t)
	cafe := e.sembrar(t, "Café", "5")
	_, err := e.ventaService().Registrar(context.Background(), cajero, dto.RegistrarVentaRequest{
		MetodoPago: "Efectivo",
		Items:      []dto.ItemVentaRequest{item(cafe.ID, "1", "800")},
	})
	require.NoError(t, err)

	err = e.productoService().Eliminar(context.Background(), cafe.ID)

	assert.ErrorIs(t, err, ErrProductoConHistorial)
	assertDecimal(t, "4", e.stock(t, cafe.ID))
}

func TestEliminarProducto_ConCambioDeInventario(t *testing.T) {
	e := nuevoEntorno(t)
	azucar := e.sembrar(t, "Azúcar", "5")
	_, err := e.inventarioService().RegistrarCambio(context.Background(), cajero, cambio(azucar.ID, model.TipoEntrada, `2`))
	require.NoError(t, err)

	assert.ErrorIs(t, e.productoService().Eliminar(context.Background(), azucar.ID), ErrProductoConHistorial)
}

func TestCrearProducto_DecimalesDeMas(t *testing.T) {
	e := nuevoEntorno(t)
	harina := e.sembrar(t, "Harina", "10")

	_, err := e.productoService().Crear(context.Background(), cajero, dto.CrearProductoRequest{
		Nombre:             "Pan",
		Precio:             dec("0.001"),
		Stock:              dec("1.0005"),
		UmbralStockBajo:    dec("2.1234"),
		RecetaIngredientes: []dto.RecetaIngredienteRequest{lineaReceta(harina.ID, "0.0004")},
	})

	var fe apierror.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []string{"Asegúrese de que no haya más de 2 decimales."}, fe["price"])
	assert.Equal(t, []string{"Asegúrese de que no haya más de 3 decimales."}, fe["stock"])
	assert.Contains(t, fe, "low_stock_threshold")
	assert.Contains(t, fe, "recipe_ingredients[0].quantity")
	assertDecimal(t, "10", e.stock(t, harina.ID))
	assert.Equal(t, int64(1), e.contar(t, &model.Producto{}))
}

func TestCrearProducto_CerosFinalesNoCuentan(t *testing.T) {
	e := nuevoEntorno(t)

	resp, err := e.productoService().Crear(context.Background(), cajero, dto.CrearProductoRequest{
		Nombre: "Torta",
		Precio: dec("1500.500"),
		Stock:  dec("2.2500"),
	})

	require.NoError(t, err)
	assertDecimal(t, "1500.5", resp.Precio)
}

func TestCrearProducto_AvisaInsumosBajoUmbral(t *testing.T) {
	e := nuevoEntorno(t)
	harina := e.sembrar(t, "Harina", "10")
	azucar := e.sembrar(t, "Azúcar", "50")

	_, err := e.productoService().Crear(context.Background(), cajero, dto.CrearProductoRequest{
		Nombre: "Pan",
		Precio: dec("150"),
		Stock:  dec("3"),
		RecetaIngredientes: []dto.RecetaIngredienteRequest{
			lineaReceta(harina.ID, "3"),
			lineaReceta(azucar.ID, "1"),
		},
	})

	require.NoError(t, err)
	require.Len(t, e.correos.correos, 1)
	assert.Equal(t, "Stock bajo: Harina", e.correos.correos[0].Subject)
	assert.Equal(t, []string{"gerencia@example.com"}, e.correos.correos[0].To)
}

func TestCrearProducto_SinCruceNoAvisa(t *testing.T) {
	e := nuevoEntorno(t)
	harina := e.sembrar(t, "Harina", "10")

	_, err := e.productoService().Crear(context.Background(), cajero, dto.CrearProductoRequest{
		Nombre:             "Pan",
		Precio:             dec("150"),
		Stock:              dec("2"),
		RecetaIngredientes: []dto.RecetaIngredienteRequest{lineaReceta(harina.ID, "1")},
	})

	require.NoError(t, err)
	assert.Empty(t, e.correos.correos)
}
