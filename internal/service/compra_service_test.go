package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"interfaz/internal/apierror"
	"interfaz/internal/dto"
	"interfaz/internal/model"
	"interfaz/internal/repository"
	"interfaz/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcularTotalCompra(t *testing.T) {
	almacenado := decimal.NewFromInt(999)
	casos := []struct {
		nombre string
		items  string
		want   string
	}{
		{"claves camelCase", `[{"quantity": 2, "unitPrice": 10.5}]`, "21"},
		{"claves alternativas", `[{"qty": "3", "unit_price": "4"}, {"quantity": 1, "price": 7}]`, "19"},
		{"precio faltante cuenta cero", `[{"quantity": 5}]`, "0"},
		{"primer valor verdadero gana", `[{"quantity": 0, "qty": 2, "unitPrice": 3}]`, "6"},
		{"items no numericos se omiten", `[{"quantity": "mucho", "price": 3}, {"quantity": 1, "price": 2}]`, "2"},
		{"lista vacia", `[]`, "0"},
		{"no es lista", `{"quantity": 1}`, "999"},
		{"json invalido", `not json`, "999"},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			assertDecimal(t, c.want, CalcularTotalCompra([]byte(c.items), almacenado))
		})
	}
}

func TestCompra_AprobarSoloPendiente(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCompraService(repository.NewCompraRepository(db))
	gerente := model.Actor{ID: uuid.New(), Username: "gerente", Rol: model.RolGerente}

	creada, err := svc.Crear(context.Background(), cajero, dto.CrearCompraRequest{
		Proveedor: " Molino Sur ",
		Items:     json.RawMessage(`[{"quantity": 2, "unitPrice": 100}]`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Molino Sur", creada.Proveedor)
	assert.Equal(t, model.EstadoPendiente, creada.Estado)
	assertDecimal(t, "200", creada.Total)
	id := uuid.MustParse(creada.ID)

	aprobada, err := svc.Aprobar(context.Background(), gerente, id)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoAprobada, aprobada.Estado)
	assert.NotNil(t, aprobada.AprobadoEn)

	_, err = svc.Rechazar(context.Background(), gerente, id)
	assert.ErrorIs(t, err, ErrEstadoInvalido)

	_, err = svc.Aprobar(context.Background(), gerente, uuid.New())
	var nf *NoEncontradoError
	assert.True(t, errors.As(err, &nf))
}

func TestCompra_ItemsInvalidos(t *testing.T) {
	svc := NewCompraService(repository.NewCompraRepository(testutil.NewDB(t)))

	_, err := svc.Crear(context.Background(), cajero, dto.CrearCompraRequest{
		Proveedor: "Molino Sur",
		Items:     json.RawMessage(`[{`),
	})

	var fe apierror.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "items")
}

func TestCompra_SinItemsGuardaListaVacia(t *testing.T) {
	svc := NewCompraService(repository.NewCompraRepository(testutil.NewDB(t)))

	resp, err := svc.Crear(context.Background(), cajero, dto.CrearCompraRequest{
		Proveedor:   "Molino Sur",
		TotalAmount: decimal.NewFromInt(50),
	})

	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(resp.Items))
	assertDecimal(t, "0", resp.Total)
}
