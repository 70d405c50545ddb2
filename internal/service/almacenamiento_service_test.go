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

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valor(raw string) dto.GuardarValorRequest {
	return dto.GuardarValorRequest{Valor: json.RawMessage(raw)}
}

func TestGuardarValor_ReemplazaConservandoID(t *testing.T) {
	e := nuevoEntorno(t)
	svc := NewAlmacenamientoService(repository.NewAlmacenamientoRepository(e.db))

	primero, err := svc.Guardar(context.Background(), cajero, "tema", valor(`{"modo":"claro"}`))
	require.NoError(t, err)
	segundo, err := svc.Guardar(context.Background(), cajero, " tema ", valor(`{"modo":"oscuro"}`))
	require.NoError(t, err)

	assert.Equal(t, primero.ID, segundo.ID)
	assert.JSONEq(t, `{"modo":"oscuro"}`, string(segundo.Valor))
	assert.Equal(t, int64(1), e.contar(t, &model.AlmacenamientoUsuario{}))
}

func TestAlmacenamiento_AisladoPorUsuario(t *testing.T) {
	e := nuevoEntorno(t)
	svc := NewAlmacenamientoService(repository.NewAlmacenamientoRepository(e.db))
	otro := model.Actor{ID: uuid.New(), Username: "cajero2", Rol: model.RolCajero}

	_, err := svc.Guardar(context.Background(), cajero, "borrador", valor(`[1,2]`))
	require.NoError(t, err)

	items, err := svc.Listar(context.Background(), otro)
	require.NoError(t, err)
	assert.Empty(t, items)

	var nf *NoEncontradoError
	_, err = svc.Obtener(context.Background(), otro, "borrador")
	assert.True(t, errors.As(err, &nf))
	assert.True(t, errors.As(svc.Eliminar(context.Background(), otro, "borrador"), &nf))

	require.NoError(t, svc.Eliminar(context.Background(), cajero, "borrador"))
	assert.True(t, errors.As(svc.Eliminar(context.Background(), cajero, "borrador"), &nf))
}

func TestGuardarValor_Validacion(t *testing.T) {
	e := nuevoEntorno(t)
	svc := NewAlmacenamientoService(repository.NewAlmacenamientoRepository(e.db))

	var fe apierror.FieldErrors
	_, err := svc.Guardar(context.Background(), cajero, "  ", valor(`1`))
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "key")

	_, err = svc.Guardar(context.Background(), cajero, "tema", valor(`{"modo":`))
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "value")
}
