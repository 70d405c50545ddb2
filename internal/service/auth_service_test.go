package service

import (
	"context"
	"testing"

	"interfaz/internal/config"
	"interfaz/internal/dto"
	"interfaz/internal/model"
	"interfaz/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *entorno) authService() AuthService {
	cfg := &config.Config{JWTSecret: "secreto-de-prueba", JWTExpirationHours: 1, JWTRefreshHours: 2}
	return NewAuthService(repository.NewUsuarioRepository(e.db), repository.NewRolRepository(e.db), cfg)
}

func TestCrearUsuario_RolPorDefectoYCreadoAlVuelo(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.authService()

	ana, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{Username: " ana ", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, "ana", ana.Username)
	assert.Equal(t, model.RolCajero, ana.Rol)
	require.NotNil(t, ana.RolID)

	beto, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{Username: "beto", Password: "clave-segura", RoleName: model.RolEncargado})
	require.NoError(t, err)
	assert.Equal(t, model.RolEncargado, beto.Rol)

	caro, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{Username: "caro", Password: "clave-segura", RoleName: model.RolCajero})
	require.NoError(t, err)
	assert.Equal(t, *ana.RolID, *caro.RolID)

	assert.Equal(t, int64(2), e.contar(t, &model.Rol{}))
	roles, err := svc.ListarRoles(context.Background())
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}

func TestLogin_UsuarioCreado(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.authService()
	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{Username: "ana", Password: "clave-segura"})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "clave-segura"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, model.RolCajero, resp.User.Rol)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "otra-clave"})
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)

	renovado, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "ana", renovado.User.Username)

	_, err = svc.Refresh(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalido)
}
