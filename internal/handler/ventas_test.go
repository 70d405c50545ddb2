package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"interfaz/internal/dto"
	"interfaz/internal/middleware"
	"interfaz/internal/model"
	"interfaz/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubVentaService struct {
	err      error
	recibida *dto.RegistrarVentaRequest
}

func (s *stubVentaService) Registrar(_ context.Context, _ model.Actor, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	s.recibida = &req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.VentaResponse{ID: uuid.NewString(), TotalAmount: decimal.NewFromInt(10), MetodoPago: req.MetodoPago}, nil
}

func (s *stubVentaService) ObtenerPorID(_ context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.VentaResponse{ID: id.String()}, nil
}

func (s *stubVentaService) Listar(context.Context, dto.VentaFilter) (*dto.VentaListResponse, error) {
	return &dto.VentaListResponse{}, s.err
}

func (s *stubVentaService) GenerarTicket(context.Context, uuid.UUID) ([]byte, error) {
	return []byte("%PDF-1.3"), s.err
}

func routerVentas(svc service.VentaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	h := NewVentasHandler(svc)
	r.POST("/v1/ventas", h.Registrar)
	r.GET("/v1/ventas", h.Listar)
	r.GET("/v1/ventas/:id", h.ObtenerPorID)
	r.GET("/v1/ventas/:id/ticket", h.Ticket)
	return r
}

func hacer(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type cuerpoValidacion struct {
	Detail string              `json:"detail"`
	Fields map[string][]string `json:"fields"`
}

func decodificar(t *testing.T, w *httptest.ResponseRecorder) cuerpoValidacion {
	t.Helper()
	var b cuerpoValidacion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return b
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestRegistrarVenta_Creada(t *testing.T) {
	svc := &stubVentaService{}
	r := routerVentas(svc)

	w := hacer(r, http.MethodPost, "/v1/ventas",
		`{"payment_method":"Efectivo","items":[{"product_id":"`+uuid.NewString()+`","quantity":"2","price":100}]}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.recibida)
	assert.True(t, svc.recibida.Items[0].Cantidad.Equal(decimal.NewFromInt(2)))
}

func TestRegistrarVenta_Validacion(t *testing.T) {
	r := routerVentas(&stubVentaService{})

	casos := []struct {
		nombre string
		body   string
		campo  string
	}{
		{"sin items", `{"payment_method":"Efectivo"}`, "items"},
		{"items vacio", `{"payment_method":"Efectivo","items":[]}`, "items"},
		{"metodo invalido", `{"payment_method":"Cheque","items":[{"product_id":"x","quantity":1,"price":1}]}`, "payment_method"},
		{"cantidad cero", `{"payment_method":"Efectivo","items":[{"product_id":"x","quantity":0,"price":1}]}`, "items[0].quantity"},
		{"precio negativo", `{"payment_method":"Efectivo","items":[{"product_id":"x","quantity":1,"price":-1}]}`, "items[0].price"},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			w := hacer(r, http.MethodPost, "/v1/ventas", c.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, decodificar(t, w).Fields, c.campo)
		})
	}
}

func TestRegistrarVenta_JSONInvalido(t *testing.T) {
	w := hacer(routerVentas(&stubVentaService{}), http.MethodPost, "/v1/ventas", `{"items":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegistrarVenta_ErroresDeServicio(t *testing.T) {
	casos := []struct {
		nombre string
		err    error
		status int
	}{
		{"stock insuficiente", &service.StockInsuficienteError{Producto: "Café", Necesario: decimal.NewFromInt(3), Disponible: decimal.NewFromInt(1)}, http.StatusBadRequest},
		{"producto del payload inexistente", &service.NoEncontradoError{Entidad: "Producto", ID: "x"}, http.StatusBadRequest},
		{"producto con historial", service.ErrProductoConHistorial, http.StatusConflict},
		{"clave foranea violada", fmt.Errorf("crear item: %w", gorm.ErrForeignKeyViolated), http.StatusConflict},
		{"error interno", errors.New("db caida"), http.StatusInternalServerError},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			r := routerVentas(&stubVentaService{err: c.err})
			w := hacer(r, http.MethodPost, "/v1/ventas",
				`{"payment_method":"Efectivo","items":[{"product_id":"x","quantity":1,"price":1}]}`)
			assert.Equal(t, c.status, w.Code)
			assert.NotContains(t, w.Body.String(), "db caida")
		})
	}
}

func TestObtenerVenta(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, hacer(routerVentas(&stubVentaService{}), http.MethodGet, "/v1/ventas/abc", "").Code)

	nf := &stubVentaService{err: &service.NoEncontradoError{Entidad: "Venta", ID: "x"}}
	assert.Equal(t, http.StatusNotFound, hacer(routerVentas(nf), http.MethodGet, "/v1/ventas/"+uuid.NewString(), "").Code)
}

func TestListarVentas_FechaInvalida(t *testing.T) {
	r := routerVentas(&stubVentaService{})

	w := hacer(r, http.MethodGet, "/v1/ventas?date=20-01-2026", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodificar(t, w).Fields, "date")

	assert.Equal(t, http.StatusOK, hacer(r, http.MethodGet, "/v1/ventas?date=2026-01-20", "").Code)
}

func TestTicketVenta(t *testing.T) {
	w := hacer(routerVentas(&stubVentaService{}), http.MethodGet, "/v1/ventas/"+uuid.NewString()+"/ticket", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}
