package handler

import (
	"net/http"

	"interfaz/internal/dto"
	"interfaz/internal/middleware"
	"interfaz/internal/service"

	"github.com/gin-gonic/gin"
)

// ── Almacenamiento por usuario ───────────────────────────────────────────────

type AlmacenamientoHandler struct{ svc service.AlmacenamientoService }

func NewAlmacenamientoHandler(svc service.AlmacenamientoService) *AlmacenamientoHandler {
	return &AlmacenamientoHandler{svc: svc}
}

func (h *AlmacenamientoHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AlmacenamientoHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), middleware.Actor(c), c.Param("clave"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AlmacenamientoHandler) Guardar(c *gin.Context) {
	var req dto.GuardarValorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Guardar(c.Request.Context(), middleware.Actor(c), c.Param("clave"), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AlmacenamientoHandler) Eliminar(c *gin.Context) {
	if err := h.svc.Eliminar(c.Request.Context(), middleware.Actor(c), c.Param("clave")); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Consultas ────────────────────────────────────────────────────────────────

type ConsultasHandler struct{ svc service.ConsultaService }

func NewConsultasHandler(svc service.ConsultaService) *ConsultasHandler {
	return &ConsultasHandler{svc: svc}
}

func (h *ConsultasHandler) Crear(c *gin.Context) {
	var req dto.CrearConsultaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ConsultasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConsultasHandler) ActualizarEstado(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarConsultaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarEstado(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
