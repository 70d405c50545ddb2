package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"interfaz/internal/apierror"
	"interfaz/internal/dto"
	"interfaz/internal/model"
	"interfaz/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CompraService manages supplier purchases. Approving a purchase records the
// decision only; it does not move stock.
type CompraService interface {
	Crear(ctx context.Context, actor model.Actor, req dto.CrearCompraRequest) (*dto.CompraResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	Listar(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error)
	Aprobar(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.CompraResponse, error)
	Rechazar(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.CompraResponse, error)
}

type compraService struct {
	repo repository.CompraRepository
}

func NewCompraService(repo repository.CompraRepository) CompraService {
	return &compraService{repo: repo}
}

func (s *compraService) Crear(ctx context.Context, actor model.Actor, req dto.CrearCompraRequest) (*dto.CompraResponse, error) {
	proveedor := strings.TrimSpace(req.Proveedor)
	if proveedor == "" {
		return nil, apierror.Field("supplier", "Este campo es requerido.")
	}
	items := datatypes.JSON("[]")
	if len(bytes.TrimSpace(req.Items)) > 0 && string(bytes.TrimSpace(req.Items)) != "null" {
		if !json.Valid(req.Items) {
			return nil, apierror.Field("items", "Valor JSON inválido.")
		}
		items = datatypes.JSON(req.Items)
	}

	c := &model.Compra{
		Proveedor:   proveedor,
		Items:       items,
		TotalAmount: req.TotalAmount,
		Notas:       req.Notas,
		Estado:      model.EstadoPendiente,
		UsuarioID:   actor.UsuarioID(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	log.Info().Str("compra_id", c.ID.String()).Str("proveedor", proveedor).Msg("compra registrada")

	c.Usuario = usuarioDeActor(actor)
	resp := compraToResponse(c)
	return &resp, nil
}

func (s *compraService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Compra", id.String())
	}
	resp := compraToResponse(c)
	return &resp, nil
}

func (s *compraService) Listar(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error) {
	compras, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CompraResponse, len(compras))
	for i := range compras {
		data[i] = compraToResponse(&compras[i])
	}
	return &dto.CompraListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *compraService) Aprobar(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.CompraResponse, error) {
	return s.decidir(ctx, actor, id, model.EstadoAprobada)
}

func (s *compraService) Rechazar(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.CompraResponse, error) {
	return s.decidir(ctx, actor, id, model.EstadoRechazada)
}

// decidir moves a Pendiente purchase to its final state.
func (s *compraService) decidir(ctx context.Context, actor model.Actor, id uuid.UUID, estado string) (*dto.CompraResponse, error) {
	ahora := time.Now().UTC()
	ok, err := s.repo.UpdateEstado(ctx, &model.Compra{
		ID:            id,
		Estado:        estado,
		AprobadoPorID: actor.UsuarioID(),
		AprobadoEn:    &ahora,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return nil, noEncontrado(err, "Compra", id.String())
		}
		return nil, ErrEstadoInvalido
	}
	log.Info().Str("compra_id", id.String()).Str("estado", estado).Msg("compra decidida")
	return s.ObtenerPorID(ctx, id)
}

// ── Total ────────────────────────────────────────────────────────────────────

// CalcularTotalCompra folds Σ quantity × unit price over free-form items.
// Quantity is read from "quantity" or "qty" and the price from "unitPrice",
// "unit_price" or "price"; the first truthy key wins and a missing one counts
// as 0. Items whose values are not numeric are skipped. When items is not a
// JSON list the stored total is returned unchanged.
func CalcularTotalCompra(items []byte, almacenado decimal.Decimal) decimal.Decimal {
	dec := json.NewDecoder(bytes.NewReader(items))
	dec.UseNumber()
	var lista []interface{}
	if err := dec.Decode(&lista); err != nil || lista == nil {
		return almacenado
	}

	total := decimal.Zero
	for _, raw := range lista {
		item, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		cantidad, ok := decimalDe(primerValor(item, "quantity", "qty"))
		if !ok {
			continue
		}
		precio, ok := decimalDe(primerValor(item, "unitPrice", "unit_price", "price"))
		if !ok {
			continue
		}
		total = total.Add(cantidad.Mul(precio))
	}
	return total
}

// primerValor returns the first truthy value among keys, or nil.
func primerValor(item map[string]interface{}, claves ...string) interface{} {
	for _, k := range claves {
		if v, ok := item[k]; ok && esVerdadero(v) {
			return v
		}
	}
	return nil
}

func esVerdadero(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return err != nil || !d.IsZero()
	case string:
		return t != ""
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	}
	return true
}

// decimalDe parses numbers and numeric strings; nil counts as zero.
func decimalDe(v interface{}) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case nil:
		return decimal.Zero, true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	}
	return decimal.Zero, false
}

func compraToResponse(c *model.Compra) dto.CompraResponse {
	resp := dto.CompraResponse{
		ID:          c.ID.String(),
		Proveedor:   c.Proveedor,
		Items:       json.RawMessage(c.Items),
		TotalAmount: c.TotalAmount,
		Total:       CalcularTotalCompra(c.Items, c.TotalAmount),
		Notas:       c.Notas,
		Estado:      c.Estado,
		Usuario:     nombreUsuario(c.Usuario),
		AprobadoPor: nombreUsuario(c.AprobadoPor),
		CreatedAt:   formatearFecha(c.CreatedAt),
	}
	if len(c.Items) == 0 {
		resp.Items = json.RawMessage("[]")
	}
	if c.AprobadoEn != nil {
		resp.AprobadoEn = strPtr(formatearFecha(*c.AprobadoEn))
	}
	return resp
}
