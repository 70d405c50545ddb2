package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"interfaz/internal/apierror"
	"interfaz/internal/cache"
	"interfaz/internal/dto"
	"interfaz/internal/model"
	"interfaz/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventarioService applies manual stock changes and exposes the stock ledger.
type InventarioService interface {
	RegistrarCambio(ctx context.Context, actor model.Actor, req dto.CambioInventarioRequest) (*dto.CambioInventarioResponse, error)
	ListarCambios(ctx context.Context, filter dto.MovimientoStockFilter) (*dto.CambioInventarioListResponse, error)
	ListarAuditoria(ctx context.Context, filter dto.MovimientoStockFilter) (*dto.AuditoriaListResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoStockFilter) (*dto.AuditoriaListResponse, error)
}

type inventarioService struct {
	productoRepo repository.ProductoRepository
	cambios      repository.CambioInventarioRepository
	movimientos  repository.MovimientoStockRepository
	cache        *cache.ProductoCache
	notifier     StockNotifier
	alertas      *AlertaStock
}

func NewInventarioService(
	productoRepo repository.ProductoRepository,
	cambios repository.CambioInventarioRepository,
	movimientos repository.MovimientoStockRepository,
	cache *cache.ProductoCache,
	notifier StockNotifier,
	alertas *AlertaStock,
) InventarioService {
	return &inventarioService{
		productoRepo: productoRepo,
		cambios:      cambios,
		movimientos:  movimientos,
		cache:        cache,
		notifier:     notifier,
		alertas:      alertas,
	}
}

// NormalizarCantidad accepts a JSON number or numeric string and returns its
// magnitude. The direction of a change is carried by its type only.
func NormalizarCantidad(raw json.RawMessage) (decimal.Decimal, error) {
	texto := strings.TrimSpace(string(raw))
	if texto == "" || texto == "null" {
		return decimal.Zero, apierror.Field("quantity", "La cantidad es requerida.")
	}
	invalida := apierror.Field("quantity", "Cantidad inválida.")

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return decimal.Zero, invalida
	}

	var literal string
	switch t := v.(type) {
	case json.Number:
		literal = t.String()
	case string:
		literal = strings.TrimSpace(t)
	default:
		return decimal.Zero, invalida
	}
	d, err := decimal.NewFromString(literal)
	if err != nil {
		return decimal.Zero, invalida
	}
	fe := apierror.FieldErrors{}
	validarDecimales("quantity", d, decimalesCantidad, fe)
	if fe.Any() {
		return decimal.Zero, fe
	}
	return d.Abs(), nil
}

// ── RegistrarCambio ──────────────────────────────────────────────────────────
// Locks the product row, applies the change and writes the change record and
// its ledger row in the same transaction. A Salida larger than the stock is
// rejected.

func (s *inventarioService) RegistrarCambio(ctx context.Context, actor model.Actor, req dto.CambioInventarioRequest) (*dto.CambioInventarioResponse, error) {
	cantidad, err := NormalizarCantidad(req.Cantidad)
	if err != nil {
		return nil, err
	}
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, apierror.Field("product", fmt.Sprintf("Pk inválido \"%s\" - el objeto no existe.", req.ProductoID))
	}
	motivo := strings.TrimSpace(req.Motivo)

	var cambio model.CambioInventario
	var producto *model.Producto
	var cruzoUmbral bool

	txErr := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		bloqueados, err := s.productoRepo.LockForUpdateTx(tx, []uuid.UUID{productoID})
		if err != nil {
			return err
		}
		p, ok := bloqueados[productoID]
		if !ok {
			return apierror.Field("product", fmt.Sprintf("Pk inválido \"%s\" - el objeto no existe.", req.ProductoID))
		}
		producto = p

		anterior := p.Stock
		delta := cantidad
		if req.Tipo == model.TipoSalida {
			if anterior.LessThan(cantidad) {
				return &StockInsuficienteError{Producto: p.Nombre, Necesario: cantidad, Disponible: anterior}
			}
			delta = cantidad.Neg()
		}
		p.Stock = anterior.Add(delta)
		if err := s.productoRepo.SetStockTx(tx, p.ID, p.Stock); err != nil {
			return err
		}

		cambio = model.CambioInventario{
			ProductoID: p.ID,
			Tipo:       req.Tipo,
			Cantidad:   cantidad,
			Motivo:     motivo,
			UsuarioID:  actor.UsuarioID(),
		}
		if err := s.cambios.CreateTx(tx, &cambio); err != nil {
			return fmt.Errorf("crear cambio de inventario: %w", err)
		}

		mov := &model.MovimientoStock{
			ProductoID:         p.ID,
			Tipo:               req.Tipo,
			Cantidad:           delta,
			StockAnterior:      anterior,
			StockNuevo:         p.Stock,
			Motivo:             motivo,
			CambioInventarioID: &cambio.ID,
			UsuarioID:          actor.UsuarioID(),
			Rol:                actor.Rol,
		}
		if err := s.movimientos.CreateTx(tx, mov); err != nil {
			return err
		}

		cruzoUmbral = anterior.GreaterThan(p.UmbralStockBajo) && p.StockBajo()
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.cache.Invalidar(ctx, producto.ID)
	publicar(s.notifier, []dto.EventoStock{eventoDe(producto)})
	if cruzoUmbral {
		s.alertas.Avisar(ctx, []model.Producto{*producto})
	}

	log.Info().
		Str("producto_id", producto.ID.String()).
		Str("tipo", cambio.Tipo).
		Str("cantidad", cantidad.String()).
		Str("stock_nuevo", producto.Stock.String()).
		Msg("cambio de inventario registrado")

	cambio.Producto = producto
	cambio.Usuario = usuarioDeActor(actor)
	resp := cambioToResponse(&cambio)
	return &resp, nil
}

// ── Lectura ──────────────────────────────────────────────────────────────────

func (s *inventarioService) ListarCambios(ctx context.Context, filter dto.MovimientoStockFilter) (*dto.CambioInventarioListResponse, error) {
	var productoID *uuid.UUID
	if filter.ProductoID != "" {
		id, err := uuid.Parse(filter.ProductoID)
		if err != nil {
			return nil, apierror.Field("product", "Debe ser un UUID válido.")
		}
		productoID = &id
	}
	cambios, total, err := s.cambios.List(ctx, productoID, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CambioInventarioResponse, len(cambios))
	for i := range cambios {
		data[i] = cambioToResponse(&cambios[i])
	}
	return &dto.CambioInventarioListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ListarAuditoria returns the ledger rows produced by manual changes.
func (s *inventarioService) ListarAuditoria(ctx context.Context, filter dto.MovimientoStockFilter) (*dto.AuditoriaListResponse, error) {
	filter.SoloCambios = true
	return s.listar(ctx, filter)
}

// ListarMovimientos returns every ledger row: sales, recipe deductions,
// edits and manual changes.
func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoStockFilter) (*dto.AuditoriaListResponse, error) {
	filter.SoloCambios = false
	return s.listar(ctx, filter)
}

func (s *inventarioService) listar(ctx context.Context, filter dto.MovimientoStockFilter) (*dto.AuditoriaListResponse, error) {
	if filter.ProductoID != "" {
		if _, err := uuid.Parse(filter.ProductoID); err != nil {
			return nil, apierror.Field("product", "Debe ser un UUID válido.")
		}
	}
	movs, total, err := s.movimientos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.AuditoriaInventarioResponse, len(movs))
	for i := range movs {
		data[i] = movimientoToResponse(&movs[i])
	}
	return &dto.AuditoriaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func cambioToResponse(c *model.CambioInventario) dto.CambioInventarioResponse {
	resp := dto.CambioInventarioResponse{
		ID:        c.ID.String(),
		Producto:  c.ProductoID.String(),
		Tipo:      c.Tipo,
		Cantidad:  c.Cantidad,
		Motivo:    c.Motivo,
		Usuario:   nombreUsuario(c.Usuario),
		Timestamp: formatearFecha(c.CreatedAt),
	}
	if c.Producto != nil {
		resp.ProductoNombre = c.Producto.Nombre
	}
	return resp
}

func movimientoToResponse(m *model.MovimientoStock) dto.AuditoriaInventarioResponse {
	resp := dto.AuditoriaInventarioResponse{
		ID:            m.ID.String(),
		Producto:      m.ProductoID.String(),
		Usuario:       nombreUsuario(m.Usuario),
		Rol:           m.Rol,
		TipoCambio:    m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Motivo:        m.Motivo,
		Timestamp:     formatearFecha(m.CreatedAt),
	}
	if m.CambioInventarioID != nil {
		resp.CambioInventario = strPtr(m.CambioInventarioID.String())
	}
	if m.Producto != nil {
		resp.ProductoNombre = m.Producto.Nombre
	}
	return resp
}
