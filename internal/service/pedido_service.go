package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"interfaz/internal/apierror"
	"interfaz/internal/dto"
	"interfaz/internal/model"
	"interfaz/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const formatoDia = "2006-01-02"

type PedidoService interface {
	Crear(ctx context.Context, actor model.Actor, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	ActualizarEstado(ctx context.Context, id uuid.UUID, req dto.ActualizarEstadoPedidoRequest) (*dto.PedidoResponse, error)
}

type pedidoService struct {
	repo repository.PedidoRepository
}

func NewPedidoService(repo repository.PedidoRepository) PedidoService {
	return &pedidoService{repo: repo}
}

// ── Crear ────────────────────────────────────────────────────────────────────
// Header, items and the persisted total are written in one transaction. The
// total is Σ quantity × unit_price and is never recomputed afterwards.

func (s *pedidoService) Crear(ctx context.Context, actor model.Actor, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	cliente := strings.TrimSpace(req.ClienteNombre)
	if cliente == "" {
		return nil, apierror.Field("customer_name", "Este campo es requerido.")
	}
	fecha := time.Now()
	if req.Fecha != "" {
		f, err := time.ParseInLocation(formatoDia, req.Fecha, time.Local)
		if err != nil {
			return nil, apierror.Field("date", "Formato de fecha inválido. Use AAAA-MM-DD.")
		}
		fecha = f
	}

	items := make([]model.PedidoItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = itemPedido(it)
	}

	pedido := model.Pedido{
		ClienteNombre: cliente,
		Fecha:         fecha,
		MetodoPago:    req.MetodoPago,
		Notas:         req.Notas,
		Estado:        model.PedidoPendiente,
		UsuarioID:     actor.UsuarioID(),
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &pedido); err != nil {
			return fmt.Errorf("crear pedido: %w", err)
		}
		total := decimal.Zero
		for i := range items {
			items[i].PedidoID = pedido.ID
			if err := s.repo.CreateItemTx(tx, &items[i]); err != nil {
				return fmt.Errorf("crear item de pedido: %w", err)
			}
			total = total.Add(items[i].Total)
		}
		pedido.TotalAmount = total
		return s.repo.UpdateTotalTx(tx, pedido.ID, total)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("pedido_id", pedido.ID.String()).
		Str("cliente", cliente).
		Str("total", pedido.TotalAmount.String()).
		Msg("pedido registrado")

	pedido.Items = items
	pedido.Usuario = usuarioDeActor(actor)
	resp := pedidoToResponse(&pedido)
	return &resp, nil
}

// itemPedido applies the defaults: quantity 1, unit price 0.
func itemPedido(req dto.ItemPedidoRequest) model.PedidoItem {
	cantidad := 1
	if req.Cantidad != nil {
		cantidad = *req.Cantidad
	}
	precio := decimal.Zero
	if req.PrecioUnitario != nil {
		precio = *req.PrecioUnitario
	}
	return model.PedidoItem{
		ProductoNombre: strings.TrimSpace(req.ProductoNombre),
		Cantidad:       cantidad,
		PrecioUnitario: precio,
		Total:          precio.Mul(decimal.NewFromInt(int64(cantidad))),
	}
}

// ── Lectura / estado ─────────────────────────────────────────────────────────

func (s *pedidoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Pedido", id.String())
	}
	resp := pedidoToResponse(p)
	return &resp, nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	pedidos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PedidoResponse, len(pedidos))
	for i := range pedidos {
		data[i] = pedidoToResponse(&pedidos[i])
	}
	return &dto.PedidoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *pedidoService) ActualizarEstado(ctx context.Context, id uuid.UUID, req dto.ActualizarEstadoPedidoRequest) (*dto.PedidoResponse, error) {
	if err := s.repo.UpdateEstado(ctx, id, req.Estado); err != nil {
		return nil, noEncontrado(err, "Pedido", id.String())
	}
	return s.ObtenerPorID(ctx, id)
}

func pedidoToResponse(p *model.Pedido) dto.PedidoResponse {
	items := make([]dto.ItemPedidoResponse, len(p.Items))
	for i, it := range p.Items {
		items[i] = dto.ItemPedidoResponse{
			ID:             it.ID.String(),
			ProductoNombre: it.ProductoNombre,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Total:          it.Total,
		}
	}
	return dto.PedidoResponse{
		ID:            p.ID.String(),
		ClienteNombre: p.ClienteNombre,
		Fecha:         p.Fecha.Format(formatoDia),
		MetodoPago:    p.MetodoPago,
		Items:         items,
		TotalAmount:   p.TotalAmount,
		Notas:         p.Notas,
		Estado:        p.Estado,
		CreatedAt:     formatearFecha(p.CreatedAt),
		Usuario:       nombreUsuario(p.Usuario),
	}
}
