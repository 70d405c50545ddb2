package service

import (
	"context"
	"fmt"

	"interfaz/internal/apierror"
	"interfaz/internal/cache"
	"interfaz/internal/dto"
	"interfaz/internal/infra"
	"interfaz/internal/model"
	"interfaz/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	Registrar(ctx context.Context, actor model.Actor, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	GenerarTicket(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	movimientos  repository.MovimientoStockRepository
	cajaRepo     repository.CajaRepository
	cache        *cache.ProductoCache
	notifier     StockNotifier
	alertas      *AlertaStock
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	movimientos repository.MovimientoStockRepository,
	cajaRepo repository.CajaRepository,
	cache *cache.ProductoCache,
	notifier StockNotifier,
	alertas *AlertaStock,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		movimientos:  movimientos,
		cajaRepo:     cajaRepo,
		cache:        cache,
		notifier:     notifier,
		alertas:      alertas,
	}
}

// ── Registrar ────────────────────────────────────────────────────────────────
// Single transaction:
//   1. insert the sale header
//   2. lock every product of the sale with one ordered SELECT … FOR UPDATE
//   3. per item, in request order: product must exist and cover the quantity;
//      insert the item with the submitted price and subtract the stock
//   4. record the Ingreso in the cash ledger
// Any failure rolls everything back; nothing is committed partially.

func (s *ventaService) Registrar(ctx context.Context, actor model.Actor, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	fe := apierror.FieldErrors{}
	for i, item := range req.Items {
		validarDecimales(fmt.Sprintf("items[%d].quantity", i), item.Cantidad, decimalesCantidad, fe)
		validarDecimales(fmt.Sprintf("items[%d].price", i), item.Precio, decimalesPrecio, fe)
	}
	if req.TotalAmount != nil {
		validarDecimales("total_amount", *req.TotalAmount, decimalesPrecio, fe)
	}
	if fe.Any() {
		return nil, fe
	}
	total := totalVenta(req)

	var venta model.Venta
	var eventos []dto.EventoStock
	var cruzaron []model.Producto

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		venta = model.Venta{
			TotalAmount: total,
			MetodoPago:  req.MetodoPago,
			UsuarioID:   actor.UsuarioID(),
		}
		if err := s.repo.CreateTx(tx, &venta); err != nil {
			return fmt.Errorf("crear venta: %w", err)
		}

		// Malformed ids are kept aside and reported in item order below.
		ids := make([]*uuid.UUID, len(req.Items))
		var bloquear []uuid.UUID
		for i, item := range req.Items {
			if id, err := uuid.Parse(item.ProductoID); err == nil {
				ids[i] = &id
				bloquear = append(bloquear, id)
			}
		}
		productos, err := s.productoRepo.LockForUpdateTx(tx, repository.IDsOrdenados(bloquear))
		if err != nil {
			return fmt.Errorf("bloquear productos: %w", err)
		}
		stockInicial := stocksDe(productos)

		for i, item := range req.Items {
			if ids[i] == nil {
				return &NoEncontradoError{Entidad: "Producto", ID: item.ProductoID}
			}
			p, ok := productos[*ids[i]]
			if !ok {
				return &NoEncontradoError{Entidad: "Producto", ID: item.ProductoID}
			}
			if p.Stock.LessThan(item.Cantidad) {
				return &StockInsuficienteError{
					Producto:   p.Nombre,
					Necesario:  item.Cantidad,
					Disponible: p.Stock,
				}
			}

			vi := model.VentaItem{
				VentaID:    venta.ID,
				ProductoID: p.ID,
				Cantidad:   item.Cantidad,
				Precio:     item.Precio,
			}
			if err := s.repo.CreateItemTx(tx, &vi); err != nil {
				return fmt.Errorf("crear item: %w", err)
			}

			anterior := p.Stock
			p.Stock = anterior.Sub(item.Cantidad)
			if err := s.productoRepo.SetStockTx(tx, p.ID, p.Stock); err != nil {
				return err
			}
			mov := &model.MovimientoStock{
				ProductoID:    p.ID,
				Tipo:          model.MovimientoVenta,
				Cantidad:      item.Cantidad.Neg(),
				StockAnterior: anterior,
				StockNuevo:    p.Stock,
				Motivo:        "Venta",
				ReferenciaID:  &venta.ID,
				UsuarioID:     actor.UsuarioID(),
				Rol:           actor.Rol,
			}
			if err := s.movimientos.CreateTx(tx, mov); err != nil {
				return err
			}

			vi.Producto = p
			venta.Items = append(venta.Items, vi)
		}

		caja := &model.MovimientoCaja{
			Tipo:        model.CajaIngreso,
			Monto:       total,
			Descripcion: fmt.Sprintf("Venta %s", venta.ID.String()[:8]),
			MetodoPago:  req.MetodoPago,
			UsuarioID:   actor.UsuarioID(),
			VentaID:     &venta.ID,
		}
		if err := s.cajaRepo.CreateMovimientoTx(tx, caja); err != nil {
			return fmt.Errorf("registrar ingreso de caja: %w", err)
		}

		eventos = eventosDe(productos)
		cruzaron = cruzaronUmbral(stockInicial, productos)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	ids := make([]uuid.UUID, 0, len(eventos))
	for _, item := range venta.Items {
		ids = append(ids, item.ProductoID)
	}
	s.cache.Invalidar(ctx, ids...)
	publicar(s.notifier, eventos)
	s.alertas.Avisar(ctx, cruzaron)

	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("total", total.String()).
		Int("items", len(venta.Items)).
		Msg("venta registrada")

	venta.Usuario = usuarioDeActor(actor)
	return ventaToResponse(&venta), nil
}

// totalVenta honours a client-supplied total; otherwise Σ quantity × price.
func totalVenta(req dto.RegistrarVentaRequest) decimal.Decimal {
	if req.TotalAmount != nil {
		return *req.TotalAmount
	}
	total := decimal.Zero
	for _, item := range req.Items {
		total = total.Add(item.Cantidad.Mul(item.Precio))
	}
	return total
}

// ── Lectura ──────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Venta", id.String())
	}
	return ventaToResponse(v), nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, len(ventas))
	for i := range ventas {
		data[i] = *ventaToResponse(&ventas[i])
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *ventaService) GenerarTicket(ctx context.Context, id uuid.UUID) ([]byte, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Venta", id.String())
	}
	return infra.GenerarTicketPDF(v)
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func usuarioDeActor(a model.Actor) *model.Usuario {
	if a.ID == uuid.Nil {
		return nil
	}
	return &model.Usuario{ID: a.ID, Username: a.Username}
}

func nombreUsuario(u *model.Usuario) *string {
	if u == nil {
		return nil
	}
	return strPtr(u.Username)
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = dto.ItemVentaResponse{
			ID:       it.ID.String(),
			Producto: it.ProductoID.String(),
			Cantidad: it.Cantidad,
			Precio:   it.Precio,
		}
		if it.Producto != nil {
			items[i].ProductoNombre = it.Producto.Nombre
		}
	}
	return &dto.VentaResponse{
		ID:          v.ID.String(),
		Timestamp:   formatearFecha(v.CreatedAt),
		TotalAmount: v.TotalAmount,
		MetodoPago:  v.MetodoPago,
		Usuario:     nombreUsuario(v.Usuario),
		Items:       items,
	}
}
