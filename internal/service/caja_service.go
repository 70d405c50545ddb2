package service

import (
	"context"
	"strings"
	"time"

	"interfaz/internal/apierror"
	"interfaz/internal/dto"
	"interfaz/internal/model"
	"interfaz/internal/repository"

	"github.com/rs/zerolog/log"
)

// CajaService manages the cash ledger. Sales write their Ingreso from
// VentaService; this service records manual movements and reads the ledger.
type CajaService interface {
	RegistrarMovimiento(ctx context.Context, actor model.Actor, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error)
	Listar(ctx context.Context, filter dto.MovimientoCajaFilter) (*dto.MovimientoCajaListResponse, error)
	Resumen(ctx context.Context, fecha string) (*dto.ResumenCajaResponse, error)
}

type cajaService struct {
	repo repository.CajaRepository
}

func NewCajaService(repo repository.CajaRepository) CajaService {
	return &cajaService{repo: repo}
}

// ── RegistrarMovimiento ───────────────────────────────────────────────────────
// Ingreso / egreso manual. Movements are immutable: no Update/Delete.

func (s *cajaService) RegistrarMovimiento(ctx context.Context, actor model.Actor, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, apierror.Field("amount", "El monto debe ser mayor a 0.")
	}
	mov := &model.MovimientoCaja{
		Tipo:        req.Tipo,
		Monto:       req.Monto,
		Descripcion: strings.TrimSpace(req.Descripcion),
		MetodoPago:  req.MetodoPago,
		UsuarioID:   actor.UsuarioID(),
	}
	if err := s.repo.CreateMovimiento(ctx, mov); err != nil {
		return nil, err
	}
	log.Info().
		Str("tipo", mov.Tipo).
		Str("monto", mov.Monto.String()).
		Str("usuario", actor.Username).
		Msg("movimiento de caja registrado")

	mov.Usuario = usuarioDeActor(actor)
	resp := movimientoCajaToResponse(mov)
	return &resp, nil
}

func (s *cajaService) Listar(ctx context.Context, filter dto.MovimientoCajaFilter) (*dto.MovimientoCajaListResponse, error) {
	if err := validarDia(filter.Fecha); err != nil {
		return nil, err
	}
	movs, total, err := s.repo.ListMovimientos(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoCajaResponse, len(movs))
	for i := range movs {
		data[i] = movimientoCajaToResponse(&movs[i])
	}
	return &dto.MovimientoCajaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Resumen totals income and expense for one day; today when fecha is empty.
func (s *cajaService) Resumen(ctx context.Context, fecha string) (*dto.ResumenCajaResponse, error) {
	if fecha == "" {
		fecha = time.Now().Format(formatoDia)
	}
	if err := validarDia(fecha); err != nil {
		return nil, err
	}
	sumas, err := s.repo.SumByTipo(ctx, fecha)
	if err != nil {
		return nil, err
	}
	ingresos := sumas[model.CajaIngreso]
	egresos := sumas[model.CajaEgreso]
	return &dto.ResumenCajaResponse{
		Fecha:    fecha,
		Ingresos: ingresos,
		Egresos:  egresos,
		Balance:  ingresos.Sub(egresos),
	}, nil
}

func validarDia(fecha string) error {
	if fecha == "" {
		return nil
	}
	if _, err := time.Parse(formatoDia, fecha); err != nil {
		return apierror.Field("date", "Formato de fecha inválido. Use AAAA-MM-DD.")
	}
	return nil
}

func movimientoCajaToResponse(m *model.MovimientoCaja) dto.MovimientoCajaResponse {
	resp := dto.MovimientoCajaResponse{
		ID:          m.ID.String(),
		Tipo:        m.Tipo,
		Monto:       m.Monto,
		Descripcion: m.Descripcion,
		Timestamp:   formatearFecha(m.CreatedAt),
		Usuario:     nombreUsuario(m.Usuario),
		MetodoPago:  m.MetodoPago,
	}
	if m.VentaID != nil {
		resp.Venta = strPtr(m.VentaID.String())
	}
	return resp
}
