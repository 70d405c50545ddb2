package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"interfaz/internal/apierror"
	"interfaz/internal/dto"
	"interfaz/internal/model"
	"interfaz/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReporteService handles low-stock reports filed by staff.
type ReporteService interface {
	Crear(ctx context.Context, actor model.Actor, req dto.ReporteStockBajoRequest) (*dto.ReporteStockBajoResponse, error)
	Listar(ctx context.Context, incluirResueltos bool) ([]dto.ReporteStockBajoResponse, error)
	Resolver(ctx context.Context, id uuid.UUID) (*dto.ReporteStockBajoResponse, error)
}

type reporteService struct {
	repo         repository.ReporteStockBajoRepository
	productoRepo repository.ProductoRepository
	alertas      *AlertaStock
}

func NewReporteService(repo repository.ReporteStockBajoRepository, productoRepo repository.ProductoRepository, alertas *AlertaStock) ReporteService {
	return &reporteService{repo: repo, productoRepo: productoRepo, alertas: alertas}
}

func (s *reporteService) Crear(ctx context.Context, actor model.Actor, req dto.ReporteStockBajoRequest) (*dto.ReporteStockBajoResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, apierror.Field("product", fmt.Sprintf("Pk inválido \"%s\" - el objeto no existe.", req.ProductoID))
	}
	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Field("product", fmt.Sprintf("Pk inválido \"%s\" - el objeto no existe.", req.ProductoID))
		}
		return nil, err
	}

	rep := &model.ReporteStockBajo{
		ProductoID:     producto.ID,
		Mensaje:        strings.TrimSpace(req.Mensaje),
		ReportadoPorID: actor.UsuarioID(),
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}

	s.alertas.AvisarReporte(ctx, producto, rep.Mensaje, actor.Username)
	log.Info().
		Str("reporte_id", rep.ID.String()).
		Str("producto", producto.Nombre).
		Msg("reporte de stock bajo registrado")

	rep.Producto = producto
	rep.ReportadoPor = usuarioDeActor(actor)
	resp := reporteToResponse(rep)
	return &resp, nil
}

func (s *reporteService) Listar(ctx context.Context, incluirResueltos bool) ([]dto.ReporteStockBajoResponse, error) {
	reps, err := s.repo.List(ctx, incluirResueltos)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ReporteStockBajoResponse, len(reps))
	for i := range reps {
		data[i] = reporteToResponse(&reps[i])
	}
	return data, nil
}

func (s *reporteService) Resolver(ctx context.Context, id uuid.UUID) (*dto.ReporteStockBajoResponse, error) {
	if err := s.repo.MarcarResuelto(ctx, id); err != nil {
		return nil, noEncontrado(err, "Reporte", id.String())
	}
	rep, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Reporte", id.String())
	}
	resp := reporteToResponse(rep)
	return &resp, nil
}

func reporteToResponse(r *model.ReporteStockBajo) dto.ReporteStockBajoResponse {
	resp := dto.ReporteStockBajoResponse{
		ID:           r.ID.String(),
		Producto:     r.ProductoID.String(),
		Mensaje:      r.Mensaje,
		ReportadoPor: nombreUsuario(r.ReportadoPor),
		CreatedAt:    formatearFecha(r.CreatedAt),
		Resuelto:     r.Resuelto,
	}
	if r.Producto != nil {
		resp.ProductoNombre = r.Producto.Nombre
	}
	return resp
}
