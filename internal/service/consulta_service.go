package service

import (
	"context"
	"strings"

	"interfaz/internal/dto"
	"interfaz/internal/model"
	"interfaz/internal/repository"

	"github.com/google/uuid"
)

// ConsultaService stores questions users send to management. Managers see
// every query; everybody else only their own.
type ConsultaService interface {
	Crear(ctx context.Context, actor model.Actor, req dto.CrearConsultaRequest) (*dto.ConsultaResponse, error)
	Listar(ctx context.Context, actor model.Actor) ([]dto.ConsultaResponse, error)
	ActualizarEstado(ctx context.Context, id uuid.UUID, req dto.ActualizarConsultaRequest) (*dto.ConsultaResponse, error)
}

type consultaService struct {
	repo repository.ConsultaRepository
}

func NewConsultaService(repo repository.ConsultaRepository) ConsultaService {
	return &consultaService{repo: repo}
}

func (s *consultaService) Crear(ctx context.Context, actor model.Actor, req dto.CrearConsultaRequest) (*dto.ConsultaResponse, error) {
	c := &model.ConsultaUsuario{
		UsuarioID: actor.UsuarioID(),
		Asunto:    strings.TrimSpace(req.Asunto),
		Mensaje:   strings.TrimSpace(req.Mensaje),
		Estado:    model.ConsultaAbierta,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	c.Usuario = usuarioDeActor(actor)
	resp := consultaToResponse(c)
	return &resp, nil
}

func (s *consultaService) Listar(ctx context.Context, actor model.Actor) ([]dto.ConsultaResponse, error) {
	var filtro *uuid.UUID
	if actor.Rol != model.RolGerente {
		filtro = &actor.ID
	}
	cs, err := s.repo.List(ctx, filtro)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ConsultaResponse, len(cs))
	for i := range cs {
		resp[i] = consultaToResponse(&cs[i])
	}
	return resp, nil
}

func (s *consultaService) ActualizarEstado(ctx context.Context, id uuid.UUID, req dto.ActualizarConsultaRequest) (*dto.ConsultaResponse, error) {
	if err := s.repo.UpdateEstado(ctx, id, req.Estado); err != nil {
		return nil, noEncontrado(err, "Consulta", id.String())
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Consulta", id.String())
	}
	resp := consultaToResponse(c)
	return &resp, nil
}

func consultaToResponse(c *model.ConsultaUsuario) dto.ConsultaResponse {
	return dto.ConsultaResponse{
		ID:        c.ID.String(),
		Usuario:   nombreUsuario(c.Usuario),
		Asunto:    c.Asunto,
		Mensaje:   c.Mensaje,
		Estado:    c.Estado,
		CreatedAt: formatearFecha(c.CreatedAt),
		UpdatedAt: formatearFecha(c.UpdatedAt),
	}
}
