package service

import (
	"context"
	"encoding/json"
	"strings"

	"interfaz/internal/apierror"
	"interfaz/internal/dto"
	"interfaz/internal/model"
	"interfaz/internal/repository"

	"gorm.io/datatypes"
)

// AlmacenamientoService is the per-user key/value store. Every operation is
// scoped to the acting user.
type AlmacenamientoService interface {
	Listar(ctx context.Context, actor model.Actor) ([]dto.AlmacenamientoResponse, error)
	Obtener(ctx context.Context, actor model.Actor, clave string) (*dto.AlmacenamientoResponse, error)
	Guardar(ctx context.Context, actor model.Actor, clave string, req dto.GuardarValorRequest) (*dto.AlmacenamientoResponse, error)
	Eliminar(ctx context.Context, actor model.Actor, clave string) error
}

type almacenamientoService struct {
	repo repository.AlmacenamientoRepository
}

func NewAlmacenamientoService(repo repository.AlmacenamientoRepository) AlmacenamientoService {
	return &almacenamientoService{repo: repo}
}

func (s *almacenamientoService) Listar(ctx context.Context, actor model.Actor) ([]dto.AlmacenamientoResponse, error) {
	items, err := s.repo.List(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AlmacenamientoResponse, len(items))
	for i := range items {
		resp[i] = almacenamientoToResponse(&items[i])
	}
	return resp, nil
}

func (s *almacenamientoService) Obtener(ctx context.Context, actor model.Actor, clave string) (*dto.AlmacenamientoResponse, error) {
	a, err := s.repo.Find(ctx, actor.ID, clave)
	if err != nil {
		return nil, noEncontrado(err, "Clave", clave)
	}
	resp := almacenamientoToResponse(a)
	return &resp, nil
}

func (s *almacenamientoService) Guardar(ctx context.Context, actor model.Actor, clave string, req dto.GuardarValorRequest) (*dto.AlmacenamientoResponse, error) {
	clave = strings.TrimSpace(clave)
	if clave == "" || len(clave) > 100 {
		return nil, apierror.Field("key", "La clave debe tener entre 1 y 100 caracteres.")
	}
	if !json.Valid(req.Valor) {
		return nil, apierror.Field("value", "Valor JSON inválido.")
	}
	a := &model.AlmacenamientoUsuario{
		UsuarioID: actor.ID,
		Clave:     clave,
		Valor:     datatypes.JSON(req.Valor),
	}
	if err := s.repo.Upsert(ctx, a); err != nil {
		return nil, err
	}
	// On conflict the row keeps its original id.
	return s.Obtener(ctx, actor, clave)
}

func (s *almacenamientoService) Eliminar(ctx context.Context, actor model.Actor, clave string) error {
	return noEncontrado(s.repo.Delete(ctx, actor.ID, clave), "Clave", clave)
}

func almacenamientoToResponse(a *model.AlmacenamientoUsuario) dto.AlmacenamientoResponse {
	return dto.AlmacenamientoResponse{
		ID:        a.ID.String(),
		Clave:     a.Clave,
		Valor:     json.RawMessage(a.Valor),
		UpdatedAt: formatearFecha(a.UpdatedAt),
	}
}
