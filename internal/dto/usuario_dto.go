package dto

import "encoding/json"

// ─── User storage ────────────────────────────────────────────────────────────

type GuardarValorRequest struct {
	Valor json.RawMessage `json:"value" validate:"required"`
}

type AlmacenamientoResponse struct {
	ID        string          `json:"id"`
	Clave     string          `json:"key"`
	Valor     json.RawMessage `json:"value"`
	UpdatedAt string          `json:"updated_at"`
}

// ─── User queries ────────────────────────────────────────────────────────────

type CrearConsultaRequest struct {
	Asunto  string `json:"subject" validate:"required,max=200"`
	Mensaje string `json:"message" validate:"required,max=2000"`
}

type ActualizarConsultaRequest struct {
	Estado string `json:"status" validate:"required,oneof=Abierta Respondida Cerrada"`
}

type ConsultaResponse struct {
	ID        string  `json:"id"`
	Usuario   *string `json:"user"`
	Asunto    string  `json:"subject"`
	Mensaje   string  `json:"message"`
	Estado    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}
