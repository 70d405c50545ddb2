package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ProveedorRequest struct {
	Nombre    string  `json:"name"    validate:"required,min=2,max=200"`
	Contacto  *string `json:"contact"`
	Telefono  *string `json:"phone"`
	Email     *string `json:"email"   validate:"omitempty,email"`
	Direccion *string `json:"address"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProveedorResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"name"`
	Contacto  *string `json:"contact"`
	Telefono  *string `json:"phone"`
	Email     *string `json:"email"`
	Direccion *string `json:"address"`
	Activo    bool    `json:"is_active"`
}
