package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CrearUsuarioRequest: the role is resolved by name and created on demand;
// an empty role_name means Cajero.
type CrearUsuarioRequest struct {
	Username string `json:"username"  validate:"required,min=1,max=150"`
	Email    string `json:"email"     validate:"omitempty,email"`
	Password string `json:"password"  validate:"required,min=8"`
	RoleName string `json:"role_name" validate:"omitempty,max=50"`
}

// ActualizarUsuarioRequest never touches the password.
type ActualizarUsuarioRequest struct {
	Username *string `json:"username"  validate:"omitempty,min=1,max=150"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	RoleID   *string `json:"role_id"   validate:"omitempty,uuid"`
	Activo   *bool   `json:"is_active"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RolResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"name"`
}

type UsuarioResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Rol      string  `json:"role"`
	RolID    *string `json:"role_id"`
	Activo   bool    `json:"is_active"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}
