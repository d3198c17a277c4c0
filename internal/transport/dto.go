package transport

import "github.com/kmalov/auth_service/internal/models"

// LoginRequest is shaped like an OAuth2 password grant form. Username
// carries the registered email.
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type AuthTokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user,omitempty"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

type ResetRequest struct {
	Email string `form:"email" json:"email"`
}

type SetPasswordRequest struct {
	Password string `form:"password" json:"password"`
}

type HealthServices struct {
	Database string `json:"database"`
}

type HealthResponse struct {
	Status   string         `json:"status"`
	Services HealthServices `json:"services"`
}
