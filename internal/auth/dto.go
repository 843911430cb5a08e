package auth

import "github.com/fkhayef/attendly/internal/user"

// SignupRequest represents the request body for signup
type SignupRequest struct {
	Username string    `json:"username" validate:"required,min=3,max=50"`
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"required,min=8"`
	Role     user.Role `json:"role,omitempty"`
}

// SigninRequest represents the request body for signin
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries a freshly issued bearer token
type TokenResponse struct {
	Token string    `json:"token"`
	Role  user.Role `json:"role"`
}
