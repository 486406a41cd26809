package dto

import "github.com/yigit/collabhub/internal/app/models"

// SignupRequest represents a new account
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Username string `json:"username" binding:"required,username"`
	Role     string `json:"role" binding:"omitempty,max=50"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  *models.User  `json:"user"`
}

// CheckUserRequest asks whether an email is registered
type CheckUserRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CheckUserResponse answers CheckUserRequest
type CheckUserResponse struct {
	Exists bool `json:"exists"`
}
