package dto

import (
	"github.com/skillverse/marketplace-backend/internal/models"
)

// AuthResponse represents the result of registration or login
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// OrderCompletedResponse represents the result of completing an order
type OrderCompletedResponse struct {
	Order       *models.Order       `json:"order"`
	Certificate *models.Certificate `json:"certificate"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
