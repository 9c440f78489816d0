package dto

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest represents the request to register a new user
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to refresh the token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TopUpRequest represents the request to top up the wallet balance
type TopUpRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// PlaceOrderRequest represents the request to place an order
type PlaceOrderRequest struct {
	ServiceID    uuid.UUID  `json:"service_id" binding:"required"`
	BudgetTier   string     `json:"budget_tier"`
	Requirements *string    `json:"requirements"`
	SlotID       *uuid.UUID `json:"slot_id"`
}

// RejectOrderRequest represents the request to reject an order
type RejectOrderRequest struct {
	Reason string `json:"reason"`
}

// ReviewRequest represents the request to leave a review on a completed order
type ReviewRequest struct {
	Rating  int     `json:"rating" binding:"required"`
	Comment *string `json:"comment"`
}

// ServiceRequest represents the request to publish or update a service
type ServiceRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Category    *string `json:"category"`
	Price       int64   `json:"price" binding:"required"`
}

// CreateSlotsRequest represents the request to open availability slots
type CreateSlotsRequest struct {
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	RecurWeeks int       `json:"recur_weeks"`
}
