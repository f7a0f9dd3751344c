package api

import "github.com/feedbackhub/feedbackhub/shared/domain"

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response DTOs

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type UserResponse struct {
	User domain.User `json:"user"`
}
