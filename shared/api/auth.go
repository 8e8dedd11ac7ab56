package api

import "github.com/aljannat-dev/aljannat/shared/domain"

// Request DTOs

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role,omitempty"`
}

type VerifyOtpRequest struct {
	Email string `json:"email" validate:"required"`
	Otp   string `json:"otp" validate:"required"`
}

type ResendOtpRequest struct {
	Email string `json:"email" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// Response DTOs

type UserResponse struct {
	Id    domain.UserId `json:"id"`
	Name  string        `json:"name,omitempty"`
	Email string        `json:"email"`
	Role  domain.Role   `json:"role"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"` // for clients that don't keep cookies
	User        UserResponse `json:"user"`
}

func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{Id: u.Id, Name: u.Name, Email: u.Email, Role: u.Role}
}
