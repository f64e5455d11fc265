package dto

import (
	"time"

	"github.com/tubeworks/streamapi/internal/model"
)

type RegisterRequest struct {
	Username string `form:"username" binding:"required,min=3,max=30,lowercase"`
	Email    string `form:"email" binding:"required,email"`
	FullName string `form:"fullName" binding:"required,min=1,max=100"`
	Password string `form:"password" binding:"required,min=8,max=100"`
}

// LoginRequest accepts a username or an email; at least one must be present,
// which is checked in the service because binding tags cannot express it.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=100"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type UpdateDetailsRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=30,lowercase"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// UserResponse is the public projection of a user. Password and refresh
// token are never part of it.
type UserResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar,omitempty"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewUserResponse projects a user model onto its public shape.
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
