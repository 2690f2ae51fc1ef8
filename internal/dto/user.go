package dto

import (
	"github.com/grantbridge/grant-management-api/internal/models"
	"github.com/grantbridge/grant-management-api/internal/workflow"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID            uint64        `json:"id"`
	Email         string        `json:"email"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	Role          workflow.Role `json:"role"`
	EmailVerified bool          `json:"email_verified"`
}

// ToUserDTO converts a user model to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
	}
}
