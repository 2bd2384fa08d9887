package dto

import "github.com/crusher0311/maddenco-dvi-dashboard/internal/models"

// UserDTO represents an account in API responses. The password hash never
// leaves the model layer.
type UserDTO struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	Org      string      `json:"org,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		Username: user.Username,
		Role:     user.Role,
	}
	// Org is meaningful only for the User role.
	if user.Role == models.RoleUser {
		dto.Org = user.Org
	}
	return dto
}
