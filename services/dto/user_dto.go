package dto

import (
	"time"

	"camsapi/models"
)

// UserCreateRequest is the admin payload for creating a user.
type UserCreateRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Active    *bool  `json:"active"`
}

// UserUpdateRequest overwrites the editable profile fields. The password is
// changed through its own endpoint, never here.
type UserUpdateRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Active    *bool  `json:"active"`
}

// ChangePasswordRequest carries current and replacement passwords.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// AssignRoleRequest attaches a role to a user.
type AssignRoleRequest struct {
	RoleID uint `json:"role_id" validate:"required"`
}

// UserResponse is the outward representation of a user. It never carries
// the password hash or refresh token.
type UserResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Active      bool       `json:"active"`
	Roles       []string   `json:"roles,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// FromUser maps a user entity to its response DTO.
func FromUser(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ApplyUserUpdate copies editable fields from the update DTO onto the entity.
func ApplyUserUpdate(u *models.User, req UserUpdateRequest) {
	u.Email = req.Email
	u.FirstName = req.FirstName
	u.LastName = req.LastName
	if req.Active != nil {
		u.Active = *req.Active
	}
}
