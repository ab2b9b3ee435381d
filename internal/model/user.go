package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used by SetPassword.
var PasswordCost = bcrypt.DefaultCost

// User represents an authenticated user in the system
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Role      string    `gorm:"type:varchar(20);not null" json:"rol"`
	CreatedAt time.Time `json:"creado_en"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"rol"`
	CreatedAt time.Time `json:"creado_en"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// Identity is the subset of a user carried inside a session token.
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"rol"`
}

// Identity projects the user into a token identity.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Role: u.Role}
}

// RegisterRequest is the body of POST /usuarios/registro.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100,username"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"rol" validate:"required"`
}

// UpdateUserRequest is the body of PUT /usuarios/:id. Absent fields keep
// their stored value.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=100,username"`
	Role     *string `json:"rol"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// LoginRequest is the body of POST /usuarios/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
