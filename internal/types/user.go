package types

import "time"

// User mirrors the Laravel users table. Authentication happens upstream; this
// service only reads the row to confirm the token subject still exists.
type User struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	Nombre          string    `gorm:"column:nombre" json:"nombre"`
	Apellidos       string    `gorm:"column:apellidos" json:"apellidos"`
	Email           string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	EmailVerificado bool      `gorm:"column:email_verificado" json:"email_verificado"`
	Avatar          string    `gorm:"column:avatar" json:"avatar,omitempty"`
	AuthProvider    string    `gorm:"column:auth_provider" json:"auth_provider,omitempty"`
	IsAdmin         bool      `gorm:"column:is_admin" json:"is_admin"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
