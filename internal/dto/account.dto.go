package dto

import "github.com/plushify/plushify-api/internal/models"

type UserDTO struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	BusinessID uint   `json:"business_id"`
}

type BusinessDTO struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`
}

// SessionDTO is the body of register/login.
type SessionDTO struct {
	User     UserDTO     `json:"user"`
	Business BusinessDTO `json:"business"`
	Token    string      `json:"token"`
	// IdleTimeoutSeconds lets the client warn before the idle sign-out.
	IdleTimeoutSeconds int `json:"idle_timeout_seconds"`
}

func User(u *models.User) UserDTO {
	return UserDTO{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
		BusinessID: u.BusinessID,
	}
}

func Business(b *models.Business) BusinessDTO {
	return BusinessDTO{
		ID:       b.ID,
		Name:     b.Name,
		Slug:     b.Slug,
		Phone:    b.Phone,
		Address:  b.Address,
		Timezone: b.Timezone,
	}
}
