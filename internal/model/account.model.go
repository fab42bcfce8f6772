package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is a registered credential holder. PasswordHash never serializes;
// anything leaving the auth service goes through Public().
type Account struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// AccountPublic is the projection exposed over HTTP.
type AccountPublic struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *Account) Public() AccountPublic {
	return AccountPublic{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}
}
