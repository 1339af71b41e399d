package dto

import "github.com/spec-kit/storefront-gateway/internal/domain"

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse reports authentication state.
type SessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	Profile       *domain.Profile `json:"profile,omitempty"`
}

// ProfileUpdateRequest payload for profile edits.
type ProfileUpdateRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// ToDomain converts the patch to the domain profile shape.
func (r ProfileUpdateRequest) ToDomain() domain.Profile {
	return domain.Profile{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Address:   r.Address,
		City:      r.City,
		Country:   r.Country,
	}
}
