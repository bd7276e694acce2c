package auth

import "github.com/google/uuid"

// LoginInput carries the credentials plus the caller address used for
// rate limiting.
type LoginInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	RemoteAddr string `json:"-"`
}

// LoginResult is the public login response.
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	UserID      uuid.UUID `json:"user_id"`
	ShopID      uuid.UUID `json:"shop_id"`
	Role        string    `json:"role"`
}
