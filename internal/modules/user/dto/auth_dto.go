package dto

import "anoa.com/assignmenthub/internal/entity"

type RegisterInput struct {
	Email     string  `json:"email" binding:"required,email,max=255"`
	FullName  string  `json:"full_name" binding:"max=255"`
	Password  string  `json:"password" binding:"required,min=6,max=72"`
	Role      string  `json:"role"`
	RegNumber *string `json:"reg_number" binding:"omitempty,max=50"`
}

// LoginInput accepts JSON {"email","password"} and the OAuth2 password
// form (username, password).
type LoginInput struct {
	Email    string `json:"email" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *entity.User `json:"user"`
}
