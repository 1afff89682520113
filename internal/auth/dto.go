package auth

import (
	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
)

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	RUT          string
	Phone        *string
	Newsletter   bool
	ReferralCode *string
}

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshInput carries the expired-or-live access token plus the
// refresh token previously issued alongside it.
type RefreshInput struct {
	AccessToken  string
	RefreshToken string
}

// TokenPair is an issued access/refresh token set.
type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresInSeconds int    `json:"expires_in"`
}

// AuthResult bundles the authenticated user with their session tokens.
type AuthResult struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}
