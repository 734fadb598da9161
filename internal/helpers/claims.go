package helpers

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the claims payload carried by bearer tokens. Issuers that put
// the caller id in "userId" and issuers that only set "sub" are both accepted.
type UserClaims struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the caller id, preferring userId over sub.
func (uc *UserClaims) Identity() string {
	if uc.UserID != "" {
		return uc.UserID
	}
	return uc.Subject
}
