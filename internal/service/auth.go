package service

import (
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/defect-service/internal/config"
)

// AuthService installs the Clerk secret that middleware.AuthMiddleware
// verifies bearer tokens with on /api/defectInfo. It does not resolve
// users: a verified subject is mapped to a users row by
// UserService.CurrentUser.
type AuthService struct {
	secretKey string
}

func NewAuthService(cfg config.AuthConfig) *AuthService {
	clerk.SetKey(cfg.SecretKey)
	return &AuthService{secretKey: cfg.SecretKey}
}

// TestMode reports whether the key belongs to a Clerk development instance.
func (a *AuthService) TestMode() bool {
	return strings.HasPrefix(a.secretKey, "sk_test_")
}
