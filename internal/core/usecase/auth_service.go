package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
	"github.com/atvirokodosprendimai/menuapi/internal/core/ports"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenTTL = 24 * time.Hour

type AdminClaims struct {
	AdminID int64  `json:"admin_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService covers both credential paths: JWT identities for admin owners
// and bcrypt-hashed API keys for restaurant-scoped service callers.
type AuthService struct {
	users     ports.AdminUserRepository
	keys      ports.APIKeyRepository
	jwtSecret []byte
}

func NewAuthService(users ports.AdminUserRepository, keys ports.APIKeyRepository, jwtSecret string) *AuthService {
	return &AuthService{users: users, keys: keys, jwtSecret: []byte(jwtSecret)}
}

// Register creates an admin user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (domain.AdminUser, error) {
	if len(password) < 8 {
		return domain.AdminUser{}, domain.Invalid("password must be at least 8 characters")
	}
	digest, err := HashSecret(password)
	if err != nil {
		return domain.AdminUser{}, err
	}
	user := domain.AdminUser{Name: name, Email: strings.ToLower(strings.TrimSpace(email)), PasswordHash: digest}
	if err := user.Validate(); err != nil {
		return domain.AdminUser{}, err
	}
	return s.users.Create(ctx, user)
}

// Login verifies the password and issues an HS256 token carrying the admin
// identity. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrUnauthenticated
		}
		return "", err
	}
	if !VerifySecret(password, user.PasswordHash) {
		return "", domain.ErrUnauthenticated
	}

	now := time.Now().UTC()
	claims := &AdminClaims{
		AdminID: user.ID,
		Email:   user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// VerifyToken parses and validates a bearer JWT and returns the admin ID.
func (s *AuthService) VerifyToken(tokenString string) (int64, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid || claims.AdminID <= 0 {
		return 0, domain.ErrUnauthenticated
	}
	return claims.AdminID, nil
}

// GetUser returns the admin's own profile. Admins cannot read each other.
func (s *AuthService) GetUser(ctx context.Context, callerID, id int64) (domain.AdminUser, error) {
	if callerID != id {
		return domain.AdminUser{}, domain.ErrForbidden
	}
	return s.users.Get(ctx, id)
}

// CreateAPIKey generates a url-safe random key for the restaurant and stores
// only its bcrypt digest. The returned plaintext is shown to the caller once
// and never persisted or logged.
func (s *AuthService) CreateAPIKey(ctx context.Context, restaurantID int64) (plaintext string, key domain.APIKey, err error) {
	if restaurantID <= 0 {
		return "", domain.APIKey{}, domain.Invalid("restaurant id is required")
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", domain.APIKey{}, fmt.Errorf("generate api key: %w", err)
	}
	plaintext = base64.RawURLEncoding.EncodeToString(raw)

	digest, err := HashSecret(plaintext)
	if err != nil {
		return "", domain.APIKey{}, err
	}
	key = domain.APIKey{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		KeyHash:      digest,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.keys.Create(ctx, key); err != nil {
		return "", domain.APIKey{}, err
	}
	return plaintext, key, nil
}

// RevokeAPIKey soft-deletes the key so future use fails while the row stays
// around for audit.
func (s *AuthService) RevokeAPIKey(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, domain.Invalid("api key id is required")
	}
	return s.keys.SoftDelete(ctx, id)
}

// ResolveAPIKey matches a presented key against stored digests and returns
// the owning restaurant ID. When restaurantID is positive the scan is scoped
// to that restaurant's active keys, otherwise all active keys are checked.
// bcrypt digests cannot be indexed, so this is a linear scan over the
// candidate set.
func (s *AuthService) ResolveAPIKey(ctx context.Context, presented string, restaurantID int64) (int64, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return 0, domain.ErrUnauthenticated
	}

	candidates, err := s.keys.FindActive(ctx, restaurantID)
	if err != nil {
		return 0, err
	}
	for _, candidate := range candidates {
		if VerifySecret(presented, candidate.KeyHash) {
			return candidate.RestaurantID, nil
		}
	}
	return 0, domain.ErrUnauthenticated
}
