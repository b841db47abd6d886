package jwt

import (
	"errors"
	"time"

	"github.com/clinicai/clinicai-api/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims carries the authenticated identity. The role travels in the token
// so route guards never need a user lookup; the jti (RegisteredClaims.ID)
// keys the Redis allow-list.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type Manager struct {
	config config.JWTConfig
}

func NewManager(cfg config.JWTConfig) *Manager {
	return &Manager{config: cfg}
}

func (m *Manager) GenerateAccessToken(userID uuid.UUID, role string) (string, string, error) {
	return m.generate(userID, role, AccessToken, m.config.AccessExpiry)
}

func (m *Manager) GenerateRefreshToken(userID uuid.UUID, role string) (string, string, error) {
	return m.generate(userID, role, RefreshToken, m.config.RefreshExpiry)
}

func (m *Manager) generate(userID uuid.UUID, role string, tokenType TokenType, expiry time.Duration) (string, string, error) {
	tokenID := uuid.New().String()
	claims := Claims{
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(m.config.Secret))
	if err != nil {
		return "", "", err
	}

	return signedToken, tokenID, nil
}

func (m *Manager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(m.config.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (m *Manager) AccessTTL() time.Duration {
	return m.config.AccessExpiry
}

func (m *Manager) RefreshTTL() time.Duration {
	return m.config.RefreshExpiry
}
