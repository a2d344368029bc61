package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// BcryptCost is the cost factor for bcrypt hashing
const BcryptCost = 10

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims represents the JWT claims carried by every session token. IsSuper
// and StoreID are only meaningful for role "admin".
type Claims struct {
	AccountID uuid.UUID  `json:"account_id"`
	Role      string     `json:"role"`
	IsSuper   bool       `json:"is_super,omitempty"`
	StoreID   *uuid.UUID `json:"store_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates HS256 session tokens
type TokenManager struct {
	secret string
	expiry time.Duration
}

// NewTokenManager creates a new instance of TokenManager
func NewTokenManager(secret string, expiryHours int) *TokenManager {
	if expiryHours <= 0 {
		expiryHours = 24
	}
	return &TokenManager{
		secret: secret,
		expiry: time.Duration(expiryHours) * time.Hour,
	}
}

// Generate signs a token for the given account
func (m *TokenManager) Generate(accountID uuid.UUID, role string, isSuper bool, storeID *uuid.UUID) (string, error) {
	now := time.Now()
	claims := &Claims{
		AccountID: accountID,
		Role:      role,
		IsSuper:   isSuper,
		StoreID:   storeID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a token string and returns its claims
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
