// Package auth выпускает и проверяет JWT токены администраторов каталога.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin роль, которой разрешено менять каталог (режиссеры, удаление сущностей).
const RoleAdmin = "admin"

const issuer = "filmorate"

// MinSecretLength минимальная длина ключа HMAC-SHA256.
const MinSecretLength = 32

var ErrInvalidToken = errors.New("invalid token")

// TokenManager предоставляет методы для генерации и валидации JWT токенов.
type TokenManager interface {
	Generate(subject string, role string) (string, error)
	Validate(tokenString string) (*Claims, error)
}

// jwtManager реализует TokenManager.
type jwtManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// Claims определяет структуру данных, хранимых в JWT.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewTokenManager создает TokenManager. Ключ короче MinSecretLength отклоняется.
func NewTokenManager(secretKey string, tokenDuration time.Duration) (TokenManager, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if len(secretKey) < MinSecretLength {
		return nil, fmt.Errorf("JWT secret key is too short (min %d bytes for HS256)", MinSecretLength)
	}
	if tokenDuration <= 0 {
		return nil, fmt.Errorf("token duration must be positive")
	}
	return &jwtManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}, nil
}

// Generate создает новый JWT токен для subject с ролью role.
func (m *jwtManager) Generate(subject string, role string) (string, error) {
	now := m.now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Validate проверяет подпись, срок действия и издателя токена.
func (m *jwtManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
