package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AsunaPahlo/armada-web/internal/shared/config"
)

func jwtSecret() (string, error) {
	secret := config.GlobalConfig.Auth.JWTSecret
	if secret == "" {
		return "", fmt.Errorf("JWT secret is not configured")
	}
	return secret, nil
}

func GenerateJWT(user *User) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", fmt.Errorf("cannot generate JWT: %w", err)
	}

	claims := Claims{
		UserID:     user.ID,
		Username:   user.Username,
		Role:       user.Role,
		AllowedFCs: user.AllowedFCs,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.GlobalConfig.Auth.TokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   fmt.Sprintf("user_%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateJWT(tokenString string) (*Claims, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, fmt.Errorf("cannot validate JWT: %w", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// ScopeSet converts claims into the FC visibility filter used by the fleet
// layer: nil for unrestricted access, otherwise the set of visible FC IDs.
func (c *Claims) ScopeSet() map[string]bool {
	if c == nil || c.Role == RoleAdmin || len(c.AllowedFCs) == 0 {
		return nil
	}

	scopes := make(map[string]bool, len(c.AllowedFCs))
	for _, fcID := range c.AllowedFCs {
		if fcID == "*" {
			return nil
		}
		scopes[fcID] = true
	}
	return scopes
}
