package user

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JwtCustomClaims struct {
	Id   uint   `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func SigningKey() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

var GenerateJWT = func(id uint, role string) (string, error) {
	claims := JwtCustomClaims{
		Id:   id,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(SigningKey())
}

func ParseToken(tokenString string) (*JwtCustomClaims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}
	claims := &JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return SigningKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Id == 0 {
		return nil, errors.New("user id not found in token claims")
	}
	return claims, nil
}
