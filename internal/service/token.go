package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
)

// TokenManager проверяет access токены внешнего сервиса аутентификации.
// Генерация оставлена для инструментов разработки и тестов.
type TokenManager struct {
	accessSecret []byte
	accessTTL    time.Duration
}

func NewTokenManager(accessSecret string, accessTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret: []byte(accessSecret),
		accessTTL:    accessTTL,
	}
}

// GenerateAccess выпускает HS256 токен с sub и role.
func (m *TokenManager) GenerateAccess(actor entity.Actor) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.accessTTL)
	claims := jwt.MapClaims{
		"sub":  actor.ID.String(),
		"role": string(actor.Role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.accessSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccess извлекает actor из access токена. Неизвестная роль делает токен невалидным.
func (m *TokenManager) ParseAccess(token string) (entity.Actor, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return m.accessSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return entity.Actor{}, err
	}
	if !parsed.Valid {
		return entity.Actor{}, jwt.ErrTokenInvalidClaims
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return entity.Actor{}, jwt.ErrTokenInvalidClaims
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return entity.Actor{}, jwt.ErrTokenInvalidClaims
	}
	userID, err := uuid.Parse(sub)
	if err != nil || userID == uuid.Nil {
		return entity.Actor{}, errors.Join(jwt.ErrTokenInvalidClaims, err)
	}

	role, _ := claims["role"].(string)
	actor, err := entity.NewActor(userID, role)
	if err != nil {
		return entity.Actor{}, errors.Join(jwt.ErrTokenInvalidClaims, err)
	}
	return actor, nil
}
