package auth

import (
	"errors"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Session is the decoded content of a portal token. OrderUUID is set only
// for scanned-code sessions, which are bound to a single order.
type Session struct {
	TokenID       string
	EmployeeUUID  uuid.UUID
	Matriculation string
	OrderUUID     *uuid.UUID
}

// TokenManager issues and parses the HS256 session tokens that authorize
// production-portal calls.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Generate(employee models.Employee, orderUUID *uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"jti": uuid.New().String(),
		"sub": employee.UUID.String(),
		"mat": employee.MatriculationNumber,
		"exp": time.Now().Add(m.ttl).Unix(),
	}
	if orderUUID != nil {
		claims["ord"] = orderUUID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) Parse(tokenStr string) (Session, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	employeeUUID, err := uuid.Parse(sub)
	if err != nil {
		return Session{}, ErrInvalidToken
	}

	session := Session{EmployeeUUID: employeeUUID}
	if jti, ok := claims["jti"].(string); ok {
		session.TokenID = jti
	}
	if mat, ok := claims["mat"].(string); ok {
		session.Matriculation = mat
	}
	if ord, ok := claims["ord"].(string); ok {
		if orderUUID, err := uuid.Parse(ord); err == nil {
			session.OrderUUID = &orderUUID
		}
	}
	return session, nil
}
