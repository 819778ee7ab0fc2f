package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims son los claims firmados: sub = id de usuario.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer firma y valida tokens HS256.
type JWTIssuer struct {
	secret []byte
	expire time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, expire time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), expire: expire, now: time.Now}
}

func (j *JWTIssuer) Issue(actor sharedDomain.Actor) (string, error) {
	now := j.now()
	claims := Claims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expire)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// Parse valida firma, algoritmo y expiración y devuelve el actor del token.
func (j *JWTIssuer) Parse(tokenStr string) (sharedDomain.Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil {
		return sharedDomain.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return sharedDomain.Actor{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return sharedDomain.Actor{ID: id, Role: sharedDomain.Role(claims.Role)}, nil
}
