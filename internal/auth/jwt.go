package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer signs and verifies HS256 bearer tokens carrying user id and role.
type Issuer struct {
	key []byte
	ttl time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{key: []byte(secret), ttl: ttl}
}

func (i *Issuer) Sign(userID, role string) (string, Claims, time.Time, error) {
	now := time.Now()
	exp := now.Add(i.ttl)
	c := Claims{Subject: userID, Role: role, JWTID: uuid.NewString()}
	claims := jwt.MapClaims{
		"sub":  c.Subject,
		"role": c.Role,
		"jti":  c.JWTID,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(i.key)
	return s, c, exp, err
}

func (i *Issuer) Verify(tokenStr string) (Claims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return Claims{}, errors.New("invalid token")
	}
	mapc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims")
	}
	sub, _ := mapc["sub"].(string)
	role, _ := mapc["role"].(string)
	jti, _ := mapc["jti"].(string)
	if sub == "" {
		return Claims{}, errors.New("invalid claims")
	}
	return Claims{Subject: sub, Role: role, JWTID: jti}, nil
}
