package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var TimeNow = time.Now
var ErrTokenNotValid error = errors.New("token is not valid")
var ErrTokenExpired error = errors.New("token expired")

// Claims mirrors the access token issued by the hosted auth service.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type TokenInfo struct {
	Subject    string
	Email      string
	Role       string
	Expiration time.Duration
}

type JWTService struct {
	secret []byte
}

func NewJWTService(jwtSecret []byte) *JWTService {
	return &JWTService{
		secret: jwtSecret,
	}
}

func (s *JWTService) Generate(data TokenInfo) *jwt.Token {
	now := TimeNow()
	claims := Claims{
		Email: data.Email,
		Role:  data.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   data.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(data.Expiration)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
}

func (s *JWTService) Sign(token *jwt.Token) (string, error) {
	tokenStr, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("get signing string: %w", err)
	}
	return tokenStr, nil
}

// Validate checks the signature and expiry and returns the token claims.
func (s *JWTService) Validate(token string) (*Claims, error) {
	claims := &Claims{}
	jwtToken, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(TimeNow), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("jwt parse: %w", ErrTokenExpired)
		}
		return nil, fmt.Errorf("jwt parse: %w: %w", err, ErrTokenNotValid)
	}

	if !jwtToken.Valid {
		return nil, ErrTokenNotValid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("missing subject: %w", ErrTokenNotValid)
	}

	return claims, nil
}
