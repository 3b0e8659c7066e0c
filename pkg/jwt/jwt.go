package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// ScopeAdmin lets a token manage a company's FAQs and read its chat history
const ScopeAdmin = "company:admin"

// JWTClaims represents the claims in a company admin token
type JWTClaims struct {
	CompanyID string `json:"company_id"`
	Scope     string `json:"scope"`
	jwt.RegisteredClaims
}

// CanAccess reports whether the token is scoped to the given company
func (c *JWTClaims) CanAccess(companyID string) bool {
	return c.CompanyID != "" && c.CompanyID == companyID && c.Scope == ScopeAdmin
}

func signToken(secret []byte, claims *JWTClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseToken(secret []byte, issuer, tokenString string) (*JWTClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&JWTClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		opts...,
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func newClaims(companyID, issuer string, now time.Time, expiry time.Duration) *JWTClaims {
	return &JWTClaims{
		CompanyID: companyID,
		Scope:     ScopeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   companyID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
}
