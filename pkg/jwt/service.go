package jwt

import (
	"errors"
	"time"
)

// Service signs and validates company admin tokens
type Service struct {
	secretKey []byte
	issuer    string
	expiry    time.Duration
	now       func() time.Time
}

// NewService creates a new JWT service
func NewService(secretKey, issuer string, expiry time.Duration) (*Service, error) {
	if secretKey == "" {
		return nil, errors.New("jwt secret is required")
	}

	if expiry == 0 {
		expiry = 24 * time.Hour
	}

	return &Service{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		expiry:    expiry,
		now:       time.Now,
	}, nil
}

// GenerateToken issues an admin token scoped to one company
func (s *Service) GenerateToken(companyID string) (string, time.Time, error) {
	if companyID == "" {
		return "", time.Time{}, errors.New("company id is required")
	}
	now := s.now()
	claims := newClaims(companyID, s.issuer, now, s.expiry)
	token, err := signToken(s.secretKey, claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	return parseToken(s.secretKey, s.issuer, tokenString)
}
