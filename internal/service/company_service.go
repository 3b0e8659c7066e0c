package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"etegie-bot/backend/internal/faq"
	"etegie-bot/backend/internal/models"
	"etegie-bot/backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCompany = errors.New("company name is required")
	ErrInvalidAPIKey  = errors.New("invalid company id or api key")
)

const apiKeyPrefix = "etg_"

// TokenIssuer is satisfied by *jwt.Service
type TokenIssuer interface {
	GenerateToken(companyID string) (string, time.Time, error)
}

// CompanyService handles tenant setup, admin login and FAQ uploads
type CompanyService struct {
	store  faq.Store
	tokens TokenIssuer
	logger *logger.Logger
}

// NewCompanyService creates a new company service
func NewCompanyService(store faq.Store, tokens TokenIssuer, log *logger.Logger) *CompanyService {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &CompanyService{store: store, tokens: tokens, logger: log}
}

// CreateCompany registers a tenant and returns it with its admin key.
// The key is only ever returned here; the store keeps a bcrypt hash.
func (s *CompanyService) CreateCompany(ctx context.Context, name, description string) (*models.Company, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", ErrInvalidCompany
	}

	apiKey, err := newAPIKey()
	if err != nil {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash api key: %w", err)
	}

	company := &models.Company{
		Name:        name,
		Description: strings.TrimSpace(description),
		APIKeyHash:  string(hash),
	}
	if err := s.store.CreateCompany(ctx, company); err != nil {
		return nil, "", err
	}

	s.logger.WithCompanyID(company.ID).Info("company created", "name", company.Name)
	return company, apiKey, nil
}

// GetCompany returns one tenant
func (s *CompanyService) GetCompany(ctx context.Context, companyID string) (*models.Company, error) {
	return s.store.GetCompany(ctx, companyID)
}

// IssueToken exchanges a company's admin key for a signed token
func (s *CompanyService) IssueToken(ctx context.Context, companyID, apiKey string) (string, time.Time, error) {
	company, err := s.store.GetCompany(ctx, companyID)
	if errors.Is(err, faq.ErrCompanyNotFound) || errors.Is(err, faq.ErrCompanyRequired) {
		return "", time.Time{}, ErrInvalidAPIKey
	}
	if err != nil {
		return "", time.Time{}, err
	}

	if company.APIKeyHash == "" || bcrypt.CompareHashAndPassword([]byte(company.APIKeyHash), []byte(apiKey)) != nil {
		s.logger.WithCompanyID(companyID).Warn("rejected admin key")
		return "", time.Time{}, ErrInvalidAPIKey
	}

	return s.tokens.GenerateToken(company.ID)
}

// AddFAQs uploads a batch of FAQ rows for the company
func (s *CompanyService) AddFAQs(ctx context.Context, companyID string, faqs []models.FAQ) ([]models.FAQ, error) {
	rows, err := s.store.AddFAQs(ctx, companyID, faqs)
	if err != nil {
		return nil, err
	}
	s.logger.WithCompanyID(companyID).Info("faqs added", "count", len(rows))
	return rows, nil
}

// ListFAQs returns the company's FAQ rows, most recently updated first
func (s *CompanyService) ListFAQs(ctx context.Context, companyID string) ([]models.FAQ, error) {
	return s.store.ListFAQs(ctx, companyID)
}

// newAPIKey returns apiKeyPrefix followed by 32 hex characters
func newAPIKey() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return apiKeyPrefix + hex.EncodeToString(buf), nil
}
