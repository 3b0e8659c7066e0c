// Package faq implements the company-scoped FAQ store and the two-stage
// keyword/similarity lookup used by the hosted responder.
package faq

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"etegie-bot/backend/internal/models"
)

var (
	// ErrCompanyRequired is returned whenever a lookup arrives without a tenant
	ErrCompanyRequired = errors.New("company id is required")
	// ErrCompanyNotFound is returned for unknown company ids
	ErrCompanyNotFound = errors.New("company not found")
	// ErrInvalidFAQ is wrapped by AddFAQs validation failures
	ErrInvalidFAQ = errors.New("invalid faq")
)

// Store is the persistence boundary for companies, FAQ rows and chat logs.
// Every FAQ and chat method is scoped by company id.
type Store interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, companyID string) (*models.Company, error)
	AddFAQs(ctx context.Context, companyID string, faqs []models.FAQ) ([]models.FAQ, error)
	ListFAQs(ctx context.Context, companyID string) ([]models.FAQ, error)
	// FindByKeywords returns the most recently updated row whose keywords
	// intersect tokens, or nil when none does.
	FindByKeywords(ctx context.Context, companyID string, tokens []string) (*models.FAQ, error)
	LogMessage(ctx context.Context, msg *models.ChatMessage) error
	GetHistory(ctx context.Context, companyID, sessionID string) ([]models.ChatMessage, error)
	Ping(ctx context.Context) error
}

// prepareFAQs validates the batch and fills defaults before insertion
func prepareFAQs(companyID string, faqs []models.FAQ) ([]models.FAQ, error) {
	if companyID == "" {
		return nil, ErrCompanyRequired
	}
	if len(faqs) == 0 {
		return nil, fmt.Errorf("%w: no faqs given", ErrInvalidFAQ)
	}

	out := make([]models.FAQ, len(faqs))
	for i, f := range faqs {
		f.ID = 0
		f.CompanyID = companyID
		f.Question = strings.TrimSpace(f.Question)
		f.Answer = strings.TrimSpace(f.Answer)
		if f.Question == "" || f.Answer == "" {
			return nil, fmt.Errorf("%w: entry %d needs both question and answer", ErrInvalidFAQ, i)
		}
		if strings.TrimSpace(f.Category) == "" {
			f.Category = models.DefaultCategory
		}
		f.Keywords = NormalizeKeywords(f.Keywords)
		f.KeywordRows = nil
		out[i] = f
	}
	return out, nil
}
