package faq

import (
	"context"
	"errors"
	"fmt"

	"etegie-bot/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore persists companies, FAQs and chat logs through gorm (Postgres or SQLite)
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates or updates the schema
func (s *GormStore) AutoMigrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate faq schema: %w", err)
	}
	return nil
}

// CreateCompany inserts company
func (s *GormStore) CreateCompany(ctx context.Context, company *models.Company) error {
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(company).Error; err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	return nil
}

// GetCompany returns ErrCompanyNotFound for unknown ids
func (s *GormStore) GetCompany(ctx context.Context, companyID string) (*models.Company, error) {
	if companyID == "" {
		return nil, ErrCompanyRequired
	}

	var company models.Company
	err := s.db.WithContext(ctx).Where("id = ?", companyID).Take(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	return &company, nil
}

// AddFAQs inserts the rows and their keywords in one transaction
func (s *GormStore) AddFAQs(ctx context.Context, companyID string, faqs []models.FAQ) ([]models.FAQ, error) {
	rows, err := prepareFAQs(companyID, faqs)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].KeywordRows = make([]models.FAQKeyword, len(rows[i].Keywords))
		for j, k := range rows[i].Keywords {
			rows[i].KeywordRows[j] = models.FAQKeyword{CompanyID: companyID, Keyword: k}
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert faqs: %w", err)
	}

	for i := range rows {
		rows[i].KeywordRows = nil
	}
	return rows, nil
}

// ListFAQs returns the company's rows with keywords, most recently updated first
func (s *GormStore) ListFAQs(ctx context.Context, companyID string) ([]models.FAQ, error) {
	if companyID == "" {
		return nil, ErrCompanyRequired
	}

	var rows []models.FAQ
	err := s.db.WithContext(ctx).
		Preload("KeywordRows").
		Where("company_id = ?", companyID).
		Order("updated_at DESC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}

	for i := range rows {
		hydrate(&rows[i])
	}
	return rows, nil
}

// FindByKeywords joins faq_keywords against tokens and returns the newest hit, or nil
func (s *GormStore) FindByKeywords(ctx context.Context, companyID string, tokens []string) (*models.FAQ, error) {
	if companyID == "" {
		return nil, ErrCompanyRequired
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	db := s.db.WithContext(ctx)
	matching := db.Model(&models.FAQKeyword{}).
		Select("faq_id").
		Where("company_id = ? AND keyword IN ?", companyID, tokens)

	var rows []models.FAQ
	err := db.Preload("KeywordRows").
		Where("company_id = ? AND id IN (?)", companyID, matching).
		Order("updated_at DESC").Order("id ASC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("keyword lookup failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	hydrate(&rows[0])
	return &rows[0], nil
}

// LogMessage appends one exchange to chat_messages
func (s *GormStore) LogMessage(ctx context.Context, msg *models.ChatMessage) error {
	if msg.CompanyID == "" {
		return ErrCompanyRequired
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to log chat message: %w", err)
	}
	return nil
}

// GetHistory returns one session's exchanges, oldest first
func (s *GormStore) GetHistory(ctx context.Context, companyID, sessionID string) ([]models.ChatMessage, error) {
	if companyID == "" {
		return nil, ErrCompanyRequired
	}

	messages := make([]models.ChatMessage, 0)
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND session_id = ?", companyID, sessionID).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	return messages, nil
}

// Ping checks the database connection
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// hydrate copies the keyword rows into the flat Keywords slice
func hydrate(f *models.FAQ) {
	f.Keywords = make([]string, len(f.KeywordRows))
	for i, k := range f.KeywordRows {
		f.Keywords[i] = k.Keyword
	}
	f.KeywordRows = nil
}
