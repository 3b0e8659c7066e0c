package faq

import (
	"context"
	"sort"
	"sync"
	"time"

	"etegie-bot/backend/internal/models"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in process memory. It backs DB_DRIVER=memory and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	companies map[string]models.Company
	faqs      map[string][]models.FAQ
	messages  []models.ChatMessage
	nextFAQ   uint
	nextMsg   uint
	now       func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		companies: make(map[string]models.Company),
		faqs:      make(map[string][]models.FAQ),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// CreateCompany stores company, assigning an id when missing
func (s *MemoryStore) CreateCompany(ctx context.Context, company *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	now := s.now()
	company.CreatedAt, company.UpdatedAt = now, now
	s.companies[company.ID] = *company
	return nil
}

// GetCompany returns ErrCompanyNotFound for unknown ids
func (s *MemoryStore) GetCompany(ctx context.Context, companyID string) (*models.Company, error) {
	if companyID == "" {
		return nil, ErrCompanyRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companies[companyID]
	if !ok {
		return nil, ErrCompanyNotFound
	}
	return &c, nil
}

// AddFAQs normalizes and appends rows for an existing company
func (s *MemoryStore) AddFAQs(ctx context.Context, companyID string, faqs []models.FAQ) ([]models.FAQ, error) {
	rows, err := prepareFAQs(companyID, faqs)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[companyID]; !ok {
		return nil, ErrCompanyNotFound
	}

	now := s.now()
	for i := range rows {
		s.nextFAQ++
		rows[i].ID = s.nextFAQ
		rows[i].CreatedAt, rows[i].UpdatedAt = now, now
	}
	s.faqs[companyID] = append(s.faqs[companyID], rows...)
	return rows, nil
}

// ListFAQs returns the company's rows, most recently updated first
func (s *MemoryStore) ListFAQs(ctx context.Context, companyID string) ([]models.FAQ, error) {
	if companyID == "" {
		return nil, ErrCompanyRequired
	}
	s.mu.RLock()
	rows := append([]models.FAQ(nil), s.faqs[companyID]...)
	s.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool { return newer(&rows[i], &rows[j]) })
	return rows, nil
}

// FindByKeywords returns the newest row sharing a keyword with tokens, or nil
func (s *MemoryStore) FindByKeywords(ctx context.Context, companyID string, tokens []string) (*models.FAQ, error) {
	if companyID == "" {
		return nil, ErrCompanyRequired
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	want := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		want[t] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *models.FAQ
	for i := range s.faqs[companyID] {
		row := &s.faqs[companyID][i]
		if !intersects(row.Keywords, want) {
			continue
		}
		if best == nil || newer(row, best) {
			best = row
		}
	}
	if best == nil {
		return nil, nil
	}
	found := *best
	return &found, nil
}

// LogMessage appends one exchange
func (s *MemoryStore) LogMessage(ctx context.Context, msg *models.ChatMessage) error {
	if msg.CompanyID == "" {
		return ErrCompanyRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMsg++
	msg.ID = s.nextMsg
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now()
	}
	s.messages = append(s.messages, *msg)
	return nil
}

// GetHistory returns one session's exchanges, oldest first
func (s *MemoryStore) GetHistory(ctx context.Context, companyID, sessionID string) ([]models.ChatMessage, error) {
	if companyID == "" {
		return nil, ErrCompanyRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ChatMessage, 0)
	for _, m := range s.messages {
		if m.CompanyID == companyID && m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func intersects(keywords []string, want map[string]struct{}) bool {
	for _, k := range keywords {
		if _, ok := want[k]; ok {
			return true
		}
	}
	return false
}
