package faq

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"etegie-bot/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	store := NewGormStore(db)
	require.NoError(t, store.AutoMigrate(context.Background()))
	return store
}

func stores(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store { return newSQLiteStore(t) },
	}
}

func seedCompany(t *testing.T, s Store, name string) string {
	t.Helper()
	c := &models.Company{Name: name}
	require.NoError(t, s.CreateCompany(context.Background(), c))
	require.NotEmpty(t, c.ID)
	return c.ID
}

func TestStoreContract(t *testing.T) {
	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			t.Run("company round trip", func(t *testing.T) {
				id := seedCompany(t, s, "Acme")
				got, err := s.GetCompany(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, "Acme", got.Name)

				_, err = s.GetCompany(ctx, "does-not-exist")
				assert.ErrorIs(t, err, ErrCompanyNotFound)

				_, err = s.GetCompany(ctx, "")
				assert.ErrorIs(t, err, ErrCompanyRequired)
			})

			t.Run("add faqs fills defaults", func(t *testing.T) {
				id := seedCompany(t, s, "Defaults")
				rows, err := s.AddFAQs(ctx, id, []models.FAQ{
					{Question: " What are your hours? ", Answer: "9 to 5", Keywords: []string{"Hours", "open", "hours"}},
					{Question: "Do you ship abroad?", Answer: "Yes", Category: "Shipping"},
				})
				require.NoError(t, err)
				require.Len(t, rows, 2)
				assert.NotZero(t, rows[0].ID)
				assert.Equal(t, "What are your hours?", rows[0].Question)
				assert.Equal(t, models.DefaultCategory, rows[0].Category)
				assert.Equal(t, []string{"hours", "open"}, rows[0].Keywords)
				assert.Equal(t, "Shipping", rows[1].Category)
				assert.Empty(t, rows[1].Keywords)

				listed, err := s.ListFAQs(ctx, id)
				require.NoError(t, err)
				require.Len(t, listed, 2)
				assert.ElementsMatch(t, []string{"hours", "open"}, listed[0].Keywords)
			})

			t.Run("add faqs validates", func(t *testing.T) {
				id := seedCompany(t, s, "Invalid")
				_, err := s.AddFAQs(ctx, id, []models.FAQ{{Question: "q"}})
				assert.ErrorIs(t, err, ErrInvalidFAQ)

				_, err = s.AddFAQs(ctx, "missing-company", []models.FAQ{{Question: "q", Answer: "a"}})
				assert.ErrorIs(t, err, ErrCompanyNotFound)

				_, err = s.AddFAQs(ctx, "", []models.FAQ{{Question: "q", Answer: "a"}})
				assert.ErrorIs(t, err, ErrCompanyRequired)
			})

			t.Run("keyword lookup is tenant scoped", func(t *testing.T) {
				a := seedCompany(t, s, "A")
				b := seedCompany(t, s, "B")
				_, err := s.AddFAQs(ctx, a, []models.FAQ{{Question: "Refund policy?", Answer: "A refunds", Keywords: []string{"refund"}}})
				require.NoError(t, err)

				row, err := s.FindByKeywords(ctx, b, []string{"refund"})
				require.NoError(t, err)
				assert.Nil(t, row)

				row, err = s.FindByKeywords(ctx, a, []string{"refund", "policy"})
				require.NoError(t, err)
				require.NotNil(t, row)
				assert.Equal(t, "A refunds", row.Answer)
				assert.Equal(t, []string{"refund"}, row.Keywords)

				_, err = s.FindByKeywords(ctx, "", []string{"refund"})
				assert.ErrorIs(t, err, ErrCompanyRequired)
			})

			t.Run("history is ascending and scoped", func(t *testing.T) {
				a := seedCompany(t, s, "HistA")
				b := seedCompany(t, s, "HistB")

				require.NoError(t, s.LogMessage(ctx, &models.ChatMessage{CompanyID: a, SessionID: "s1", Message: "first", Response: "r1"}))
				require.NoError(t, s.LogMessage(ctx, &models.ChatMessage{CompanyID: b, SessionID: "s1", Message: "other", Response: "r"}))
				require.NoError(t, s.LogMessage(ctx, &models.ChatMessage{CompanyID: a, SessionID: "s1", Message: "second", Response: "r2"}))
				require.NoError(t, s.LogMessage(ctx, &models.ChatMessage{CompanyID: a, SessionID: "s2", Message: "elsewhere", Response: "r"}))

				history, err := s.GetHistory(ctx, a, "s1")
				require.NoError(t, err)
				require.Len(t, history, 2)
				assert.Equal(t, "first", history[0].Message)
				assert.Equal(t, "second", history[1].Message)

				empty, err := s.GetHistory(ctx, a, "nobody")
				require.NoError(t, err)
				assert.NotNil(t, empty)
				assert.Empty(t, empty)

				assert.ErrorIs(t, s.LogMessage(ctx, &models.ChatMessage{SessionID: "s1"}), ErrCompanyRequired)
			})

			t.Run("ping", func(t *testing.T) {
				assert.NoError(t, s.Ping(ctx))
			})
		})
	}
}

func TestGormKeywordLookupPrefersRecentlyUpdated(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	id := seedCompany(t, s, "Acme")

	rows, err := s.AddFAQs(ctx, id, []models.FAQ{
		{Question: "Old shipping info", Answer: "old", Keywords: []string{"shipping"}},
		{Question: "New shipping info", Answer: "new", Keywords: []string{"shipping"}},
	})
	require.NoError(t, err)

	require.NoError(t, s.db.Model(&models.FAQ{}).Where("id = ?", rows[0].ID).
		UpdateColumn("updated_at", rows[0].UpdatedAt.Add(-time24h())).Error)

	row, err := s.FindByKeywords(ctx, id, []string{"shipping"})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "new", row.Answer)

	require.NoError(t, s.db.Model(&models.FAQ{}).Where("id = ?", rows[0].ID).
		UpdateColumn("updated_at", rows[1].UpdatedAt.Add(time24h())).Error)

	row, err = s.FindByKeywords(ctx, id, []string{"shipping"})
	require.NoError(t, err)
	assert.Equal(t, "old", row.Answer)
}
