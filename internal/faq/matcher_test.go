package faq

import (
	"context"
	"errors"
	"testing"
	"time"

	"etegie-bot/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func time24h() time.Duration { return 24 * time.Hour }

func seededMatcher(t *testing.T) (*Matcher, *MemoryStore, string, string) {
	t.Helper()
	ctx := context.Background()
	store := NewMemoryStore()
	a := seedCompany(t, store, "A")
	b := seedCompany(t, store, "B")

	_, err := store.AddFAQs(ctx, a, []models.FAQ{
		{Question: "How do I reset my password?", Answer: "Use the forgot password link.", Keywords: []string{"password", "reset"}},
		{Question: "What are your opening hours?", Answer: "We are open 9 to 5."},
	})
	require.NoError(t, err)
	_, err = store.AddFAQs(ctx, b, []models.FAQ{
		{Question: "How do I reset my password?", Answer: "B: call support.", Keywords: []string{"password", "reset"}},
	})
	require.NoError(t, err)

	return NewMatcher(store, 0), store, a, b
}

func TestFindAnswerKeywordStage(t *testing.T) {
	m, _, a, _ := seededMatcher(t)

	ans, found, err := m.FindAnswer(context.Background(), "I forgot my PASSWORD", a)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Use the forgot password link.", ans.Text)
	assert.Equal(t, StageKeyword, ans.Stage)
}

func TestFindAnswerSimilarityStage(t *testing.T) {
	m, _, a, _ := seededMatcher(t)

	ans, found, err := m.FindAnswer(context.Background(), "opening hours?", a)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "We are open 9 to 5.", ans.Text)
	assert.Equal(t, StageSimilarity, ans.Stage)
	assert.InDelta(t, 1.0, ans.Score, 1e-9)
}

func TestFindAnswerNoMatchIsNotAnError(t *testing.T) {
	m, _, a, _ := seededMatcher(t)

	_, found, err := m.FindAnswer(context.Background(), "tell me about the weather today", a)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = m.FindAnswer(context.Background(), "hi", a)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFindAnswerTenantIsolation(t *testing.T) {
	m, store, a, b := seededMatcher(t)
	ctx := context.Background()

	ansA, found, err := m.FindAnswer(ctx, "reset password", a)
	require.NoError(t, err)
	require.True(t, found)
	ansB, found, err := m.FindAnswer(ctx, "reset password", b)
	require.NoError(t, err)
	require.True(t, found)
	assert.NotEqual(t, ansA.Text, ansB.Text)

	c := seedCompany(t, store, "C")
	_, found, err = m.FindAnswer(ctx, "How do I reset my password?", c)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFindAnswerRequiresCompany(t *testing.T) {
	m, _, _, _ := seededMatcher(t)
	_, _, err := m.FindAnswer(context.Background(), "reset password", "  ")
	assert.ErrorIs(t, err, ErrCompanyRequired)
}

type failingStore struct {
	*MemoryStore
}

func (failingStore) FindByKeywords(ctx context.Context, companyID string, tokens []string) (*models.FAQ, error) {
	return nil, errors.New("connection refused")
}

func TestFindAnswerPropagatesStoreErrors(t *testing.T) {
	m := NewMatcher(failingStore{NewMemoryStore()}, 0)
	_, found, err := m.FindAnswer(context.Background(), "reset password", "acme")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestMemoryKeywordLookupPrefersRecentlyUpdated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	id := seedCompany(t, store, "Acme")

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return clock })
	_, err := store.AddFAQs(ctx, id, []models.FAQ{{Question: "Shipping v1", Answer: "old", Keywords: []string{"shipping"}}})
	require.NoError(t, err)

	clock = clock.Add(time24h())
	_, err = store.AddFAQs(ctx, id, []models.FAQ{{Question: "Shipping v2", Answer: "new", Keywords: []string{"shipping"}}})
	require.NoError(t, err)

	row, err := store.FindByKeywords(ctx, id, []string{"shipping"})
	require.NoError(t, err)
	assert.Equal(t, "new", row.Answer)
}
