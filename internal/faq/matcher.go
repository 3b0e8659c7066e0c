package faq

import (
	"context"
	"fmt"
	"strings"
)

// Stage names which lookup produced an answer
type Stage string

const (
	StageKeyword    Stage = "keyword"
	StageSimilarity Stage = "similarity"
)

// Answer is a successful lookup
type Answer struct {
	Text  string
	FAQID uint
	Stage Stage
	Score float64
}

// Matcher runs the keyword lookup and then the similarity search against a Store
type Matcher struct {
	store     Store
	threshold float64
}

// NewMatcher creates a matcher. A non-positive threshold selects the default.
func NewMatcher(store Store, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Matcher{store: store, threshold: threshold}
}

// FindAnswer looks up the company's best answer for question. found is false
// when neither stage matched; that is not an error.
func (m *Matcher) FindAnswer(ctx context.Context, question, companyID string) (Answer, bool, error) {
	if strings.TrimSpace(companyID) == "" {
		return Answer{}, false, ErrCompanyRequired
	}

	tokens := Tokenize(question)
	if len(tokens) == 0 {
		return Answer{}, false, nil
	}

	row, err := m.store.FindByKeywords(ctx, companyID, tokens)
	if err != nil {
		return Answer{}, false, err
	}
	if row != nil {
		return Answer{Text: row.Answer, FAQID: row.ID, Stage: StageKeyword, Score: 1}, true, nil
	}

	rows, err := m.store.ListFAQs(ctx, companyID)
	if err != nil {
		return Answer{}, false, fmt.Errorf("similarity search: %w", err)
	}
	ranked := Rank(tokens, rows, m.threshold)
	if len(ranked) == 0 {
		return Answer{}, false, nil
	}

	best := ranked[0]
	return Answer{Text: best.FAQ.Answer, FAQID: best.FAQ.ID, Stage: StageSimilarity, Score: best.Score}, true, nil
}
