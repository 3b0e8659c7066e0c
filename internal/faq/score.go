package faq

import (
	"sort"

	"etegie-bot/backend/internal/models"
)

// DefaultSimilarityThreshold is the minimum overlap score a row must exceed
const DefaultSimilarityThreshold = 0.3

// Match is an FAQ row with the score it earned against a query
type Match struct {
	FAQ   models.FAQ
	Score float64
}

// Overlap returns |query ∩ terms(faq)| / |query|, where terms(faq) is the
// tokenized question together with the row's keywords. The result is in [0, 1].
func Overlap(query []string, faq *models.FAQ) float64 {
	if len(query) == 0 {
		return 0
	}

	terms := make(map[string]struct{}, len(faq.Keywords)+8)
	for _, t := range Tokenize(faq.Question) {
		terms[t] = struct{}{}
	}
	for _, k := range faq.Keywords {
		terms[k] = struct{}{}
	}

	hits := 0
	for _, q := range query {
		if _, ok := terms[q]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}

// Rank scores rows against the query and returns those strictly above threshold,
// best first. Equal scores fall back to most recently updated, then lowest id.
func Rank(query []string, rows []models.FAQ, threshold float64) []Match {
	matches := make([]Match, 0, len(rows))
	for i := range rows {
		score := Overlap(query, &rows[i])
		if score > threshold {
			matches = append(matches, Match{FAQ: rows[i], Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return newer(&a.FAQ, &b.FAQ)
	})
	return matches
}

// newer orders rows most-recently-updated first, then by ascending id
func newer(a, b *models.FAQ) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID < b.ID
}
