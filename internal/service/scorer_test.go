package service

import (
	"testing"

	"github.com/questra-ai/questra/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestConfidenceScorer_EmptyEvidence(t *testing.T) {
	s := NewConfidenceScorer()
	assert.Equal(t, 0.0, s.Score(nil))
	assert.Equal(t, 0.0, s.Score([]domain.Evidence{}))
}

func TestConfidenceScorer_WeightedFormula(t *testing.T) {
	s := NewConfidenceScorer()

	evidence := []domain.Evidence{
		{SourceType: "soc2", SimilarityScore: 0.9},
		{SourceType: "policy", SimilarityScore: 0.8},
		{SourceType: "unknown", SimilarityScore: 0.7},
	}

	// 0.5*0.9 + 0.3*((1.0+0.8+0.5)/3) + 0.2*1.0
	assert.InDelta(t, 0.88, s.Score(evidence), 1e-9)
}

func TestConfidenceScorer_SingleWeakEvidence(t *testing.T) {
	s := NewConfidenceScorer()

	evidence := []domain.Evidence{
		{SourceType: "other", SimilarityScore: 0.4},
	}

	// 0.5*0.4 + 0.3*0.5 + 0.2*(1/3)
	got := s.Score(evidence)
	assert.InDelta(t, 0.41666, got, 1e-4)
	assert.Equal(t, domain.ConfidenceLow, domain.LevelForScore(got))
}

func TestConfidenceScorer_CappedBelowCacheCeiling(t *testing.T) {
	s := NewConfidenceScorer()

	evidence := []domain.Evidence{
		{SourceType: "soc2", SimilarityScore: 1.0},
		{SourceType: "soc2", SimilarityScore: 1.0},
		{SourceType: "soc2", SimilarityScore: 1.0},
	}

	assert.Equal(t, 0.98, s.Score(evidence))
}

func TestConfidenceScorer_AuthorityUsesTopThree(t *testing.T) {
	s := NewConfidenceScorer()

	// The fourth entry's authority must not change the score.
	base := []domain.Evidence{
		{SourceType: "soc2", SimilarityScore: 0.9},
		{SourceType: "soc2", SimilarityScore: 0.8},
		{SourceType: "soc2", SimilarityScore: 0.7},
	}
	extended := append(append([]domain.Evidence{}, base...),
		domain.Evidence{SourceType: "other", SimilarityScore: 0.1})

	assert.Equal(t, s.Score(base), s.Score(extended))
}
