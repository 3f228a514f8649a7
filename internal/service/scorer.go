package service

import "github.com/questra-ai/questra/internal/domain"

const (
	// maxAnalyticalConfidence caps the evidence-derived score below the
	// cache ceiling so retrieval never outranks a verified answer.
	maxAnalyticalConfidence = 0.98

	topAuthorityCount = 3
	fullCountEvidence = 3.0

	similarityWeight = 0.5
	authorityWeight  = 0.3
	countWeight      = 0.2
)

// sourceAuthority weights evidence by the trust level of its source type.
var sourceAuthority = map[string]float64{
	"soc2":      1.0,
	"policy":    0.8,
	"procedure": 0.7,
	"other":     0.5,
}

const defaultAuthority = 0.5

// ConfidenceScorer computes an analytical confidence from evidence
// quality: top similarity, source authority, and evidence count.
type ConfidenceScorer struct{}

func NewConfidenceScorer() *ConfidenceScorer {
	return &ConfidenceScorer{}
}

// Score returns a confidence in [0, 0.98]. Evidence must be sorted
// descending by similarity; empty evidence scores zero.
func (s *ConfidenceScorer) Score(evidence []domain.Evidence) float64 {
	if len(evidence) == 0 {
		return 0.0
	}

	topScore := evidence[0].SimilarityScore

	n := len(evidence)
	if n > topAuthorityCount {
		n = topAuthorityCount
	}
	var authoritySum float64
	for _, e := range evidence[:n] {
		a, ok := sourceAuthority[e.SourceType]
		if !ok {
			a = defaultAuthority
		}
		authoritySum += a
	}
	avgAuthority := authoritySum / float64(n)

	countFactor := float64(len(evidence)) / fullCountEvidence
	if countFactor > 1.0 {
		countFactor = 1.0
	}

	confidence := similarityWeight*topScore +
		authorityWeight*avgAuthority +
		countWeight*countFactor

	if confidence > maxAnalyticalConfidence {
		confidence = maxAnalyticalConfidence
	}
	return domain.ClampConfidence(confidence)
}
