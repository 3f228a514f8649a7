package domain

// ConfidenceLevel bands a numeric confidence score.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// LevelForScore maps a numeric score to its confidence band:
// high 0.8-1.0, medium 0.5-0.79, low below 0.5.
func LevelForScore(score float64) ConfidenceLevel {
	switch {
	case score >= 0.8:
		return ConfidenceHigh
	case score >= 0.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// SourceKind tags where an answer came from.
type SourceKind string

const (
	SourceCache     SourceKind = "cache"
	SourceRetrieval SourceKind = "retrieval"
	SourceEscalate  SourceKind = "escalate"
)

// MaxConfidence is the ceiling for every confidence value. Automated
// answers are never maximally confident so they stay reviewable.
const MaxConfidence = 0.99

// ClampConfidence bounds a confidence value to [0, MaxConfidence].
func ClampConfidence(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > MaxConfidence {
		return MaxConfidence
	}
	return score
}

// AnswerResult is the outcome of running one question through the
// pipeline. Never mutated after construction; use the constructors so the
// confidence clamp and escalation invariants hold.
type AnswerResult struct {
	QuestionID       string
	QuestionText     string
	AnswerText       string
	ConfidenceScore  float64
	ConfidenceLevel  ConfidenceLevel
	SourceKind       SourceKind
	Citations        []Citation
	Reasoning        string
	NeedsEscalation  bool
	EscalationReason string
	Category         Category
}

// NewCacheHitResult builds a result from a verified-answer cache hit.
func NewCacheHitResult(q Question, rec *VerifiedAnswer, confidence, boost float64) AnswerResult {
	score := ClampConfidence(confidence + boost)
	return AnswerResult{
		QuestionID:      q.ID,
		QuestionText:    q.Text,
		AnswerText:      rec.Answer,
		ConfidenceScore: score,
		ConfidenceLevel: LevelForScore(score),
		SourceKind:      SourceCache,
		Citations: []Citation{{
			DocID:          "verified:" + rec.Fingerprint,
			DocTitle:       rec.EvidenceSource,
			Excerpt:        rec.Answer,
			RelevanceScore: 1.0,
		}},
		Reasoning:       "Reused human-verified answer (fingerprint: " + rec.Fingerprint + ")",
		NeedsEscalation: false,
		Category:        q.Category,
	}
}

// NewRetrievedResult builds a result drafted from retrieved evidence.
func NewRetrievedResult(q Question, answer string, score float64, citations []Citation, reasoning string) AnswerResult {
	score = ClampConfidence(score)
	return AnswerResult{
		QuestionID:      q.ID,
		QuestionText:    q.Text,
		AnswerText:      answer,
		ConfidenceScore: score,
		ConfidenceLevel: LevelForScore(score),
		SourceKind:      SourceRetrieval,
		Citations:       citations,
		Reasoning:       reasoning,
		NeedsEscalation: false,
		Category:        q.Category,
	}
}

// NewEscalatedResult builds a result that must go to a human. The
// escalation flag is set here and never cleared downstream.
func NewEscalatedResult(q Question, answer string, score float64, citations []Citation, reasoning, reason string) AnswerResult {
	score = ClampConfidence(score)
	if answer == "" {
		answer = "[REQUIRES HUMAN REVIEW]"
	}
	return AnswerResult{
		QuestionID:       q.ID,
		QuestionText:     q.Text,
		AnswerText:       answer,
		ConfidenceScore:  score,
		ConfidenceLevel:  LevelForScore(score),
		SourceKind:       SourceEscalate,
		Citations:        citations,
		Reasoning:        reasoning,
		NeedsEscalation:  true,
		EscalationReason: reason,
		Category:         q.Category,
	}
}
