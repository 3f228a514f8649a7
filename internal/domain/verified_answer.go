package domain

import "time"

// VerifiedAnswer is a human-approved answer stored for reuse. Records are
// created and replaced only through feedback promotion, keyed by the
// question fingerprint.
type VerifiedAnswer struct {
	Fingerprint    string
	QuestionText   string
	Answer         string
	EvidenceSource string
	Category       Category
	Confidence     float64
	Embedding      []float32
	LastVerified   time.Time
	CreatedAt      time.Time
}
