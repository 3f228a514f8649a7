package service

import (
	"strings"

	"github.com/questra-ai/questra/internal/domain"
)

const fingerprintWords = 5

// categoryKeywords maps each taxonomy category to its trigger keywords.
// Order matters: the first category with a match wins, so identical text
// always classifies identically.
var categoryOrder = []domain.Category{
	domain.CategoryEncryption,
	domain.CategoryAuthentication,
	domain.CategoryAuthorization,
	domain.CategoryCompliance,
	domain.CategoryDataProtection,
	domain.CategoryAPISecurity,
	domain.CategoryNetworkSecurity,
	domain.CategoryInfrastructure,
	domain.CategoryDatabase,
	domain.CategoryIncidentResponse,
}

var categoryKeywords = map[domain.Category][]string{
	domain.CategoryEncryption:       {"encrypt", "aes", "kms", "key management", "data at rest", "in transit", "tls", "ssl"},
	domain.CategoryAuthentication:   {"auth", "mfa", "multi-factor", "password", "login", "sso", "saml", "oauth"},
	domain.CategoryAuthorization:    {"access control", "rbac", "permission", "privilege", "least privilege"},
	domain.CategoryCompliance:       {"soc 2", "soc2", "gdpr", "hipaa", "iso 27001", "compliance", "certification", "audit"},
	domain.CategoryDataProtection:   {"data retention", "backup", "deletion", "data processing", "dpa", "pii", "personal data"},
	domain.CategoryAPISecurity:      {"api", "rate limit", "endpoint", "webhook"},
	domain.CategoryNetworkSecurity:  {"network", "firewall", "vpc", "segmentation", "ddos"},
	domain.CategoryInfrastructure:   {"infrastructure", "cloud provider", "hosting", "data center", "kubernetes", "container"},
	domain.CategoryDatabase:         {"database", "sql", "postgres", "mongodb", "replication"},
	domain.CategoryIncidentResponse: {"incident", "breach", "notification", "response plan"},
}

// Normalizer derives a stable fingerprint, category, and intent from raw
// question text. Deterministic: the fingerprint is the cache key, so the
// same text must always normalize the same way.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize produces the canonical form of a question. When the question
// already carries a category from the caller, it is kept.
func (n *Normalizer) Normalize(q domain.Question) domain.NormalizedQuestion {
	category := q.Category
	if category == "" {
		category = n.Categorize(q.Text)
	}

	return domain.NormalizedQuestion{
		Fingerprint: Fingerprint(q.Text),
		Category:    category,
		Intent:      strings.TrimSpace(q.Text),
	}
}

// Categorize matches the question text against the keyword table,
// returning the first matching category or "other".
func (n *Normalizer) Categorize(text string) domain.Category {
	lower := strings.ToLower(text)
	for _, cat := range categoryOrder {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(lower, kw) {
				return cat
			}
		}
	}
	return domain.CategoryOther
}

// Fingerprint builds a stable key from the first words of the lowercased
// text with question marks and apostrophes stripped.
func Fingerprint(text string) string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) > fingerprintWords {
		words = words[:fingerprintWords]
	}
	fp := strings.Join(words, "_")
	fp = strings.ReplaceAll(fp, "?", "")
	fp = strings.ReplaceAll(fp, "'", "")
	return fp
}
