package domain

// Category is a question category from the closed taxonomy.
type Category string

const (
	CategoryEncryption       Category = "encryption"
	CategoryAuthentication   Category = "authentication"
	CategoryAuthorization    Category = "authorization"
	CategoryCompliance       Category = "compliance"
	CategoryDataProtection   Category = "data-protection"
	CategoryAPISecurity      Category = "api-security"
	CategoryNetworkSecurity  Category = "network-security"
	CategoryInfrastructure   Category = "infrastructure"
	CategoryDatabase         Category = "database"
	CategoryIncidentResponse Category = "incident-response"
	CategoryOther            Category = "other"
)

// Question is a single security-questionnaire question. Immutable once
// submitted; Category may be inferred downstream when empty.
type Question struct {
	ID       string
	Text     string
	Category Category
}

// Validate checks required question fields.
func (q *Question) Validate() error {
	if q.ID == "" {
		return ErrMissingQuestionID
	}
	if q.Text == "" {
		return ErrMissingQuestionText
	}
	return nil
}

// NormalizedQuestion is the deterministic form of a question used for
// cache keying and routing.
type NormalizedQuestion struct {
	Fingerprint string
	Category    Category
	Intent      string
}
