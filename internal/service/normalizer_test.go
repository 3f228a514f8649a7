package service

import (
	"testing"

	"github.com/questra-ai/questra/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "first five words lowercased",
			text: "Do you encrypt data at rest and in transit?",
			want: "do_you_encrypt_data_at",
		},
		{
			name: "question mark stripped",
			text: "Is MFA enforced for all staff?",
			want: "is_mfa_enforced_for_all",
		},
		{
			name: "apostrophe stripped",
			text: "What's your data retention policy",
			want: "whats_your_data_retention_policy",
		},
		{
			name: "short question uses all words",
			text: "SOC 2 certified?",
			want: "soc_2_certified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fingerprint(tt.text))
		})
	}
}

func TestNormalizer_Deterministic(t *testing.T) {
	n := NewNormalizer()
	q := domain.Question{ID: "q1", Text: "Do you encrypt data at rest with AES-256?"}

	first := n.Normalize(q)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, n.Normalize(q))
	}
}

func TestNormalizer_Categorize(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		text string
		want domain.Category
	}{
		{"Do you encrypt data at rest?", domain.CategoryEncryption},
		{"Is TLS used for connections?", domain.CategoryEncryption},
		{"Do you enforce MFA for all employees?", domain.CategoryAuthentication},
		{"Describe your RBAC model", domain.CategoryAuthorization},
		{"Are you SOC 2 certified?", domain.CategoryCompliance},
		{"What is your data retention policy", domain.CategoryDataProtection},
		{"Do you rate limit public endpoints", domain.CategoryAPISecurity},
		{"Is the production network segmented by firewall rules", domain.CategoryNetworkSecurity},
		{"Which cloud provider hosts the platform", domain.CategoryInfrastructure},
		{"Is the database replicated across regions", domain.CategoryDatabase},
		{"Describe your breach notification process", domain.CategoryIncidentResponse},
		{"Tell me about your favorite color", domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Categorize(tt.text))
		})
	}
}

func TestNormalizer_KeepsCallerCategory(t *testing.T) {
	n := NewNormalizer()

	got := n.Normalize(domain.Question{
		ID:       "q1",
		Text:     "Do you encrypt data at rest?",
		Category: domain.CategoryCompliance,
	})

	assert.Equal(t, domain.CategoryCompliance, got.Category)
}
