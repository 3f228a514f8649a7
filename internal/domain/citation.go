package domain

// Citation is a caller-facing excerpt with document provenance. DocID is
// always traceable to a document in the candidate set it was drawn from.
type Citation struct {
	DocID          string
	DocTitle       string
	Excerpt        string
	RelevanceScore float64
}
