package domain

import "strings"

// Evidence is a scored excerpt retrieved from the document corpus for a
// question. Produced fresh per retrieval and never persisted directly.
type Evidence struct {
	Text            string
	SourceTitle     string
	SourceType      string
	Section         string
	SimilarityScore float64
}

// ContextDocument is a candidate document for citation extraction, either
// retrieved or supplied by the caller.
type ContextDocument struct {
	DocID    string
	Title    string
	Content  string
	Source   string
	Metadata map[string]any
}

const evidenceExcerptMax = 500

// ToContextDocument converts retrieved evidence into a citation candidate.
func (e Evidence) ToContextDocument() ContextDocument {
	return ContextDocument{
		DocID:   docIDFromTitle(e.SourceTitle),
		Title:   e.SourceTitle,
		Content: e.Text,
		Source:  e.SourceType,
		Metadata: map[string]any{
			"similarity_score": e.SimilarityScore,
			"section":          e.Section,
		},
	}
}

// ToCitation converts evidence directly into a citation, truncating the
// excerpt to a bounded length.
func (e Evidence) ToCitation() Citation {
	excerpt := e.Text
	if len(excerpt) > evidenceExcerptMax {
		excerpt = excerpt[:evidenceExcerptMax]
	}
	return Citation{
		DocID:          docIDFromTitle(e.SourceTitle),
		DocTitle:       e.SourceTitle,
		Excerpt:        excerpt,
		RelevanceScore: e.SimilarityScore,
	}
}

func docIDFromTitle(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "_")
}
