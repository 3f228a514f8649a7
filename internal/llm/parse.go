package llm

import (
	"encoding/json"
	"strings"

	"github.com/questra-ai/questra/internal/domain"
)

// StripCodeFences removes a markdown code fence wrapper from model output.
// Models frequently wrap JSON in ```json blocks even when told not to.
func StripCodeFences(content string) string {
	content = strings.TrimSpace(content)

	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+len("```json"):]
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+len("```"):]
	} else {
		return content
	}

	if end := strings.Index(content, "```"); end >= 0 {
		content = content[:end]
	}
	return strings.TrimSpace(content)
}

// ParseJSON decodes model output into v, tolerating code-fence wrapping.
// A decode failure is reported as a MalformedResponse domain error so the
// pipeline can degrade to low confidence instead of crashing.
func ParseJSON(content string, v any) error {
	cleaned := StripCodeFences(content)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeMalformedResponse, "model output is not valid JSON", err)
	}
	return nil
}
