package service

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"ideaforge/internal/domain"
	"ideaforge/internal/domain/models"
)

// requiredFields are the keys a model reply must carry, in reporting order.
// These are the key names the prompt instructs the model to use.
var requiredFields = []string{"titles", "description", "tags", "thumbnailIdeas", "scriptOutline"}

// Normalize converts one raw model reply into validated content fields.
// Models are unreliable narrators of their own output format: replies get
// fence-wrapped, prefixed with prose, or truncated despite the prompt's
// instructions, so the reply is fence-stripped and brace-bounded before the
// strict parse. modelID is used only for error attribution.
func Normalize(raw, modelID string) (*models.GeneratedContent, error) {
	text := stripFences(strings.TrimSpace(raw))

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, &domain.GenerationError{
			Kind:    domain.GenerationMalformed,
			ModelID: modelID,
			Detail:  "no JSON object found in reply",
		}
	}
	candidate := text[start : end+1]

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return nil, &domain.GenerationError{
			Kind:    domain.GenerationMalformed,
			ModelID: modelID,
			Detail:  excerpt(candidate, 80),
		}
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := payload[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.GenerationError{
			Kind:    domain.GenerationIncomplete,
			ModelID: modelID,
			Missing: missing,
		}
	}

	content := &models.GeneratedContent{}

	sequences := []struct {
		field string
		dest  *[]string
	}{
		{"titles", &content.Titles},
		{"tags", &content.Tags},
		{"thumbnailIdeas", &content.ThumbnailIdeas},
		{"scriptOutline", &content.ScriptOutline},
	}
	for _, seq := range sequences {
		if err := json.Unmarshal(payload[seq.field], seq.dest); err != nil || len(*seq.dest) == 0 {
			return nil, &domain.GenerationError{
				Kind:    domain.GenerationInvalidField,
				ModelID: modelID,
				Field:   seq.field,
			}
		}
	}

	if err := json.Unmarshal(payload["description"], &content.Description); err != nil ||
		strings.TrimSpace(content.Description) == "" {
		return nil, &domain.GenerationError{
			Kind:    domain.GenerationInvalidField,
			ModelID: modelID,
			Field:   "description",
		}
	}

	return content, nil
}

// stripFences removes one leading markdown code fence (optionally tagged
// "json") and one trailing fence. Anything else around the JSON object is
// handled by brace-bounding in Normalize.
func stripFences(text string) string {
	if strings.HasPrefix(text, "```") {
		text = strings.TrimSpace(text[3:])
		if strings.HasPrefix(strings.ToLower(text), "json") {
			text = strings.TrimSpace(text[4:])
		}
	}
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSpace(text[:len(text)-3])
	}
	return text
}

// excerpt truncates a candidate JSON region for error detail, cutting on a
// rune boundary so the result stays valid UTF-8. Never shown outside the
// dev environment.
func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
