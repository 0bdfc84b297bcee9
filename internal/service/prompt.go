package service

import "fmt"

const systemPrompt = `You are a content planning assistant for video creators. ` +
	`You respond with a single JSON object and nothing else: no markdown fences, ` +
	`no commentary before or after the object.`

// buildPrompt embeds the caller's topic verbatim in a fixed-shape prompt
// that pins the reply to the five-field JSON contract the normalizer expects.
func buildPrompt(topic string) string {
	return fmt.Sprintf(`Create a content plan for a video about: %s

Return only a JSON object with exactly these keys:
- "titles": an array of 5 catchy video title suggestions
- "description": a single engaging video description string
- "tags": an array of 10 relevant tags
- "thumbnailIdeas": an array of 3 thumbnail concept descriptions
- "scriptOutline": an array of script section summaries, intro to outro

Every array must be non-empty and contain only strings.`, topic)
}
