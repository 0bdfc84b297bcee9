package service

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"ideaforge/internal/domain"
	"ideaforge/internal/domain/models"
)

const wellFormedReply = `{
	"titles": ["Why Cats Rule the Internet", "10 Cat Facts You Won't Believe"],
	"description": "A deep dive into feline internet culture.",
	"tags": ["#cats", "pets", "funny"],
	"thumbnailIdeas": ["Cat wearing sunglasses", "Split-screen cat reactions"],
	"scriptOutline": ["Hook: surprising stat", "Segment 1: history", "Outro: call to action"]
}`

var wellFormedContent = models.GeneratedContent{
	Titles:         []string{"Why Cats Rule the Internet", "10 Cat Facts You Won't Believe"},
	Description:    "A deep dive into feline internet culture.",
	Tags:           []string{"#cats", "pets", "funny"},
	ThumbnailIdeas: []string{"Cat wearing sunglasses", "Split-screen cat reactions"},
	ScriptOutline:  []string{"Hook: surprising stat", "Segment 1: history", "Outro: call to action"},
}

func TestNormalizeRecoversFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "bare JSON object",
			raw:  wellFormedReply,
		},
		{
			name: "fence-wrapped with json tag",
			raw:  "```json\n" + wellFormedReply + "\n```",
		},
		{
			name: "fence-wrapped without tag",
			raw:  "```\n" + wellFormedReply + "\n```",
		},
		{
			name: "uppercase fence tag",
			raw:  "```JSON\n" + wellFormedReply + "\n```",
		},
		{
			name: "surrounding prose",
			raw:  "Sure! Here is the content you asked for:\n\n" + wellFormedReply + "\n\nLet me know if you need changes.",
		},
		{
			name: "prose and fences together",
			raw:  "Here you go:\n```json\n" + wellFormedReply + "\n```\nHope that helps!",
		},
		{
			name: "leading whitespace",
			raw:  "\n\n  " + wellFormedReply,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw, "gpt-4o-mini")
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if !reflect.DeepEqual(*got, wellFormedContent) {
				t.Errorf("Normalize() = %+v, want %+v", *got, wellFormedContent)
			}
		})
	}
}

func TestNormalizeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty reply", raw: ""},
		{name: "prose only", raw: "I could not generate content for that topic."},
		{name: "unbalanced braces", raw: "}{"},
		{name: "truncated JSON", raw: `{"titles": ["one", "two"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw, "gpt-4o-mini")
			var genErr *domain.GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("Normalize() error = %v, want GenerationError", err)
			}
			if genErr.Kind != domain.GenerationMalformed {
				t.Errorf("Kind = %v, want %v", genErr.Kind, domain.GenerationMalformed)
			}
			if genErr.ModelID != "gpt-4o-mini" {
				t.Errorf("ModelID = %q, want attribution to the producing model", genErr.ModelID)
			}
		})
	}
}

func TestNormalizeMissingFields(t *testing.T) {
	raw := `{
		"titles": ["a"],
		"description": "b",
		"thumbnailIdeas": ["c"],
		"scriptOutline": ["d"]
	}`

	_, err := Normalize(raw, "gpt-4o")
	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("Normalize() error = %v, want GenerationError", err)
	}
	if genErr.Kind != domain.GenerationIncomplete {
		t.Errorf("Kind = %v, want %v", genErr.Kind, domain.GenerationIncomplete)
	}
	if !reflect.DeepEqual(genErr.Missing, []string{"tags"}) {
		t.Errorf("Missing = %v, want exactly [tags]", genErr.Missing)
	}
}

func TestNormalizeInvalidFieldTypes(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantField string
	}{
		{
			name: "empty titles array",
			raw: `{"titles": [], "description": "b", "tags": ["c"],
				"thumbnailIdeas": ["d"], "scriptOutline": ["e"]}`,
			wantField: "titles",
		},
		{
			name: "tags is a string",
			raw: `{"titles": ["a"], "description": "b", "tags": "not-a-list",
				"thumbnailIdeas": ["d"], "scriptOutline": ["e"]}`,
			wantField: "tags",
		},
		{
			name: "blank description",
			raw: `{"titles": ["a"], "description": "   ", "tags": ["c"],
				"thumbnailIdeas": ["d"], "scriptOutline": ["e"]}`,
			wantField: "description",
		},
		{
			name: "null scriptOutline",
			raw: `{"titles": ["a"], "description": "b", "tags": ["c"],
				"thumbnailIdeas": ["d"], "scriptOutline": null}`,
			wantField: "scriptOutline",
		},
		{
			name: "numeric thumbnail entries",
			raw: `{"titles": ["a"], "description": "b", "tags": ["c"],
				"thumbnailIdeas": [1, 2], "scriptOutline": ["e"]}`,
			wantField: "thumbnailIdeas",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw, "gpt-4o-mini")
			var genErr *domain.GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("Normalize() error = %v, want GenerationError", err)
			}
			if genErr.Kind != domain.GenerationInvalidField {
				t.Errorf("Kind = %v, want %v", genErr.Kind, domain.GenerationInvalidField)
			}
			if genErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", genErr.Field, tt.wantField)
			}
		})
	}
}

func TestMalformedDetailStaysValidUTF8(t *testing.T) {
	// A long unparseable candidate full of multi-byte runes; the detail
	// excerpt must not cut a rune in half.
	raw := "{" + strings.Repeat("日本語のテキスト", 10)
	_, err := Normalize(raw+"}", "gpt-4o-mini")

	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("error = %v, want *GenerationError", err)
	}
	if genErr.Kind != domain.GenerationMalformed {
		t.Fatalf("Kind = %v, want malformed", genErr.Kind)
	}
	if !utf8.ValidString(genErr.Detail) {
		t.Errorf("Detail is not valid UTF-8: %q", genErr.Detail)
	}
}
