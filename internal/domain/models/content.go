package models

import "time"

// ContentRecord is one generated-content result for one topic, owned by one
// user. The five generated fields are only ever written by the generation
// path after validation; is_favorite is the only caller-mutable field.
type ContentRecord struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"-"`
	Topic          string    `json:"topic"`
	Titles         []string  `json:"titles"`
	Description    string    `json:"description"`
	Tags           []string  `json:"tags"`
	ThumbnailIdeas []string  `json:"thumbnail_ideas"`
	ScriptOutline  []string  `json:"script_outline"`
	AIModel        string    `json:"ai_model"`
	IsFavorite     bool      `json:"is_favorite"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GeneratedContent holds the five content fields recovered from a model
// reply, after normalization but before persistence.
type GeneratedContent struct {
	Titles         []string `json:"titles"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	ThumbnailIdeas []string `json:"thumbnail_ideas"`
	ScriptOutline  []string `json:"script_outline"`
}
