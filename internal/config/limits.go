package config

const (
	// MaxTopicLength is the maximum length for a generation topic.
	// Limited to 300 characters: the topic is embedded verbatim in the
	// model prompt, and longer inputs are prompts, not topics.
	MaxTopicLength = 300

	// MaxSearchKeywordLength is the maximum length for a search keyword.
	MaxSearchKeywordLength = 100

	// DefaultHistoryLimit is the page size for history listings when the
	// caller does not pass one.
	DefaultHistoryLimit = 50

	// MaxHistoryLimit caps the history page size.
	MaxHistoryLimit = 100
)
