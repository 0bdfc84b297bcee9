package models

import "time"

// AnalyticsSummary is derived on demand from the owner's full content set.
// It is never persisted; every sub-result is a pure function of the record
// set and the request time.
type AnalyticsSummary struct {
	Totals            Totals         `json:"totals"`
	ModelDistribution []ModelUsage   `json:"model_distribution"`
	TopTopics         []TopicCount   `json:"top_topics"`
	DailyTimeline     []DayCount     `json:"daily_timeline"`
	RecentActivity    []ActivityItem `json:"recent_activity"`
	UsageStats        UsageStats     `json:"usage_stats"`
	TagCloud          []TagCount     `json:"tag_cloud"`
}

// Totals counts the owner's records and favorites.
type Totals struct {
	TotalContent   int `json:"total_content"`
	TotalFavorites int `json:"total_favorites"`
}

// ModelUsage is one group in the by-model distribution. Percent is rounded
// independently per group, so the column may sum to 99 or 101.
type ModelUsage struct {
	ModelID   string `json:"model_id"`
	ModelName string `json:"model_name"`
	Count     int    `json:"count"`
	Percent   int    `json:"percent"`
}

// TopicCount is one group in the top-topics rollup, keyed by lowercased topic.
type TopicCount struct {
	Topic    string    `json:"topic"`
	Count    int       `json:"count"`
	LastUsed time.Time `json:"last_used"`
}

// DayCount is one calendar-day bucket (UTC, YYYY-MM-DD) in the 30-day timeline.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ActivityItem is a projection of a recent record for the dashboard.
type ActivityItem struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	CreatedAt  time.Time `json:"created_at"`
	ModelName  string    `json:"model_name"`
	IsFavorite bool      `json:"is_favorite"`
}

// UsageStats counts generation activity over fixed windows.
type UsageStats struct {
	ThisWeek       int     `json:"this_week"`
	ThisMonth      int     `json:"this_month"`
	AllTime        int     `json:"all_time"`
	AveragePerWeek float64 `json:"average_per_week"`
}

// TagCount is one entry in the tag cloud, keyed by the normalized tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
