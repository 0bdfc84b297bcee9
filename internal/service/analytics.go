package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"ideaforge/internal/domain/models"
	"ideaforge/internal/registry"
)

const (
	timelineDays = 30
	topTopicsN   = 10
	recentN      = 10
	tagCloudN    = 20
)

// Aggregator derives an AnalyticsSummary from an owner's full record set.
// Pure computation: no storage access, no external calls. The registry is
// only consulted for display names.
type Aggregator struct {
	registry *registry.Registry
}

// NewAggregator creates an analytics aggregator.
func NewAggregator(reg *registry.Registry) *Aggregator {
	return &Aggregator{registry: reg}
}

// Summarize computes all seven rollups over records, which must be ordered
// by creation time descending. An empty set yields zero values throughout:
// empty sequences and zero counts, not an error.
func (a *Aggregator) Summarize(records []models.ContentRecord, now time.Time) *models.AnalyticsSummary {
	if len(records) == 0 {
		return &models.AnalyticsSummary{
			ModelDistribution: []models.ModelUsage{},
			TopTopics:         []models.TopicCount{},
			DailyTimeline:     []models.DayCount{},
			RecentActivity:    []models.ActivityItem{},
			TagCloud:          []models.TagCount{},
		}
	}

	return &models.AnalyticsSummary{
		Totals:            totals(records),
		ModelDistribution: a.modelDistribution(records),
		TopTopics:         topTopics(records),
		DailyTimeline:     dailyTimeline(records, now),
		RecentActivity:    a.recentActivity(records),
		UsageStats:        usageStats(records, now),
		TagCloud:          tagCloud(records),
	}
}

func totals(records []models.ContentRecord) models.Totals {
	t := models.Totals{TotalContent: len(records)}
	for _, rec := range records {
		if rec.IsFavorite {
			t.TotalFavorites++
		}
	}
	return t
}

// modelDistribution groups by model id with an integer percentage per group.
// Percentages round independently, so the column may sum to 99 or 101; this
// matches the product behavior and is deliberately not corrected.
func (a *Aggregator) modelDistribution(records []models.ContentRecord) []models.ModelUsage {
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		if counts[rec.AIModel] == 0 {
			order = append(order, rec.AIModel)
		}
		counts[rec.AIModel]++
	}

	total := len(records)
	usage := make([]models.ModelUsage, 0, len(order))
	for _, id := range order {
		usage = append(usage, models.ModelUsage{
			ModelID:   id,
			ModelName: a.registry.DisplayName(id),
			Count:     counts[id],
			Percent:   int(math.Round(float64(counts[id]) / float64(total) * 100)),
		})
	}

	// Stable keeps encounter order among equal counts
	sort.SliceStable(usage, func(i, j int) bool { return usage[i].Count > usage[j].Count })
	return usage
}

func topTopics(records []models.ContentRecord) []models.TopicCount {
	idx := make(map[string]int)
	topics := []models.TopicCount{}
	for _, rec := range records {
		key := strings.ToLower(rec.Topic)
		if i, ok := idx[key]; ok {
			topics[i].Count++
			if rec.CreatedAt.After(topics[i].LastUsed) {
				topics[i].LastUsed = rec.CreatedAt
			}
			continue
		}
		idx[key] = len(topics)
		topics = append(topics, models.TopicCount{Topic: key, Count: 1, LastUsed: rec.CreatedAt})
	}

	sort.SliceStable(topics, func(i, j int) bool { return topics[i].Count > topics[j].Count })
	if len(topics) > topTopicsN {
		topics = topics[:topTopicsN]
	}
	return topics
}

// dailyTimeline buckets records per UTC calendar day over a fixed 30-day
// window ending today. Every bucket is present even at zero count.
func dailyTimeline(records []models.ContentRecord, now time.Time) []models.DayCount {
	today := now.UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(timelineDays - 1))

	timeline := make([]models.DayCount, timelineDays)
	index := make(map[string]int, timelineDays)
	for i := 0; i < timelineDays; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		timeline[i] = models.DayCount{Date: date}
		index[date] = i
	}

	for _, rec := range records {
		if i, ok := index[rec.CreatedAt.UTC().Format("2006-01-02")]; ok {
			timeline[i].Count++
		}
	}
	return timeline
}

func (a *Aggregator) recentActivity(records []models.ContentRecord) []models.ActivityItem {
	n := min(recentN, len(records))
	items := make([]models.ActivityItem, 0, n)
	for _, rec := range records[:n] {
		items = append(items, models.ActivityItem{
			ID:         rec.ID,
			Topic:      rec.Topic,
			CreatedAt:  rec.CreatedAt,
			ModelName:  a.registry.DisplayName(rec.AIModel),
			IsFavorite: rec.IsFavorite,
		})
	}
	return items
}

func usageStats(records []models.ContentRecord, now time.Time) models.UsageStats {
	stats := models.UsageStats{AllTime: len(records)}
	if len(records) == 0 {
		return stats
	}

	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)
	earliest := records[0].CreatedAt
	for _, rec := range records {
		if !rec.CreatedAt.Before(weekAgo) {
			stats.ThisWeek++
		}
		if !rec.CreatedAt.Before(monthAgo) {
			stats.ThisMonth++
		}
		if rec.CreatedAt.Before(earliest) {
			earliest = rec.CreatedAt
		}
	}

	weeks := int(math.Ceil(now.Sub(earliest).Hours() / (24 * 7)))
	if weeks < 1 {
		weeks = 1
	}
	avg := float64(stats.AllTime) / float64(weeks)
	stats.AveragePerWeek = math.Round(avg*10) / 10
	return stats
}

// tagCloud counts tags lowercased with one leading "#" stripped.
func tagCloud(records []models.ContentRecord) []models.TagCount {
	idx := make(map[string]int)
	cloud := []models.TagCount{}
	for _, rec := range records {
		for _, tag := range rec.Tags {
			norm := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tag)), "#")
			if norm == "" {
				continue
			}
			if i, ok := idx[norm]; ok {
				cloud[i].Count++
				continue
			}
			idx[norm] = len(cloud)
			cloud = append(cloud, models.TagCount{Tag: norm, Count: 1})
		}
	}

	sort.SliceStable(cloud, func(i, j int) bool { return cloud[i].Count > cloud[j].Count })
	if len(cloud) > tagCloudN {
		cloud = cloud[:tagCloudN]
	}
	return cloud
}
