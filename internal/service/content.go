package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ideaforge/internal/config"
	"ideaforge/internal/domain"
	"ideaforge/internal/domain/models"
	"ideaforge/internal/domain/repositories"
	"ideaforge/internal/llm"
	"ideaforge/internal/registry"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// Creative-writing assistance favors variation over determinism
	generationTemperature = 0.8
	generationMaxTokens   = 1024
)

// GenerateRequest is the caller input for one generation.
type GenerateRequest struct {
	Topic string `json:"topic"`
	Model string `json:"model"`
}

// Validate checks caller input. Model membership is checked against the
// catalog separately so the error can name the offending id.
func (r *GenerateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Topic,
			validation.Required.Error("topic is required"),
			validation.Length(1, config.MaxTopicLength),
		),
	)
}

// ContentService coordinates generation and owns all content operations.
// The generation path is strictly linear: validate, resolve model, call the
// external model, normalize, persist. Any stage's failure short-circuits;
// there are no retries, since a second call to a non-deterministic generator
// is not guaranteed to fix a malformed reply and would hide billable calls.
type ContentService struct {
	repo     repositories.ContentRepository
	complete llm.Completer
	registry *registry.Registry
	agg      *Aggregator
	timeout  time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewContentService creates the content service.
func NewContentService(
	repo repositories.ContentRepository,
	completer llm.Completer,
	reg *registry.Registry,
	timeout time.Duration,
	logger *slog.Logger,
) *ContentService {
	return &ContentService{
		repo:     repo,
		complete: completer,
		registry: reg,
		agg:      NewAggregator(reg),
		timeout:  timeout,
		now:      time.Now,
		logger:   logger,
	}
}

// Generate runs one generate-and-persist operation for the owner.
func (s *ContentService) Generate(ctx context.Context, ownerID string, req *GenerateRequest) (*models.ContentRecord, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	req.Model = strings.TrimSpace(req.Model)

	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	// Resolve the model before any external call: an unknown id fails fast
	// with no wasted provider request.
	desc := s.registry.Default()
	if req.Model != "" {
		d, ok := s.registry.Lookup(req.Model)
		if !ok {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown model: %s", req.Model)}
		}
		desc = d
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.complete.Complete(callCtx, llm.Request{
		Provider:    desc.Provider,
		ModelID:     desc.ID,
		System:      systemPrompt,
		Prompt:      buildPrompt(req.Topic),
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	if err != nil {
		s.logger.Warn("model call failed", "model", desc.ID, "error", err)
		return nil, err
	}

	content, err := Normalize(raw, desc.ID)
	if err != nil {
		s.logger.Warn("model reply failed normalization", "model", desc.ID, "error", err)
		return nil, err
	}

	rec := &models.ContentRecord{
		OwnerID:        ownerID,
		Topic:          req.Topic,
		Titles:         content.Titles,
		Description:    content.Description,
		Tags:           content.Tags,
		ThumbnailIdeas: content.ThumbnailIdeas,
		ScriptOutline:  content.ScriptOutline,
		AIModel:        desc.ID,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist generated content: %w", err)
	}

	s.logger.Info("content generated", "owner", ownerID, "model", desc.ID, "record", rec.ID)
	return rec, nil
}

// History returns the owner's records, newest first.
func (s *ContentService) History(ctx context.Context, ownerID string, limit, offset int) ([]models.ContentRecord, error) {
	if limit <= 0 {
		limit = config.DefaultHistoryLimit
	}
	if limit > config.MaxHistoryLimit {
		limit = config.MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByOwner(ctx, ownerID, limit, offset)
}

// Get returns one record if it belongs to the owner.
func (s *ContentService) Get(ctx context.Context, id, ownerID string) (*models.ContentRecord, error) {
	return s.repo.GetByID(ctx, id, ownerID)
}

// Delete removes one record if it belongs to the owner.
func (s *ContentService) Delete(ctx context.Context, id, ownerID string) error {
	return s.repo.Delete(ctx, id, ownerID)
}

// ToggleFavorite inverts the record's favorite flag.
func (s *ContentService) ToggleFavorite(ctx context.Context, id, ownerID string) (*models.ContentRecord, error) {
	return s.repo.ToggleFavorite(ctx, id, ownerID)
}

// Search returns the owner's records matching the keyword.
func (s *ContentService) Search(ctx context.Context, ownerID, keyword string) ([]models.ContentRecord, error) {
	keyword = strings.TrimSpace(keyword)
	if err := validation.Validate(keyword,
		validation.Required.Error("search keyword is required"),
		validation.Length(1, config.MaxSearchKeywordLength),
	); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	return s.repo.Search(ctx, ownerID, keyword)
}

// Favorites returns the owner's favorited records.
func (s *ContentService) Favorites(ctx context.Context, ownerID string) ([]models.ContentRecord, error) {
	return s.repo.ListFavorites(ctx, ownerID)
}

// Analytics computes the owner's dashboard summary from their full record
// set. Reads take no locks; a concurrent write may make the snapshot
// slightly stale, which is acceptable for advisory dashboard data.
func (s *ContentService) Analytics(ctx context.Context, ownerID string) (*models.AnalyticsSummary, error) {
	records, err := s.repo.AllByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.agg.Summarize(records, s.now()), nil
}
