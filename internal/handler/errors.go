package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"ideaforge/internal/domain"
	"ideaforge/internal/httputil"
	"ideaforge/internal/llm"
)

// ErrorMapper converts domain errors to HTTP responses. Upstream failure
// detail (provider errors, unusable model replies) is only exposed when
// running in dev.
type ErrorMapper struct {
	logger *slog.Logger
	dev    bool
}

func NewErrorMapper(logger *slog.Logger, dev bool) *ErrorMapper {
	return &ErrorMapper{logger: logger, dev: dev}
}

func (m *ErrorMapper) Respond(w http.ResponseWriter, r *http.Request, err error) {
	var (
		genErr *domain.GenerationError
		llmErr *llm.Error
	)

	switch {
	case errors.As(err, &genErr):
		m.logger.Warn("generation produced unusable response",
			"kind", genErr.Kind,
			"model", genErr.ModelID,
			"path", r.URL.Path,
		)
		detail := "the model returned a response that could not be processed"
		if m.dev {
			detail = genErr.Error()
		}
		httputil.RespondError(w, genErr.StatusCode(), detail)

	case errors.As(err, &llmErr):
		m.logger.Warn("provider call failed",
			"kind", llmErr.Kind,
			"provider", llmErr.Provider,
			"path", r.URL.Path,
		)
		detail := "the model provider could not complete the request"
		if llmErr.Kind == llm.KindRateLimited {
			detail = "the model provider is rate limiting requests, try again shortly"
		}
		if m.dev {
			detail = llmErr.Error()
		}
		httputil.RespondError(w, llmErr.StatusCode(), detail)

	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())

	default:
		m.logger.Error("unhandled error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
