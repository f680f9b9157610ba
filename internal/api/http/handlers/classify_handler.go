package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/api/dto"
	"github.com/spec-kit/ticket-desk/internal/classifier"
	"github.com/spec-kit/ticket-desk/internal/observability"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util/errorutil"
)

// ClassifyHandler serves AI classification suggestions.
type ClassifyHandler struct {
	classifier *classifier.Classifier
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewClassifyHandler constructs handler.
func NewClassifyHandler(c *classifier.Classifier, logger *zap.Logger, metrics *observability.Metrics) *ClassifyHandler {
	return &ClassifyHandler{classifier: c, logger: logger, metrics: metrics}
}

// Classify POST /tickets/classify. Model failures never reach the caller:
// they are logged and answered with the fallback suggestion.
func (h *ClassifyHandler) Classify(c *fiber.Ctx) error {
	var req dto.ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		h.metrics.RecordClassification(observability.ClassificationRejected)
		return apperrors.NewValidationError("invalid payload", nil)
	}

	suggestion, err := h.classifier.Classify(c.UserContext(), req.Description)
	switch {
	case errors.Is(err, classifier.ErrEmptyText):
		h.metrics.RecordClassification(observability.ClassificationRejected)
		return apperrors.NewValidationError("Description is required", map[string]any{"description": "this field is required"})
	case err != nil:
		h.logger.Warn("ticket classification failed; returning fallback", zap.Error(err))
		h.metrics.RecordClassification(observability.ClassificationFallback)
		suggestion = classifier.Fallback()
	default:
		h.metrics.RecordClassification(observability.ClassificationSuggested)
	}

	return c.JSON(dto.ClassifyResponse{
		SuggestedCategory: suggestion.Category,
		SuggestedPriority: suggestion.Priority,
	})
}
