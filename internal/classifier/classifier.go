// Package classifier suggests a category and priority for free-form ticket
// text using a hosted language model.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

// ErrEmptyText is returned for blank input; no model call is made.
var ErrEmptyText = errors.New("description is required")

// Completer sends a prompt to a language model and returns its raw text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Suggestion is the model's proposed classification. Values are passed
// through as returned by the model.
type Suggestion struct {
	Category string `json:"suggested_category"`
	Priority string `json:"suggested_priority"`
}

// Fallback is returned to callers whenever classification fails.
func Fallback() Suggestion {
	return Suggestion{
		Category: string(domain.TicketCategoryGeneral),
		Priority: string(domain.TicketPriorityLow),
	}
}

// ExternalServiceError marks a failure of the model call or of its reply.
type ExternalServiceError struct {
	Stage string
	Err   error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("classifier %s: %v", e.Stage, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// Classifier turns ticket text into a Suggestion.
type Classifier struct {
	completer Completer
}

// New returns a Classifier backed by completer.
func New(completer Completer) *Classifier {
	return &Classifier{completer: completer}
}

// Classify calls the model once. Errors other than ErrEmptyText are
// *ExternalServiceError values; callers decide how to degrade.
func (c *Classifier) Classify(ctx context.Context, text string) (Suggestion, error) {
	if strings.TrimSpace(text) == "" {
		return Suggestion{}, ErrEmptyText
	}

	raw, err := c.completer.Complete(ctx, BuildPrompt(text))
	if err != nil {
		return Suggestion{}, &ExternalServiceError{Stage: "call", Err: err}
	}

	suggestion, err := ParseSuggestion(raw)
	if err != nil {
		return Suggestion{}, &ExternalServiceError{Stage: "parse", Err: err}
	}
	return suggestion, nil
}
