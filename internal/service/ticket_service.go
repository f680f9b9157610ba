package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/events"
	"github.com/spec-kit/ticket-desk/internal/repository"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload. Status defaults to open.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
	Status      *domain.TicketStatus
}

// TicketUpdateInput carries the fields to change; nil fields keep their value.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Category    *domain.TicketCategory
	Priority    *domain.TicketPriority
	Status      *domain.TicketStatus
}

// TicketListFilter describes listing filters. Values are matched verbatim.
type TicketListFilter struct {
	Category string
	Priority string
	Status   string
	Search   string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// CreateTicket validates and stores a new ticket.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
	}
	if input.Status != nil {
		ticket.Status = *input.Status
	}
	if err := validateTicket(ticket); err != nil {
		return nil, err
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Category: ticket.Category,
			Priority: ticket.Priority,
			Status:   ticket.Status,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	if !validID(id) {
		return nil, ticketNotFound(id)
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, id)
	}
	return ticket, nil
}

// ListTickets returns tickets matching filter, newest first.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, repository.TicketFilter{
		Category: optional(filter.Category),
		Priority: optional(filter.Priority),
		Status:   optional(filter.Status),
		Search:   optional(filter.Search),
	})
}

// ReplaceTicket applies a full update. Title, description, category and
// priority must all be supplied; an absent status keeps the current one.
func (s *TicketService) ReplaceTicket(ctx context.Context, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	missing := map[string]any{}
	if input.Title == nil {
		missing["title"] = "this field is required"
	}
	if input.Description == nil {
		missing["description"] = "this field is required"
	}
	if input.Category == nil {
		missing["category"] = "this field is required"
	}
	if input.Priority == nil {
		missing["priority"] = "this field is required"
	}
	if len(missing) > 0 {
		// Unknown ids still report 404 ahead of payload problems.
		if _, err := s.GetTicket(ctx, id); err != nil {
			return nil, err
		}
		return nil, apperrors.NewValidationError("invalid ticket", missing)
	}
	return s.UpdateTicket(ctx, id, input)
}

// UpdateTicket applies a partial update.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	current, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if input.Title != nil {
		updated.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updated.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		updated.Category = *input.Category
	}
	if input.Priority != nil {
		updated.Priority = *input.Priority
	}
	if input.Status != nil {
		updated.Status = *input.Status
	}
	if err := validateTicket(&updated); err != nil {
		return nil, err
	}

	if err := s.tickets.Update(ctx, &updated); err != nil {
		return nil, mapNotFound(err, id)
	}
	if changes := diffTickets(current, &updated); len(changes) > 0 {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketUpdated,
			TicketID: updated.ID,
			Payload:  events.TicketUpdatedPayload{Changes: changes},
		})
	}
	return &updated, nil
}

// DeleteTicket removes a ticket permanently.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	if !validID(id) {
		return ticketNotFound(id)
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return mapNotFound(err, id)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
	})
	return nil
}

// Stats aggregates counts over all tickets.
func (s *TicketService) Stats(ctx context.Context) (domain.TicketStats, error) {
	return s.tickets.Stats(ctx)
}

func validateTicket(ticket *domain.Ticket) error {
	if problems := ticket.Validate(); len(problems) > 0 {
		return apperrors.NewValidationError("invalid ticket", problems)
	}
	return nil
}

func diffTickets(before, after *domain.Ticket) map[string]events.FieldChange {
	changes := map[string]events.FieldChange{}
	add := func(field, from, to string) {
		if from != to {
			changes[field] = events.FieldChange{Old: from, New: to}
		}
	}
	add("title", before.Title, after.Title)
	add("description", before.Description, after.Description)
	add("category", string(before.Category), string(after.Category))
	add("priority", string(before.Priority), string(after.Priority))
	add("status", string(before.Status), string(after.Status))
	return changes
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// validID accepts only the canonical 36 character uuid form stored in the
// id column.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func ticketNotFound(id string) error {
	return apperrors.NewNotFound("ticket", map[string]any{"id": id})
}

func mapNotFound(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ticketNotFound(id)
	}
	return err
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
