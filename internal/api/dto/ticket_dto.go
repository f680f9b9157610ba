package dto

import (
	"time"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title" validate:"required,max=200"`
	Description string                `json:"description" validate:"required"`
	Category    domain.TicketCategory `json:"category" validate:"required,ticket_category"`
	Priority    domain.TicketPriority `json:"priority" validate:"required,ticket_priority"`
	Status      *domain.TicketStatus  `json:"status" validate:"omitempty,ticket_status"`
}

// UpdateTicketRequest is used by both PUT and PATCH; absent fields are nil.
type UpdateTicketRequest struct {
	Title       *string                `json:"title" validate:"omitempty,max=200"`
	Description *string                `json:"description"`
	Category    *domain.TicketCategory `json:"category" validate:"omitempty,ticket_category"`
	Priority    *domain.TicketPriority `json:"priority" validate:"omitempty,ticket_priority"`
	Status      *domain.TicketStatus   `json:"status" validate:"omitempty,ticket_status"`
}

// TicketListQuery captures the optional listing filters.
type TicketListQuery struct {
	Category string `query:"category"`
	Priority string `query:"priority"`
	Status   string `query:"status"`
	Search   string `query:"search"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
}

// TicketStatsResponse holds the aggregate breakdowns.
type TicketStatsResponse struct {
	ByStatus         map[domain.TicketStatus]int   `json:"by_status"`
	ByPriority       map[domain.TicketPriority]int `json:"by_priority"`
	ByCategory       map[domain.TicketCategory]int `json:"by_category"`
	TotalTickets     int                           `json:"total_tickets"`
	OpenTickets      int                           `json:"open_tickets"`
	AvgTicketsPerDay float64                       `json:"avg_tickets_per_day"`
}

// ClassifyRequest payload.
type ClassifyRequest struct {
	Description string `json:"description"`
}

// ClassifyResponse carries the suggested classification.
type ClassifyResponse struct {
	SuggestedCategory string `json:"suggested_category"`
	SuggestedPriority string `json:"suggested_priority"`
}

// NewTicketResponse converts a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Category:    ticket.Category,
		Priority:    ticket.Priority,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
	}
}

// NewTicketStatsResponse converts aggregate stats.
func NewTicketStatsResponse(stats domain.TicketStats) TicketStatsResponse {
	return TicketStatsResponse{
		ByStatus:         stats.ByStatus,
		ByPriority:       stats.ByPriority,
		ByCategory:       stats.ByCategory,
		TotalTickets:     stats.TotalTickets,
		OpenTickets:      stats.OpenTickets,
		AvgTicketsPerDay: stats.AvgTicketsPerDay,
	}
}
