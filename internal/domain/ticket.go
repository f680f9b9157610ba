package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// TitleMaxLength bounds the ticket title in characters.
const TitleMaxLength = 200

// TicketCategory groups tickets by the area of the request.
type TicketCategory string

const (
	TicketCategoryBilling   TicketCategory = "billing"
	TicketCategoryTechnical TicketCategory = "technical"
	TicketCategoryAccount   TicketCategory = "account"
	TicketCategoryGeneral   TicketCategory = "general"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// AllTicketCategories lists categories in display order.
func AllTicketCategories() []TicketCategory {
	return []TicketCategory{TicketCategoryBilling, TicketCategoryTechnical, TicketCategoryAccount, TicketCategoryGeneral}
}

// AllTicketPriorities lists priorities from least to most urgent.
func AllTicketPriorities() []TicketPriority {
	return []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical}
}

// AllTicketStatuses lists statuses in lifecycle order.
func AllTicketStatuses() []TicketStatus {
	return []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed}
}

func (c TicketCategory) Valid() bool {
	switch c {
	case TicketCategoryBilling, TicketCategoryTechnical, TicketCategoryAccount, TicketCategoryGeneral:
		return true
	}
	return false
}

func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Category    TicketCategory
	Priority    TicketPriority
	Status      TicketStatus
	CreatedAt   time.Time
}

// Validate reports every field that breaks the ticket invariants, keyed by
// its JSON name. An empty map means the ticket may be written.
func (t *Ticket) Validate() map[string]any {
	problems := map[string]any{}
	if strings.TrimSpace(t.Title) == "" {
		problems["title"] = "this field is required"
	} else if utf8.RuneCountInString(t.Title) > TitleMaxLength {
		problems["title"] = "must be at most 200 characters"
	}
	if strings.TrimSpace(t.Description) == "" {
		problems["description"] = "this field is required"
	}
	if !t.Category.Valid() {
		problems["category"] = invalidChoice(string(t.Category))
	}
	if !t.Priority.Valid() {
		problems["priority"] = invalidChoice(string(t.Priority))
	}
	if !t.Status.Valid() {
		problems["status"] = invalidChoice(string(t.Status))
	}
	return problems
}

func invalidChoice(value string) string {
	if value == "" {
		return "this field is required"
	}
	return "\"" + value + "\" is not a valid choice"
}
