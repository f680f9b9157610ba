package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

func TestValidateCreateTicketRequest(t *testing.T) {
	valid := CreateTicketRequest{
		Title:       "Cannot login",
		Description: "Password reset mail never arrives",
		Category:    domain.TicketCategoryAccount,
		Priority:    domain.TicketPriorityHigh,
	}
	assert.Nil(t, Validate(valid))

	bad := valid
	bad.Category = "refunds"
	bad.Title = strings.Repeat("x", 201)
	status := domain.TicketStatus("done")
	bad.Status = &status
	problems := Validate(bad)

	assert.Contains(t, problems, "category")
	assert.Contains(t, problems, "title")
	assert.Contains(t, problems, "status")
	assert.NotContains(t, problems, "priority")
}

func TestValidateCreateTicketRequestMissingFields(t *testing.T) {
	problems := Validate(CreateTicketRequest{})

	for _, field := range []string{"title", "description", "category", "priority"} {
		assert.Equal(t, "this field is required", problems[field], field)
	}
}

func TestValidateUpdateTicketRequest(t *testing.T) {
	assert.Nil(t, Validate(UpdateTicketRequest{}))

	status := domain.TicketStatusResolved
	assert.Nil(t, Validate(UpdateTicketRequest{Status: &status}))

	priority := domain.TicketPriority("urgent")
	problems := Validate(UpdateTicketRequest{Priority: &priority})
	assert.Contains(t, problems, "priority")
}
