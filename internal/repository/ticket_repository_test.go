package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestBuildListQueryNoFilter(t *testing.T) {
	query, args := buildListQuery(TicketFilter{Category: strPtr(""), Search: strPtr("")})

	assert.Equal(t, "SELECT "+ticketColumns+" FROM tickets WHERE 1=1 ORDER BY created_at DESC", query)
	assert.Empty(t, args)
}

func TestBuildListQueryCombinesFilters(t *testing.T) {
	query, args := buildListQuery(TicketFilter{
		Priority: strPtr("high"),
		Status:   strPtr("open"),
		Search:   strPtr("login"),
	})

	assert.Contains(t, query, "WHERE 1=1 AND priority=$1 AND status=$2 AND (title ILIKE $3 OR description ILIKE $3)")
	assert.Contains(t, query, "ORDER BY created_at DESC")
	assert.Equal(t, []any{"high", "open", "%login%"}, args)
}

func TestBuildListQueryEscapesSearch(t *testing.T) {
	_, args := buildListQuery(TicketFilter{Search: strPtr(`50%_off\`)})

	assert.Equal(t, []any{`%50\%\_off\\%`}, args)
}

func TestApplyCountsIgnoresUnknownValues(t *testing.T) {
	stats := domain.NewTicketStats()
	applyCounts(&stats, []fieldCount{
		{Field: "status", Value: "open", Count: 3},
		{Field: "status", Value: "archived", Count: 9},
		{Field: "priority", Value: "critical", Count: 1},
		{Field: "category", Value: "billing", Count: 2},
	})

	assert.Equal(t, 3, stats.ByStatus[domain.TicketStatusOpen])
	assert.Equal(t, 0, stats.ByStatus[domain.TicketStatusClosed])
	assert.NotContains(t, stats.ByStatus, domain.TicketStatus("archived"))
	assert.Equal(t, 1, stats.ByPriority[domain.TicketPriorityCritical])
	assert.Equal(t, 2, stats.ByCategory[domain.TicketCategoryBilling])
}
