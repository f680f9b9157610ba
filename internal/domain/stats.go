package domain

import (
	"math"
	"time"
)

// TicketStats holds per-field breakdowns over every stored ticket.
type TicketStats struct {
	ByStatus         map[TicketStatus]int
	ByPriority       map[TicketPriority]int
	ByCategory       map[TicketCategory]int
	TotalTickets     int
	OpenTickets      int
	AvgTicketsPerDay float64
}

// NewTicketStats returns stats with every enumerated key present at zero.
func NewTicketStats() TicketStats {
	stats := TicketStats{
		ByStatus:   make(map[TicketStatus]int, 4),
		ByPriority: make(map[TicketPriority]int, 4),
		ByCategory: make(map[TicketCategory]int, 4),
	}
	for _, s := range AllTicketStatuses() {
		stats.ByStatus[s] = 0
	}
	for _, p := range AllTicketPriorities() {
		stats.ByPriority[p] = 0
	}
	for _, c := range AllTicketCategories() {
		stats.ByCategory[c] = 0
	}
	return stats
}

// Finalize derives the summary figures once the breakdowns are filled in.
// oldest is the creation time of the oldest ticket and is ignored when
// there are no tickets.
func (s *TicketStats) Finalize(total int, oldest, now time.Time) {
	s.TotalTickets = total
	s.OpenTickets = s.ByStatus[TicketStatusOpen]
	if total == 0 {
		s.AvgTicketsPerDay = 0
		return
	}
	days := math.Floor(now.Sub(oldest).Hours() / 24)
	if days < 1 {
		days = 1
	}
	s.AvgTicketsPerDay = math.Round(float64(total)/days*10) / 10
}
