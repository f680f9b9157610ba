package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

// Matches reports whether ticket satisfies every present field of the filter.
func (f TicketFilter) Matches(ticket *domain.Ticket) bool {
	if present(f.Category) && string(ticket.Category) != *f.Category {
		return false
	}
	if present(f.Priority) && string(ticket.Priority) != *f.Priority {
		return false
	}
	if present(f.Status) && string(ticket.Status) != *f.Status {
		return false
	}
	if present(f.Search) {
		term := strings.ToLower(*f.Search)
		if !strings.Contains(strings.ToLower(ticket.Title), term) &&
			!strings.Contains(strings.ToLower(ticket.Description), term) {
			return false
		}
	}
	return true
}

type memoryRecord struct {
	ticket domain.Ticket
	seq    uint64
}

type memoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]memoryRecord
	seq     uint64
	now     func() time.Time
}

// NewMemoryTicketRepository returns a process-local store used when no
// database is configured.
func NewMemoryTicketRepository() TicketRepository {
	return newMemoryTicketRepository(time.Now)
}

func newMemoryTicketRepository(now func() time.Time) *memoryTicketRepository {
	return &memoryTicketRepository{tickets: make(map[string]memoryRecord), now: now}
}

func (r *memoryTicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = r.now().UTC()
	r.seq++
	r.tickets[ticket.ID] = memoryRecord{ticket: *ticket, seq: r.seq}
	return nil
}

func (r *memoryTicketRepository) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.tickets[ticket.ID]
	if !ok {
		return ErrNotFound
	}
	ticket.CreatedAt = rec.ticket.CreatedAt
	rec.ticket = *ticket
	r.tickets[ticket.ID] = rec
	return nil
}

func (r *memoryTicketRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return ErrNotFound
	}
	delete(r.tickets, id)
	return nil
}

func (r *memoryTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	ticket := rec.ticket
	return &ticket, nil
}

func (r *memoryTicketRepository) List(_ context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	r.mu.RLock()
	records := make([]memoryRecord, 0, len(r.tickets))
	for _, rec := range r.tickets {
		if filter.Matches(&rec.ticket) {
			records = append(records, rec)
		}
	}
	r.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.ticket.CreatedAt.Equal(b.ticket.CreatedAt) {
			return a.ticket.CreatedAt.After(b.ticket.CreatedAt)
		}
		return a.seq > b.seq
	})

	result := make([]domain.Ticket, 0, len(records))
	for _, rec := range records {
		result = append(result, rec.ticket)
	}
	return result, nil
}

func (r *memoryTicketRepository) Stats(_ context.Context) (domain.TicketStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := domain.NewTicketStats()
	var oldest time.Time
	for _, rec := range r.tickets {
		t := rec.ticket
		stats.ByStatus[t.Status]++
		stats.ByPriority[t.Priority]++
		stats.ByCategory[t.Category]++
		if oldest.IsZero() || t.CreatedAt.Before(oldest) {
			oldest = t.CreatedAt
		}
	}
	stats.Finalize(len(r.tickets), oldest, r.now())
	return stats, nil
}
