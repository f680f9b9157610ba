package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

// ErrNotFound is returned when no ticket has the requested id.
var ErrNotFound = errors.New("ticket not found")

// TicketFilter captures optional listing constraints. Nil or blank fields
// match every ticket.
type TicketFilter struct {
	Category *string
	Priority *string
	Status   *string
	Search   *string
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Stats(ctx context.Context) (domain.TicketStats, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewTicketRepository instantiates the Postgres backed repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool, now: time.Now}
}

const ticketColumns = `id, title, description, category, priority, status, created_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, category, priority, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, category=$3, priority=$4, status=$5
        WHERE id=$6
        RETURNING created_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.ID,
	).Scan(&ticket.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	query, args := buildListQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// buildListQuery folds the present filter fields into a WHERE clause with
// positional arguments.
func buildListQuery(filter TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	exact := []struct {
		column string
		value  *string
	}{
		{"category", filter.Category},
		{"priority", filter.Priority},
		{"status", filter.Status},
	}
	for _, f := range exact {
		if !present(f.value) {
			continue
		}
		args = append(args, *f.value)
		clauses = append(clauses, fmt.Sprintf("%s=$%d", f.column, len(args)))
	}
	if present(filter.Search) {
		args = append(args, "%"+escapeLike(*filter.Search)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", placeholder, placeholder))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC`,
		ticketColumns, strings.Join(clauses, " AND "))
	return query, args
}

func present(v *string) bool {
	return v != nil && *v != ""
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

func (r *ticketRepository) Stats(ctx context.Context) (domain.TicketStats, error) {
	const query = `
        SELECT 'status' AS field, status AS value, COUNT(*) FROM tickets GROUP BY status
        UNION ALL
        SELECT 'priority', priority, COUNT(*) FROM tickets GROUP BY priority
        UNION ALL
        SELECT 'category', category, COUNT(*) FROM tickets GROUP BY category`

	stats := domain.NewTicketStats()
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return stats, err
	}
	var counts []fieldCount
	for rows.Next() {
		var fc fieldCount
		if err := rows.Scan(&fc.Field, &fc.Value, &fc.Count); err != nil {
			rows.Close()
			return stats, err
		}
		counts = append(counts, fc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return stats, err
	}
	applyCounts(&stats, counts)

	var (
		total  int
		oldest *time.Time
	)
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*), MIN(created_at) FROM tickets`).Scan(&total, &oldest); err != nil {
		return stats, err
	}
	var first time.Time
	if oldest != nil {
		first = *oldest
	}
	stats.Finalize(total, first, r.now())
	return stats, nil
}

type fieldCount struct {
	Field string
	Value string
	Count int
}

// applyCounts copies grouped counts into stats. Values outside the
// enumerations are ignored so the response keys stay fixed.
func applyCounts(stats *domain.TicketStats, counts []fieldCount) {
	for _, fc := range counts {
		switch fc.Field {
		case "status":
			if s := domain.TicketStatus(fc.Value); s.Valid() {
				stats.ByStatus[s] = fc.Count
			}
		case "priority":
			if p := domain.TicketPriority(fc.Value); p.Valid() {
				stats.ByPriority[p] = fc.Count
			}
		case "category":
			if c := domain.TicketCategory(fc.Value); c.Valid() {
				stats.ByCategory[c] = fc.Count
			}
		}
	}
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Category,
			&ticket.Priority,
			&ticket.Status,
			&ticket.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
