package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/parking_lot/internal/core/domain"
)

const openTicketCacheTTL = 5 * time.Minute

// TicketRepository stores tickets in postgres and keeps a short-lived redis
// cache of the open ticket per plate, since the gate hits that lookup on
// every arrival. Any write for a plate drops its cache entry.
type TicketRepository struct {
	db    *sql.DB
	cache *redis.Client
}

func NewTicketRepository(db *sql.DB, cache *redis.Client) *TicketRepository {
	return &TicketRepository{
		db:    db,
		cache: cache,
	}
}

// ticketRecord is the storage shape of a ticket, owned by this adapter. It
// doubles as the cache payload.
type ticketRecord struct {
	ID           uuid.UUID  `json:"id"`
	Plate        string     `json:"plate"`
	VehicleClass string     `json:"vehicle_class"`
	EnteredAt    time.Time  `json:"entered_at"`
	PaidAt       *time.Time `json:"paid_at"`
	ExitedAt     *time.Time `json:"exited_at"`
	Status       string     `json:"status"`
}

func toRecord(t *domain.Ticket) ticketRecord {
	return ticketRecord{
		ID:           t.ID,
		Plate:        t.Vehicle.Plate,
		VehicleClass: string(t.Vehicle.Class),
		EnteredAt:    t.EnteredAt,
		PaidAt:       t.PaidAt,
		ExitedAt:     t.ExitedAt,
		Status:       string(t.Status),
	}
}

func (r ticketRecord) toDomain() *domain.Ticket {
	return &domain.Ticket{
		ID: r.ID,
		Vehicle: domain.Vehicle{
			Plate: r.Plate,
			Class: domain.VehicleClass(r.VehicleClass),
		},
		EnteredAt: r.EnteredAt,
		PaidAt:    r.PaidAt,
		ExitedAt:  r.ExitedAt,
		Status:    domain.TicketStatus(r.Status),
	}
}

func openTicketKey(plate string) string {
	return fmt.Sprintf("open_ticket:%s", plate)
}

func (r *TicketRepository) Save(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	rec := toRecord(ticket)

	query := `
	INSERT INTO tickets (id, plate, vehicle_class, entered_at, paid_at, exited_at, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE
	SET paid_at = EXCLUDED.paid_at,
		exited_at = EXCLUDED.exited_at,
		status = EXCLUDED.status
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Plate, rec.VehicleClass, rec.EnteredAt, rec.PaidAt, rec.ExitedAt, rec.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to save ticket %s: %w", rec.ID, err)
	}

	r.invalidateOpenTicket(ctx, rec.Plate)

	return ticket, nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	query := `
	SELECT id, plate, vehicle_class, entered_at, paid_at, exited_at, status
	FROM tickets
	WHERE id = $1
	`

	rec, err := r.scanTicket(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrTicketNotFound
		}

		return nil, err
	}

	return rec.toDomain(), nil
}

func (r *TicketRepository) FindOpenByPlate(ctx context.Context, plate string) (*domain.Ticket, error) {
	cacheKey := openTicketKey(plate)

	if r.cache != nil {
		if payload, err := r.cache.Get(ctx, cacheKey).Result(); err == nil {
			var rec ticketRecord
			if err := json.Unmarshal([]byte(payload), &rec); err == nil {
				return rec.toDomain(), nil
			}
		}
	}

	query := `
	SELECT id, plate, vehicle_class, entered_at, paid_at, exited_at, status
	FROM tickets
	WHERE plate = $1 AND status <> 'FINALIZED'
	ORDER BY entered_at DESC
	LIMIT 1
	`

	rec, err := r.scanTicket(r.db.QueryRowContext(ctx, query, plate))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrTicketNotFound
		}

		return nil, err
	}

	if r.cache != nil {
		if payload, err := json.Marshal(rec); err == nil {
			if err := r.cache.Set(ctx, cacheKey, payload, openTicketCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache open ticket for plate %s: %v", plate, err)
			}
		}
	}

	return rec.toDomain(), nil
}

func (r *TicketRepository) Delete(ctx context.Context, ticket *domain.Ticket) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = $1`, ticket.ID)
	if err != nil {
		return fmt.Errorf("failed to delete ticket %s: %w", ticket.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrTicketNotFound
	}

	r.invalidateOpenTicket(ctx, ticket.Vehicle.Plate)

	return nil
}

func (r *TicketRepository) CountOpen(ctx context.Context) (int, error) {
	var count int

	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE status <> 'FINALIZED'`).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *TicketRepository) scanTicket(row *sql.Row) (ticketRecord, error) {
	var rec ticketRecord
	var paidAt sql.NullTime
	var exitedAt sql.NullTime

	err := row.Scan(
		&rec.ID,
		&rec.Plate,
		&rec.VehicleClass,
		&rec.EnteredAt,
		&paidAt,
		&exitedAt,
		&rec.Status,
	)
	if err != nil {
		return ticketRecord{}, err
	}

	if paidAt.Valid {
		rec.PaidAt = &paidAt.Time
	}

	if exitedAt.Valid {
		rec.ExitedAt = &exitedAt.Time
	}

	return rec, nil
}

func (r *TicketRepository) invalidateOpenTicket(ctx context.Context, plate string) {
	if r.cache == nil {
		return
	}

	if err := r.cache.Del(ctx, openTicketKey(plate)).Err(); err != nil {
		log.Printf("Failed to invalidate open ticket cache for plate %s: %v", plate, err)
	}
}
