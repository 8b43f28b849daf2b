package postgres

import (
	"context"
	"errors"
	"fmt"

	"deerhacks-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const eventColumns = `id, title, description, location, start_time, end_time, important, host, type, presenter, points_value, qr_active`

// EventStore keeps schedule events in the events table.
type EventStore struct {
	pool *pgxpool.Pool
}

func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

func (s *EventStore) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY start_time, id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *EventStore) Create(ctx context.Context, ev domain.Event) (domain.Event, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO events (title, description, location, start_time, end_time, important, host, type, presenter, points_value, qr_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		ev.Title, ev.Description, ev.Location, ev.StartTime, ev.EndTime, ev.Important, string(ev.Host), string(ev.Type), ev.Presenter,
		ev.PointsValue, ev.QRActive,
	).Scan(&ev.ID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("create event: %w", err)
	}
	return ev, nil
}

func (s *EventStore) Update(ctx context.Context, ev domain.Event) (domain.Event, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE events
		SET title=$2, description=$3, location=$4, start_time=$5, end_time=$6, important=$7, host=$8, type=$9, presenter=$10,
		    points_value=$11, qr_active=$12, updated_at=now()
		WHERE id=$1`,
		ev.ID, ev.Title, ev.Description, ev.Location, ev.StartTime, ev.EndTime, ev.Important, string(ev.Host), string(ev.Type), ev.Presenter,
		ev.PointsValue, ev.QRActive,
	)
	if err != nil {
		return domain.Event{}, fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return ev, nil
}

func (s *EventStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (s *EventStore) Get(ctx context.Context, id int64) (domain.Event, error) {
	ev, err := scanEvent(s.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return ev, err
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var (
		ev         domain.Event
		host, kind string
	)
	err := row.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.Location, &ev.StartTime, &ev.EndTime,
		&ev.Important, &host, &kind, &ev.Presenter, &ev.PointsValue, &ev.QRActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Event{}, err
	}
	if err != nil {
		return domain.Event{}, fmt.Errorf("scan event: %w", err)
	}
	ev.Host = domain.EventHost(host)
	ev.Type = domain.EventType(kind)
	return ev, nil
}
