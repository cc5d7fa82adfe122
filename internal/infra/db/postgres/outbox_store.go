package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	appoutbox "bookingsystem/internal/app/outbox"
	infraoutbox "bookingsystem/internal/infra/outbox"
)

// Outbox writes event records through the unit's transaction.
type Outbox struct {
	db querier
}

func (o *Outbox) Add(ctx context.Context, rec appoutbox.EventRecord) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	headers := rec.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	const q = `INSERT INTO app_outbox (id, name, payload, occurred_at, aggregate, headers, state)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := o.db.Exec(ctx, q, rec.ID, rec.Name, rec.Payload, rec.OccurredAt, rec.Aggregate, headers, infraoutbox.StateNew)
	return err
}

// OutboxStore is the relay side, used outside any unit of work.
type OutboxStore struct {
	pool *pgxpool.Pool
	// ClaimTimeout releases records claimed by a worker that died.
	ClaimTimeout time.Duration
}

func NewOutboxStore(pool *pgxpool.Pool) *OutboxStore {
	return &OutboxStore{pool: pool, ClaimTimeout: time.Minute}
}

func (s *OutboxStore) Claim(ctx context.Context, workerID string) (*infraoutbox.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	const q = `UPDATE app_outbox SET state = $1, claimed_by = $2, claimed_at = now()
 WHERE id = (
   SELECT id FROM app_outbox
    WHERE (state IN ($3, $4) AND next_attempt_at <= now())
       OR (state = $1 AND claimed_at < now() - make_interval(secs => $5))
    ORDER BY created_at
    LIMIT 1
    FOR UPDATE SKIP LOCKED)
 RETURNING id, name, payload, occurred_at, aggregate, headers, attempts`
	var msg infraoutbox.Message
	err := s.pool.QueryRow(ctx, q,
		infraoutbox.StateClaimed, workerID, infraoutbox.StateNew, infraoutbox.StateFailed, s.ClaimTimeout.Seconds(),
	).Scan(&msg.ID, &msg.Name, &msg.Payload, &msg.OccurredAt, &msg.Aggregate, &msg.Headers, &msg.Attempts)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := s.pool.Exec(ctx, `UPDATE app_outbox SET state = $1, sent_at = now() WHERE id = $2`, infraoutbox.StateSent, id)
	return err
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	const q = `UPDATE app_outbox
   SET state = $1, next_attempt_at = $2, last_error = $3, attempts = attempts + 1
 WHERE id = $4`
	_, err := s.pool.Exec(ctx, q, infraoutbox.StateFailed, next, errMsg, id)
	return err
}

var (
	_ appoutbox.Outbox  = (*Outbox)(nil)
	_ infraoutbox.Store = (*OutboxStore)(nil)
)
