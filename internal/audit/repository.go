package audit

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepo stores events in audit_events. The table is INSERT-only.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	if r.db == nil {
		return errors.New("audit: db not configured")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, customer_id, type, actor_user_id, actor_role, channel, target_id, message, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, $9)
	`, e.ID, e.CustomerID, string(e.Type), e.ActorUserID, e.ActorRole, e.Channel, e.TargetID, e.Message, e.CreatedAt)
	return err
}

func (r *PostgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]Event, error) {
	if r.db == nil {
		return nil, errors.New("audit: db not configured")
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, type, COALESCE(actor_user_id, ''), COALESCE(actor_role, ''),
		       COALESCE(channel, ''), COALESCE(target_id, ''), message, created_at
		FROM audit_events
		WHERE customer_id = $1
		ORDER BY created_at ASC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var typ string
		if err := rows.Scan(&e.ID, &e.CustomerID, &typ, &e.ActorUserID, &e.ActorRole, &e.Channel, &e.TargetID, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Type = EventType(typ)
		out = append(out, e)
	}
	return out, rows.Err()
}
