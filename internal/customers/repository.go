package customers

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"telecom-care/pkg/utils"

	"github.com/google/uuid"
)

// NOTE: This repository assumes the following tables exist:
// - customers (id, name, email, phone_number, created_at)
// - orders (id, customer_id, product_name, plan, status, order_date, in_service_date, out_service_date, created_at)
// - incidents (id, customer_id, description, status, created_at)
// - invoice_lines (id, customer_id, invoice_id, description, amount, period_start, period_end)

// PostgresRepo implements Repository on database/sql (pgx stdlib driver).
type PostgresRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db, now: time.Now}
}

const customerColumns = `id, name, email, phone_number, created_at`

func scanCustomer(row interface{ Scan(...any) error }) (Customer, error) {
	var c Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PhoneNumber, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Customer{}, ErrNotFound
		}
		return Customer{}, err
	}
	return c, nil
}

func (r *PostgresRepo) GetCustomer(ctx context.Context, id string) (Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) GetCustomerByPhone(ctx context.Context, phone string) (Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE phone_number = $1 LIMIT 1`
	return scanCustomer(r.db.QueryRowContext(ctx, q, phone))
}

func (r *PostgresRepo) ListCustomers(ctx context.Context) ([]Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) CreateCustomer(ctx context.Context, nc NewCustomer) (Customer, error) {
	const q = `
INSERT INTO customers (id, name, email, phone_number, created_at)
VALUES ($1,$2,$3,$4,$5)
`
	c := Customer{
		ID:          uuid.NewString(),
		Name:        nc.Name,
		Email:       nc.Email,
		PhoneNumber: nc.PhoneNumber,
		CreatedAt:   r.now().UTC(),
	}
	if _, err := r.db.ExecContext(ctx, q, c.ID, c.Name, c.Email, c.PhoneNumber, c.CreatedAt); err != nil {
		return Customer{}, err
	}
	return c, nil
}

const orderColumns = `id, customer_id, product_name, plan, status, order_date, in_service_date, out_service_date, created_at`

func scanOrder(row interface{ Scan(...any) error }) (Order, error) {
	var (
		o      Order
		inSvc  sql.NullTime
		outSvc sql.NullTime
	)
	if err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.ProductName,
		&o.Plan,
		&o.Status,
		&o.OrderDate,
		&inSvc,
		&outSvc,
		&o.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	if inSvc.Valid {
		t := inSvc.Time
		o.InServiceDate = &t
	}
	if outSvc.Valid {
		t := outSvc.Time
		o.OutServiceDate = &t
	}
	return o, nil
}

// ListOrders returns rows in storage order; callers must not assume any sorting.
func (r *PostgresRepo) ListOrders(ctx context.Context, customerID string) ([]Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) CreateOrder(ctx context.Context, no NewOrder) (Order, error) {
	const q = `
INSERT INTO orders (id, customer_id, product_name, plan, status, order_date, in_service_date, out_service_date, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,NULL,$8)
`
	now := r.now().UTC()
	o := Order{
		ID:            uuid.NewString(),
		CustomerID:    no.CustomerID,
		ProductName:   no.ProductName,
		Plan:          no.Plan,
		Status:        no.Status,
		OrderDate:     now,
		InServiceDate: no.InServiceDate,
		CreatedAt:     now,
	}
	var inSvc sql.NullTime
	if o.InServiceDate != nil {
		inSvc = sql.NullTime{Time: *o.InServiceDate, Valid: true}
	}
	if _, err := r.db.ExecContext(ctx, q,
		o.ID,
		o.CustomerID,
		o.ProductName,
		o.Plan,
		o.Status,
		o.OrderDate,
		inSvc,
		o.CreatedAt,
	); err != nil {
		return Order{}, err
	}
	return o, nil
}

// UpdateOrderStatus locks the order row and stamps the service dates that
// the new status implies.
func (r *PostgresRepo) UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) (Order, error) {
	const (
		sel = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
		upd = `UPDATE orders SET status = $2, in_service_date = $3, out_service_date = $4 WHERE id = $1 RETURNING ` + orderColumns
	)
	var out Order
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		cur, err := scanOrder(tx.QueryRowContext(ctx, sel, orderID))
		if err != nil {
			return err
		}
		cur = stampServiceDates(cur, status, r.now().UTC())
		out, err = scanOrder(tx.QueryRowContext(ctx, upd, orderID, status, nullTime(cur.InServiceDate), nullTime(cur.OutServiceDate)))
		return err
	})
	return out, err
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

const incidentColumns = `id, customer_id, description, status, created_at`

func scanIncident(row interface{ Scan(...any) error }) (Incident, error) {
	var i Incident
	if err := row.Scan(&i.ID, &i.CustomerID, &i.Description, &i.Status, &i.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Incident{}, ErrNotFound
		}
		return Incident{}, err
	}
	return i, nil
}

func (r *PostgresRepo) ListIncidents(ctx context.Context, customerID string) ([]Incident, error) {
	const q = `SELECT ` + incidentColumns + ` FROM incidents WHERE customer_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Incident
	for rows.Next() {
		i, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) CreateIncident(ctx context.Context, ni NewIncident) (Incident, error) {
	const q = `
INSERT INTO incidents (id, customer_id, description, status, created_at)
VALUES ($1,$2,$3,$4,$5)
`
	i := Incident{
		ID:          uuid.NewString(),
		CustomerID:  ni.CustomerID,
		Description: ni.Description,
		Status:      ni.Status,
		CreatedAt:   r.now().UTC(),
	}
	if _, err := r.db.ExecContext(ctx, q, i.ID, i.CustomerID, i.Description, i.Status, i.CreatedAt); err != nil {
		return Incident{}, err
	}
	return i, nil
}

func (r *PostgresRepo) UpdateIncidentStatus(ctx context.Context, incidentID string, status IncidentStatus) (Incident, error) {
	const q = `UPDATE incidents SET status = $2 WHERE id = $1 RETURNING ` + incidentColumns
	return scanIncident(r.db.QueryRowContext(ctx, q, incidentID, status))
}

func (r *PostgresRepo) ListInvoices(ctx context.Context, customerID string) ([]InvoiceLine, error) {
	const q = `
SELECT id, customer_id, invoice_id, description, amount, period_start, period_end
FROM invoice_lines
WHERE customer_id = $1
ORDER BY period_start, invoice_id
`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InvoiceLine
	for rows.Next() {
		var l InvoiceLine
		if err := rows.Scan(
			&l.ID,
			&l.CustomerID,
			&l.InvoiceID,
			&l.Description,
			&l.Amount,
			&l.PeriodStart,
			&l.PeriodEnd,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
