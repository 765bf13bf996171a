package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanBill reads a bill row in selectBillColumns order.
func scanBill(s scanner) (*bill.Bill, error) {
	var b bill.Bill

	var statusStr string

	var date sql.NullTime

	if err := s.Scan(
		&b.ID, &b.Email, &b.Type, &b.Name, &date, &b.Amount, &b.VAT, &b.Pct,
		&b.Commentary, &b.CommentAdmin, &b.FileURL, &b.FileName, &statusStr,
		&b.CreatedAt, &b.UpdatedAt, &b.DeletedAt,
	); err != nil {
		return nil, err
	}

	b.Status = bill.Status(statusStr)
	if date.Valid {
		b.Date = date.Time
	}

	return &b, nil
}

const selectBillColumns = `
	id, email, type, name, date, amount, vat, pct,
	commentary, comment_admin, file_url, file_name, status,
	created_at, updated_at, deleted_at
`

func nullDate(b *bill.Bill) sql.NullTime {
	return sql.NullTime{Time: b.Date, Valid: !b.Date.IsZero()}
}

func (s *Store) CreateBill(ctx context.Context, b *bill.Bill) error {
	query := `
		INSERT INTO bills (email, type, name, date, amount, vat, pct, commentary, comment_admin, file_url, file_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		b.Email,
		b.Type,
		b.Name,
		nullDate(b),
		b.Amount,
		b.VAT,
		b.Pct,
		b.Commentary,
		b.CommentAdmin,
		b.FileURL,
		b.FileName,
		b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating bill: %w", err)
	}

	return nil
}

func (s *Store) GetBill(ctx context.Context, id uuid.UUID) (*bill.Bill, error) {
	query := `SELECT ` + selectBillColumns + `
		FROM bills
		WHERE id = $1 AND deleted_at IS NULL`

	b, err := scanBill(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bill.ErrNotFound
		}

		return nil, fmt.Errorf("getting bill: %w", err)
	}

	return b, nil
}

func (s *Store) ListBills(ctx context.Context, filter bill.ListFilter) ([]*bill.Bill, error) {
	query := `SELECT ` + selectBillColumns + `
		FROM bills
		WHERE deleted_at IS NULL AND type <> ''`

	var args []any

	argIdx := 1

	if filter.Email != nil {
		query += fmt.Sprintf(" AND email = $%d", argIdx)

		args = append(args, *filter.Email)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	query += " ORDER BY date DESC NULLS LAST, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	defer rows.Close()

	var bills []*bill.Bill

	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bill: %w", err)
		}

		bills = append(bills, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bill rows: %w", err)
	}

	return bills, nil
}

func (s *Store) UpdateBill(ctx context.Context, b *bill.Bill) error {
	query := `
		UPDATE bills
		SET email = $1, type = $2, name = $3, date = $4, amount = $5, vat = $6, pct = $7,
			commentary = $8, file_url = $9, file_name = $10, status = $11, updated_at = NOW()
		WHERE id = $12 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		b.Email,
		b.Type,
		b.Name,
		nullDate(b),
		b.Amount,
		b.VAT,
		b.Pct,
		b.Commentary,
		b.FileURL,
		b.FileName,
		b.Status,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating bill: %w", err)
	}

	return requireOneRow(res)
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status bill.Status, commentAdmin string) error {
	query := `
		UPDATE bills
		SET status = $1, comment_admin = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, status, commentAdmin, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return requireOneRow(res)
}

func (s *Store) DeleteBill(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bills
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting bill: %w", err)
	}

	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return bill.ErrNotFound
	}

	return nil
}
