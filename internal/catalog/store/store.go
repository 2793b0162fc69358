package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dverissimo/ustbudget/internal/catalog"
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

const selectNodeColumns = `
	id, name, kind, parent_id, complexity_multiplier, created_at, updated_at
`

func scanNode(s scanner) (*catalog.Node, error) {
	var n catalog.Node

	var kindStr string

	var multiplier decimal.NullDecimal

	if err := s.Scan(&n.ID, &n.Name, &kindStr, &n.ParentID, &multiplier, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}

	n.Kind = catalog.Kind(kindStr)

	if multiplier.Valid {
		n.ComplexityMultiplier = &multiplier.Decimal
	}

	return &n, nil
}

func (s *Store) CreateNode(ctx context.Context, n *catalog.Node) error {
	query := `
		INSERT INTO catalog_nodes (id, name, kind, parent_id, complexity_multiplier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.Name, string(n.Kind), n.ParentID, nullDecimal(n.ComplexityMultiplier), n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating catalog node: %w", err)
	}

	return nil
}

func (s *Store) GetNode(ctx context.Context, id uuid.UUID) (*catalog.Node, error) {
	query := `SELECT ` + selectNodeColumns + ` FROM catalog_nodes WHERE id = $1`

	n, err := scanNode(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("getting catalog node: %w", err)
	}

	return n, nil
}

func (s *Store) ListNodes(ctx context.Context, filter catalog.ListFilter) ([]*catalog.Node, error) {
	query := `SELECT ` + selectNodeColumns + ` FROM catalog_nodes WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", argIdx)

		args = append(args, string(*filter.Kind))
		argIdx++
	}

	if filter.ParentID != nil {
		query += fmt.Sprintf(" AND parent_id = $%d", argIdx)

		args = append(args, *filter.ParentID)
		argIdx++
	}

	query += " ORDER BY name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing catalog nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*catalog.Node

	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning catalog node: %w", err)
		}

		nodes = append(nodes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog rows: %w", err)
	}

	return nodes, nil
}

func (s *Store) UpdateNode(ctx context.Context, n *catalog.Node) error {
	query := `
		UPDATE catalog_nodes
		SET name = $1, parent_id = $2, complexity_multiplier = $3, updated_at = NOW()
		WHERE id = $4
	`

	_, err := s.db.ExecContext(ctx, query,
		n.Name, n.ParentID, nullDecimal(n.ComplexityMultiplier), n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating catalog node: %w", err)
	}

	return nil
}

func (s *Store) DeleteNode(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM catalog_nodes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting catalog node: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}

	if affected == 0 {
		return catalog.ErrNotFound
	}

	return nil
}

func (s *Store) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM catalog_nodes WHERE parent_id = $1)`

	if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking catalog children: %w", err)
	}

	return exists, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
