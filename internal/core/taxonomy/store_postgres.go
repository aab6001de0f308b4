// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/dberr"
	"github.com/taibuivan/reviewboard/pkg/query"
)

// PostgresRepository implements [Repository] over one taxonomy table.
type PostgresRepository struct {
	pool *pgxpool.Pool
	kind Kind
}

// NewPostgresRepository constructs a PostgreSQL backed term store for kind.
func NewPostgresRepository(pool *pgxpool.Pool, kind Kind) *PostgresRepository {
	return &PostgresRepository{pool: pool, kind: kind}
}

/*
List returns a filtered, paginated slice of terms and the total count.

The total is read through COUNT(*) OVER() so a single round trip serves both.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Term, int, error) {
	table := repository.kind.Table

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE TRUE
	`, strings.Join(table.Columns(), ", "), table.Table))

	// Search Query Filtering
	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", table.Name, argID))
		args = append(args, query.Contains(filter.Search))
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC, %s ASC", repository.kind.OrderBy, table.ID))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list %s: %w", repository.kind.Label, err)
	}
	defer rows.Close()

	terms := []*Term{}
	var totalCount int

	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan %s: %w", repository.kind.Label, err)
		}
		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate %s: %w", repository.kind.Label, err)
	}

	// Past the last page the window function yields no rows; fall back to a plain count.
	if len(terms) == 0 && offset > 0 {
		total, err := repository.count(context, filter)
		return terms, total, err
	}

	return terms, totalCount, nil
}

func (repository *PostgresRepository) count(context context.Context, filter Filter) (int, error) {
	table := repository.kind.Table
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s ILIKE $1`, table.Table, table.Name)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, query.Contains(filter.Search)).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres: failed to count %s: %w", repository.kind.Label, err)
	}
	return total, nil
}

// FindBySlug retrieves a single term.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Term, error) {
	table := repository.kind.Table
	statement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(table.Columns(), ", "), table.Table, table.Slug,
	)

	term := &Term{}
	err := repository.pool.QueryRow(context, statement, slug).Scan(&term.ID, &term.Name, &term.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(repository.kind.Label)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to find %s: %w", repository.kind.Label, err)
	}
	return term, nil
}

// FindBySlugs resolves many slugs in a single query.
func (repository *PostgresRepository) FindBySlugs(context context.Context, slugs []string) ([]*Term, error) {
	if len(slugs) == 0 {
		return []*Term{}, nil
	}

	table := repository.kind.Table
	statement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1)`,
		strings.Join(table.Columns(), ", "), table.Table, table.Slug,
	)

	rows, err := repository.pool.Query(context, statement, slugs)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to resolve %s slugs: %w", repository.kind.Label, err)
	}

	terms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Term, error) {
		term := &Term{}
		return term, row.Scan(&term.ID, &term.Name, &term.Slug)
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to scan %s: %w", repository.kind.Label, err)
	}
	return terms, nil
}

// SlugExists reports whether slug is taken.
func (repository *PostgresRepository) SlugExists(context context.Context, slug string) (bool, error) {
	table := repository.kind.Table
	statement := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, table.Table, table.Slug)

	var exists bool
	if err := repository.pool.QueryRow(context, statement, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: failed to check %s slug: %w", repository.kind.Label, err)
	}
	return exists, nil
}

// Create inserts term and fills its ID.
func (repository *PostgresRepository) Create(context context.Context, term *Term) error {
	table := repository.kind.Table
	statement := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		table.Table, table.Name, table.Slug, table.ID,
	)

	if err := repository.pool.QueryRow(context, statement, term.Name, term.Slug).Scan(&term.ID); err != nil {
		return repository.classify(err, "create")
	}
	return nil
}

// Update rewrites name and slug of the term addressed by slug.
func (repository *PostgresRepository) Update(context context.Context, slug string, term *Term) error {
	table := repository.kind.Table
	statement := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3 RETURNING %s`,
		table.Table, table.Name, table.Slug, table.Slug, table.ID,
	)

	err := repository.pool.QueryRow(context, statement, term.Name, term.Slug, slug).Scan(&term.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(repository.kind.Label)
	}
	if err != nil {
		return repository.classify(err, "update")
	}
	return nil
}

// Delete removes the term. Dependent rows follow through ON DELETE CASCADE.
func (repository *PostgresRepository) Delete(context context.Context, slug string) error {
	table := repository.kind.Table
	statement := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.Slug)

	response, err := repository.pool.Exec(context, statement, slug)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete %s: %w", repository.kind.Label, err)
	}

	if response.RowsAffected() == 0 {
		return apperr.NotFound(repository.kind.Label)
	}
	return nil
}

// classify turns unique violations into field errors.
func (repository *PostgresRepository) classify(err error, action string) error {
	table := repository.kind.Table

	switch {
	case dberr.IsUniqueViolation(err, table.NameKey):
		return apperr.FieldInvalid(FieldName, fmt.Sprintf("%s with this name already exists.", repository.kind.Label))
	case dberr.IsUniqueViolation(err, table.SlugKey):
		return apperr.FieldInvalid(FieldSlug, fmt.Sprintf("%s with this slug already exists.", repository.kind.Label))
	}
	return fmt.Errorf("postgres: failed to %s %s: %w", action, repository.kind.Label, err)
}
