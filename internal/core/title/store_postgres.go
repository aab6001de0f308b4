// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/database/schema"
	"github.com/taibuivan/reviewboard/internal/platform/dberr"
	pgstore "github.com/taibuivan/reviewboard/internal/platform/postgres"
	"github.com/taibuivan/reviewboard/pkg/query"
)

// PostgresRepository implements [Repository] on catalog.title.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
selectTitle is the shared projection of the read shape, optionally followed by
extra columns.

The category is joined, the genres are folded into one JSON array with
json_agg and the rating is an AVG sub-select, so every title is hydrated in a
single round trip.
*/
func selectTitle(extraColumns ...string) string {
	extra := ""
	if len(extraColumns) > 0 {
		extra = ", " + strings.Join(extraColumns, ", ")
	}

	t, c, g, tg, r := schema.CatalogTitle, schema.CatalogCategory, schema.CatalogGenre, schema.CatalogTitleGenre, schema.FeedbackReview

	return fmt.Sprintf(`
		SELECT
			%s,
			c.%s, c.%s,
			(SELECT AVG(r.%s)::float8 FROM %s r WHERE r.%s = t.%s) AS rating,
			COALESCE((
				SELECT json_agg(json_build_object('name', g.%s, 'slug', g.%s) ORDER BY g.%s)
				FROM %s g
				JOIN %s tg ON g.%s = tg.%s
				WHERE tg.%s = t.%s
			), '[]') AS genres%s
		FROM %s t
		JOIN %s c ON c.%s = t.%s
	`,
		schema.Qualified("t", t.Columns()),
		c.Name, c.Slug,
		r.Score, r.Table, r.TitleID, t.ID,
		g.Name, g.Slug, g.Name,
		g.Table,
		tg.Table, g.ID, tg.GenreID,
		tg.TitleID, t.ID, extra,
		t.Table,
		c.Table, c.ID, t.CategoryID,
	)
}

// scanTitle hydrates one row of [selectTitle], plus any trailing destinations.
func scanTitle(row pgx.Row, extra ...any) (*Title, error) {
	title := &Title{}
	var genresJSON []byte

	destinations := append([]any{
		&title.ID, &title.Name, &title.Year, &title.Description, &title.CategoryID,
		&title.Category.Name, &title.Category.Slug,
		&title.Rating,
		&genresJSON,
	}, extra...)

	if err := row.Scan(destinations...); err != nil {
		return nil, err
	}

	title.Category.ID = title.CategoryID
	if err := json.Unmarshal(genresJSON, &title.Genre); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal genres: %w", err)
	}
	return title, nil
}

/*
List returns a filtered, paginated slice of titles ordered by id.

Filters are appended dynamically. The genre filter is an EXISTS over the
junction so a title matches once regardless of how many genres it has.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {
	t, c, g, tg := schema.CatalogTitle, schema.CatalogCategory, schema.CatalogGenre, schema.CatalogTitleGenre

	var whereBuilder strings.Builder
	var args []any
	argID := 1

	whereBuilder.WriteString(" WHERE TRUE")

	if filter.Name != "" {
		whereBuilder.WriteString(fmt.Sprintf(" AND t.%s ILIKE $%d", t.Name, argID))
		args = append(args, query.Contains(filter.Name))
		argID++
	}

	if filter.Year != nil {
		whereBuilder.WriteString(fmt.Sprintf(" AND t.%s = $%d", t.Year, argID))
		args = append(args, *filter.Year)
		argID++
	}

	if filter.Category != "" {
		whereBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", c.Slug, argID))
		args = append(args, filter.Category)
		argID++
	}

	if filter.Genre != "" {
		whereBuilder.WriteString(fmt.Sprintf(`
			AND EXISTS (
				SELECT 1 FROM %s fg
				JOIN %s fgg ON fgg.%s = fg.%s
				WHERE fg.%s = t.%s AND fgg.%s = $%d
			)`,
			tg.Table, g.Table, g.ID, tg.GenreID,
			tg.TitleID, t.ID, g.Slug, argID,
		))
		args = append(args, filter.Genre)
		argID++
	}

	where := whereBuilder.String()
	statement := selectTitle("COUNT(*) OVER() AS total_count") + where +
		fmt.Sprintf(" ORDER BY t.%s ASC LIMIT $%d OFFSET $%d", t.ID, argID, argID+1)

	rows, err := repository.pool.Query(context, statement, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list titles: %w", err)
	}
	defer rows.Close()

	titles := []*Title{}
	var totalCount int

	for rows.Next() {
		title, err := scanTitle(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan title: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate titles: %w", err)
	}

	// Past the last page the window function yields nothing; count separately.
	if len(titles) == 0 && offset > 0 {
		total, err := repository.count(context, where, args)
		return titles, total, err
	}

	return titles, totalCount, nil
}

// count applies the list filters without paging.
func (repository *PostgresRepository) count(context context.Context, where string, args []any) (int, error) {
	t, c := schema.CatalogTitle, schema.CatalogCategory
	statement := fmt.Sprintf(`SELECT count(*) FROM %s t JOIN %s c ON c.%s = t.%s`, t.Table, c.Table, c.ID, t.CategoryID) + where

	var total int
	if err := repository.pool.QueryRow(context, statement, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres: failed to count titles: %w", err)
	}
	return total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	statement := selectTitle() + fmt.Sprintf(" WHERE t.%s = $1", schema.CatalogTitle.ID)

	title, err := scanTitle(repository.pool.QueryRow(context, statement, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("title")
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to find title by id: %w", err)
	}
	return title, nil
}

/*
Create inserts the title and its genre links in one transaction.
*/
func (repository *PostgresRepository) Create(context context.Context, title *Title) error {
	t := schema.CatalogTitle

	statement := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`, t.Table, t.Name, t.Year, t.Description, t.CategoryID, t.ID)

	return pgstore.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		err := transaction.QueryRow(context, statement, title.Name, title.Year, title.Description, title.CategoryID).Scan(&title.ID)
		if err != nil {
			return dberr.Wrap(err, "postgres: failed to create title")
		}
		return repository.updateJunction(context, transaction, title.ID, title.GenreIDs)
	})
}

/*
Update rewrites the title row and replaces its genre links in one transaction.
*/
func (repository *PostgresRepository) Update(context context.Context, title *Title) error {
	t := schema.CatalogTitle

	statement := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4
		WHERE %s = $5
	`, t.Table, t.Name, t.Year, t.Description, t.CategoryID, t.ID)

	return pgstore.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		response, err := transaction.Exec(context, statement, title.Name, title.Year, title.Description, title.CategoryID, title.ID)
		if err != nil {
			return dberr.Wrap(err, "postgres: failed to update title")
		}
		if response.RowsAffected() == 0 {
			return apperr.NotFound("title")
		}
		return repository.updateJunction(context, transaction, title.ID, title.GenreIDs)
	})
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	statement := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CatalogTitle.Table, schema.CatalogTitle.ID)

	response, err := repository.pool.Exec(context, statement, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete title: %w", err)
	}
	if response.RowsAffected() == 0 {
		return apperr.NotFound("title")
	}
	return nil
}

/*
updateJunction replaces the genre links of a title.

Existing rows are cleared first, then the new links are queued on a single
pgx.Batch inside the caller's transaction.
*/
func (repository *PostgresRepository) updateJunction(context context.Context, transaction pgx.Tx, titleID int64, genreIDs []int64) error {
	tg := schema.CatalogTitleGenre

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", tg.Table, tg.TitleID)
	if _, err := transaction.Exec(context, deleteQuery, titleID); err != nil {
		return fmt.Errorf("postgres: failed to clear %s: %w", tg.Table, err)
	}

	if len(genreIDs) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING", tg.Table, tg.TitleID, tg.GenreID)
	batch := &pgx.Batch{}
	for _, genreID := range genreIDs {
		batch.Queue(insertQuery, titleID, genreID)
	}

	response := transaction.SendBatch(context, batch)
	if err := response.Close(); err != nil {
		return dberr.Wrap(err, fmt.Sprintf("postgres: failed to batch insert into %s", tg.Table))
	}
	return nil
}
