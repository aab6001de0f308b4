// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/database/schema"
	"github.com/taibuivan/reviewboard/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on feedback.review.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectReview joins the author and the title so the read shape comes back in one query.
func selectReview(extra string) string {
	r, u, t := schema.FeedbackReview, schema.UserAccount, schema.CatalogTitle

	return fmt.Sprintf(`
		SELECT %s, u.%s, t.%s%s
		FROM %s r
		JOIN %s u ON u.%s = r.%s
		JOIN %s t ON t.%s = r.%s
	`,
		schema.Qualified("r", r.Columns()), u.Username, t.Name, extra,
		r.Table,
		u.Table, u.ID, r.AuthorID,
		t.Table, t.ID, r.TitleID,
	)
}

func scanReview(row pgx.Row, extra ...any) (*Review, error) {
	review := &Review{}
	destinations := append([]any{
		&review.ID, &review.TitleID, &review.AuthorID, &review.Text, &review.Score, &review.PubDate,
		&review.Author, &review.Title,
	}, extra...)

	if err := row.Scan(destinations...); err != nil {
		return nil, err
	}
	return review, nil
}

func (repository *PostgresRepository) List(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	r := schema.FeedbackReview

	statement := selectReview(", COUNT(*) OVER() AS total_count") + fmt.Sprintf(`
		WHERE r.%s = $1
		ORDER BY r.%s ASC, r.%s ASC
		LIMIT $2 OFFSET $3
	`, r.TitleID, r.PubDate, r.ID)

	rows, err := repository.pool.Query(context, statement, titleID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*Review{}
	var totalCount int

	for rows.Next() {
		review, err := scanReview(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate reviews: %w", err)
	}

	if len(reviews) == 0 && offset > 0 {
		countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`, r.Table, r.TitleID)
		if err := repository.pool.QueryRow(context, countQuery, titleID).Scan(&totalCount); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to count reviews: %w", err)
		}
	}

	return reviews, totalCount, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, titleID, id int64) (*Review, error) {
	r := schema.FeedbackReview
	statement := selectReview("") + fmt.Sprintf(" WHERE r.%s = $1 AND r.%s = $2", r.ID, r.TitleID)

	review, err := scanReview(repository.pool.QueryRow(context, statement, id, titleID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("review")
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to find review: %w", err)
	}
	return review, nil
}

func (repository *PostgresRepository) Exists(context context.Context, titleID int64, authorID string) (bool, error) {
	r := schema.FeedbackReview
	statement := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`, r.Table, r.TitleID, r.AuthorID)

	var exists bool
	if err := repository.pool.QueryRow(context, statement, titleID, authorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: failed to check review existence: %w", err)
	}
	return exists, nil
}

/*
Create inserts a review.

The (author, title) unique constraint is the final arbiter: a concurrent
duplicate that slipped past the service pre-check surfaces as [ErrDuplicate].
*/
func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	r := schema.FeedbackReview

	statement := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s
	`, r.Table, r.TitleID, r.AuthorID, r.Text, r.Score, r.ID, r.PubDate)

	err := repository.pool.QueryRow(context, statement, review.TitleID, review.AuthorID, review.Text, review.Score).
		Scan(&review.ID, &review.PubDate)
	if dberr.IsUniqueViolation(err, r.AuthorTitleKey) {
		return ErrDuplicate
	}
	if err != nil {
		return dberr.Wrap(err, "postgres: failed to create review")
	}
	return nil
}

func (repository *PostgresRepository) Update(context context.Context, review *Review) error {
	r := schema.FeedbackReview
	statement := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3`, r.Table, r.Text, r.Score, r.ID)

	response, err := repository.pool.Exec(context, statement, review.Text, review.Score, review.ID)
	if err != nil {
		return dberr.Wrap(err, "postgres: failed to update review")
	}
	if response.RowsAffected() == 0 {
		return apperr.NotFound("review")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	r := schema.FeedbackReview
	statement := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, r.Table, r.ID)

	response, err := repository.pool.Exec(context, statement, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete review: %w", err)
	}
	if response.RowsAffected() == 0 {
		return apperr.NotFound("review")
	}
	return nil
}
