// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

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

// PostgresRepository implements [Repository] on feedback.comment.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func selectComment(extra string) string {
	c, u := schema.FeedbackComment, schema.UserAccount

	return fmt.Sprintf(`
		SELECT %s, u.%s%s
		FROM %s c
		JOIN %s u ON u.%s = c.%s
	`,
		schema.Qualified("c", c.Columns()), u.Username, extra,
		c.Table,
		u.Table, u.ID, c.AuthorID,
	)
}

func scanComment(row pgx.Row, extra ...any) (*Comment, error) {
	comment := &Comment{}
	destinations := append([]any{
		&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Text, &comment.PubDate, &comment.Author,
	}, extra...)

	if err := row.Scan(destinations...); err != nil {
		return nil, err
	}
	return comment, nil
}

func (repository *PostgresRepository) List(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	c := schema.FeedbackComment

	statement := selectComment(", COUNT(*) OVER() AS total_count") + fmt.Sprintf(`
		WHERE c.%s = $1
		ORDER BY c.%s ASC, c.%s ASC
		LIMIT $2 OFFSET $3
	`, c.ReviewID, c.PubDate, c.ID)

	rows, err := repository.pool.Query(context, statement, reviewID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*Comment{}
	var totalCount int

	for rows.Next() {
		comment, err := scanComment(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate comments: %w", err)
	}

	if len(comments) == 0 && offset > 0 {
		countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`, c.Table, c.ReviewID)
		if err := repository.pool.QueryRow(context, countQuery, reviewID).Scan(&totalCount); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to count comments: %w", err)
		}
	}

	return comments, totalCount, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, reviewID, id int64) (*Comment, error) {
	c := schema.FeedbackComment
	statement := selectComment("") + fmt.Sprintf(" WHERE c.%s = $1 AND c.%s = $2", c.ID, c.ReviewID)

	comment, err := scanComment(repository.pool.QueryRow(context, statement, id, reviewID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("comment")
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to find comment: %w", err)
	}
	return comment, nil
}

func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	c := schema.FeedbackComment

	statement := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s
	`, c.Table, c.ReviewID, c.AuthorID, c.Text, c.ID, c.PubDate)

	err := repository.pool.QueryRow(context, statement, comment.ReviewID, comment.AuthorID, comment.Text).
		Scan(&comment.ID, &comment.PubDate)
	if err != nil {
		return dberr.Wrap(err, "postgres: failed to create comment")
	}
	return nil
}

func (repository *PostgresRepository) Update(context context.Context, comment *Comment) error {
	c := schema.FeedbackComment
	statement := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`, c.Table, c.Text, c.ID)

	response, err := repository.pool.Exec(context, statement, comment.Text, comment.ID)
	if err != nil {
		return dberr.Wrap(err, "postgres: failed to update comment")
	}
	if response.RowsAffected() == 0 {
		return apperr.NotFound("comment")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	c := schema.FeedbackComment
	statement := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, c.Table, c.ID)

	response, err := repository.pool.Exec(context, statement, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete comment: %w", err)
	}
	if response.RowsAffected() == 0 {
		return apperr.NotFound("comment")
	}
	return nil
}
