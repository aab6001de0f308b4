// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/database/schema"
	"github.com/taibuivan/reviewboard/internal/platform/dberr"
	"github.com/taibuivan/reviewboard/pkg/query"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] on users.account.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// userColumns is the projection shared by every read.
func userColumns() string {
	return strings.Join(schema.UserAccount.Columns(), ", ")
}

func scanUser(row pgx.Row, extra ...any) (*User, error) {
	user := &User{}
	destinations := append([]any{
		&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName, &user.Bio,
		&user.Role, &user.IsSuperuser, &user.LastLogin, &user.DateJoined,
	}, extra...)

	if err := row.Scan(destinations...); err != nil {
		return nil, err
	}
	return user, nil
}

/*
List returns users ordered by username.

The total is read through COUNT(*) OVER() so a single round trip serves both.
*/
func (repository *PostgresUserRepository) List(context context.Context, filter UserFilter, limit, offset int) ([]*User, int, error) {
	account := schema.UserAccount

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE TRUE`, userColumns(), account.Table))

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", account.Username, argID))
		args = append(args, query.Contains(filter.Search))
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC LIMIT $%d OFFSET $%d", account.Username, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*User{}
	var totalCount int

	for rows.Next() {
		user, err := scanUser(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate users: %w", err)
	}

	// Past the last page the window function yields nothing; count separately.
	if len(users) == 0 && offset > 0 {
		countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s ILIKE $1`, account.Table, account.Username)
		if err := repository.pool.QueryRow(context, countQuery, query.Contains(filter.Search)).Scan(&totalCount); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to count users: %w", err)
		}
	}

	return users, totalCount, nil
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.ID, id)
}

func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Email, email)
}

func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Username, username)
}

func (repository *PostgresUserRepository) findBy(context context.Context, column, value string) (*User, error) {
	statement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, userColumns(), schema.UserAccount.Table, column)

	user, err := scanUser(repository.pool.QueryRow(context, statement, value))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to find user by %s: %w", column, err)
	}
	return user, nil
}

func (repository *PostgresUserRepository) UsernameExists(context context.Context, username string) (bool, error) {
	account := schema.UserAccount
	statement := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, account.Table, account.Username)

	var exists bool
	if err := repository.pool.QueryRow(context, statement, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: failed to check username: %w", err)
	}
	return exists, nil
}

// Create inserts user. DateJoined is filled by the database.
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	account := schema.UserAccount
	statement := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s
	`,
		account.Table,
		account.ID, account.Username, account.Email, account.FirstName, account.LastName, account.Bio, account.Role, account.IsSuperuser,
		account.DateJoined,
	)

	err := repository.pool.QueryRow(context, statement,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName, user.Bio, user.Role, user.IsSuperuser,
	).Scan(&user.DateJoined)
	if err != nil {
		return classify(err, "create")
	}
	return nil
}

func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	account := schema.UserAccount
	statement := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1
	`,
		account.Table,
		account.Username, account.Email, account.FirstName, account.LastName, account.Bio, account.Role, account.IsSuperuser,
		account.ID,
	)

	response, err := repository.pool.Exec(context, statement,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName, user.Bio, user.Role, user.IsSuperuser,
	)
	if err != nil {
		return classify(err, "update")
	}
	if response.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// Delete removes the account. Reviews and comments cascade.
func (repository *PostgresUserRepository) Delete(context context.Context, id string) error {
	statement := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserAccount.Table, schema.UserAccount.ID)

	response, err := repository.pool.Exec(context, statement, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete user: %w", err)
	}
	if response.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, id string, at time.Time) error {
	account := schema.UserAccount
	statement := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`, account.Table, account.LastLogin, account.ID)

	if _, err := repository.pool.Exec(context, statement, id, at); err != nil {
		return dberr.Wrap(err, "postgres: failed to record last login")
	}
	return nil
}

// classify maps account unique violations onto field errors.
func classify(err error, action string) error {
	switch {
	case dberr.IsUniqueViolation(err, schema.UserAccount.UsernameKey):
		return apperr.FieldInvalid(FieldUsername, messageUsernameTaken)
	case dberr.IsUniqueViolation(err, schema.UserAccount.EmailKey):
		return duplicateEmail()
	}
	return fmt.Errorf("postgres: failed to %s user: %w", action, err)
}

// duplicateEmail is the email field error carrying [ErrDuplicateEmail].
func duplicateEmail() error {
	appErr := apperr.FieldInvalid(FieldEmail, messageEmailTaken)
	appErr.Cause = ErrDuplicateEmail
	return appErr
}
