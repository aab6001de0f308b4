// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/reviewboard/data"
)

/*
TestConvertToPgx5DSN verifies the scheme rewrite expected by the pgx5 driver.
*/
func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/db", "pgx5://u:p@localhost:5432/db"},
		{"postgresql://u@localhost/db?sslmode=disable", "pgx5://u@localhost/db?sslmode=disable"},
		{"pgx5://u@localhost/db", "pgx5://u@localhost/db"},
		{"host=localhost dbname=db", "host=localhost dbname=db"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, convertToPgx5DSN(tt.in))
		})
	}
}

/*
TestEmbeddedSource verifies the embedded migrations pair up and start at version 1.
*/
func TestEmbeddedSource(t *testing.T) {
	source, err := iofs.New(data.Migrations, "migrations")
	require.NoError(t, err)
	defer source.Close()

	first, err := source.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, _, err := source.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()

	down, _, err := source.ReadDown(first)
	require.NoError(t, err)
	defer down.Close()
}
