package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationSource(t *testing.T) {
	migrations, err := MigrationSource().FindMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 1)

	m := migrations[0]
	assert.Equal(t, "001_create_minutes.sql", m.Id)
	require.NotEmpty(t, m.Up)
	assert.Contains(t, m.Up[0], "CREATE TABLE IF NOT EXISTS minutes")
	require.NotEmpty(t, m.Down)
	assert.Contains(t, m.Down[0], "DROP TABLE IF EXISTS minutes")
}
