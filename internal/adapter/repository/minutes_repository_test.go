package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
)

// dryRunDB renders statements against the postgres dialect without a
// server. Every rendered statement is appended to the returned slice.
func dryRunDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 port=1 user=minutes dbname=minutes sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	var statements []string
	capture := func(tx *gorm.DB) {
		statements = append(statements, tx.Dialector.Explain(tx.Statement.SQL.String(), tx.Statement.Vars...))
	}
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:capture_create", capture))
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture_query", capture))
	require.NoError(t, db.Callback().Delete().After("gorm:delete").Register("test:capture_delete", capture))
	return db, &statements
}

func TestMinutesRepository_SaveUpsertsOnSessionID(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewMinutesRepository(db)

	record := entities.NewMinutesRecord("s-1", entities.MinutesDocument{
		MeetingTitle: "Weekly sync",
		MeetingDate:  "2024-03-11",
		Summary:      "Team agreed to ship Friday.",
	})
	require.NoError(t, repo.Save(context.Background(), record))

	require.Len(t, *statements, 1)
	sql := (*statements)[0]
	assert.Contains(t, sql, `INSERT INTO "minutes"`)
	assert.Contains(t, sql, `'s-1'`)
	assert.Contains(t, sql, `ON CONFLICT ("session_id") DO UPDATE SET`)
	assert.Contains(t, sql, `"meeting_title"='Weekly sync'`)
	assert.Contains(t, sql, `"meeting_date"='2024-03-11'`)
	assert.Contains(t, sql, `"revision"=minutes.revision + 1`)
	assert.Contains(t, sql, `"updated_at"=NOW()`)
	assert.NotContains(t, sql, `"session_id"=`)
	assert.NotContains(t, sql, `"created_at"=`)
}

func TestMinutesRepository_SaveNil(t *testing.T) {
	db, statements := dryRunDB(t)

	err := NewMinutesRepository(db).Save(context.Background(), nil)

	assert.Error(t, err)
	assert.Empty(t, *statements)
}

func TestMinutesRepository_ListOrdersByMostRecent(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewMinutesRepository(db)
	ctx := context.Background()

	_, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	_, err = repo.List(ctx, 5, 10)
	require.NoError(t, err)

	require.Len(t, *statements, 2)
	assert.Contains(t, (*statements)[0], `ORDER BY updated_at DESC LIMIT 20`)
	assert.NotContains(t, (*statements)[0], "OFFSET")
	assert.Contains(t, (*statements)[1], `ORDER BY updated_at DESC LIMIT 5 OFFSET 10`)
}

func TestMinutesRepository_SessionScopedStatements(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewMinutesRepository(db)
	ctx := context.Background()

	_, err := repo.FindBySessionID(ctx, "s-1")
	require.NoError(t, err)
	require.NoError(t, repo.DeleteBySessionID(ctx, "s-1"))
	_, err = repo.Count(ctx)
	require.NoError(t, err)

	require.Len(t, *statements, 3)
	assert.Contains(t, (*statements)[0], `FROM "minutes" WHERE session_id = 's-1'`)
	assert.Contains(t, (*statements)[1], `DELETE FROM "minutes" WHERE session_id = 's-1'`)
	assert.Contains(t, (*statements)[2], `SELECT count(*) FROM "minutes"`)
}
