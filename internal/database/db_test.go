package database

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iliyamo/movie-ticketing/internal/model"
)

func TestBinaryCollationDDL(t *testing.T) {
	stmts := binaryCollationDDL()
	require.Len(t, stmts, 2)
	for i, col := range []string{"username", "email"} {
		assert.True(t, strings.HasPrefix(stmts[i], "ALTER TABLE users MODIFY "+col+" "), stmts[i])
		assert.Contains(t, stmts[i], "VARCHAR(191) NOT NULL")
		assert.True(t, strings.HasSuffix(stmts[i], "COLLATE utf8mb4_bin"), stmts[i])
	}
}

func TestMigrateSQLiteIsRepeatable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(SQLiteDSN(filepath.Join(t.TempDir(), "test.db"))), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "movies", "theaters", "tickets", "reviews"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// SQLite compares text byte-for-byte, so a case-only difference is a new user.
	require.NoError(t, db.Create(&model.User{Username: "Alice", Email: "a@x.io", PasswordHash: "h"}).Error)
	require.NoError(t, db.Create(&model.User{Username: "alice", Email: "A@x.io", PasswordHash: "h"}).Error)
	var n int64
	require.NoError(t, db.Model(&model.User{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}
