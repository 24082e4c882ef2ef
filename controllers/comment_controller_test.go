package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talk-back/api-go/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newDryRunDB builds SQL statements without touching a real database.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestActiveCommentScopeHidesBannedComments(t *testing.T) {
	db := newDryRunDB(t)

	var comment models.Comment
	tx := db.Scopes(activeComment("7", "42")).Find(&comment)

	sql := tx.Statement.SQL.String()
	assert.Contains(t, sql, "status")
	assert.Contains(t, tx.Statement.Vars, models.StatusActive)
	assert.Contains(t, tx.Statement.Vars, "42")
	assert.Contains(t, tx.Statement.Vars, "7")
}

func TestCommentStatsQueryUsesHalfOpenInterval(t *testing.T) {
	db := newDryRunDB(t)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)

	var out []struct {
		Date           time.Time
		TotalComments  int64
		BannedComments int64
	}
	tx := commentStatsQuery(db, 7, from, to).Scan(&out)

	sql := tx.Statement.SQL.String()
	assert.NotContains(t, sql, "created_at <=")
	assert.Contains(t, sql, "created_at <")
	assert.Contains(t, tx.Statement.Vars, from)
	// The upper bound is midnight after "to", excluded from the range.
	assert.Contains(t, tx.Statement.Vars, to.AddDate(0, 0, 1))
}
