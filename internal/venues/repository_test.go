package venues

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// The capacity-change guard only holds if the venue row stays locked
// while reserved spots are recounted; the SELECT must carry the locking
// clause.
func TestCapacityChangeReadTakesRowLock(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=parkly dbname=parkly",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	var venue Venue
	stmt := db.Clauses(lockForUpdate).Where("id = ?", uuid.New()).Find(&venue).Statement
	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")
}
