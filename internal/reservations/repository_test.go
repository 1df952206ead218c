package reservations

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=parkly dbname=parkly",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

// Capacity decisions rely on the venue/reservation row being locked for
// the duration of the transaction; the generated SELECT must carry the
// locking clause or concurrent creates race past the overlap check.
func TestCapacityReadsTakeRowLocks(t *testing.T) {
	db := newDryRunDB(t)

	var reservation Reservation
	stmt := db.Clauses(lockForUpdate).Where("id = ?", uuid.New()).Find(&reservation).Statement
	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")

	var venue struct {
		ID             uuid.UUID `gorm:"column:id"`
		TotalSpots     int       `gorm:"column:total_spots"`
		AvailableSpots int       `gorm:"column:available_spots"`
		Status         string    `gorm:"column:status"`
	}
	stmt = db.Table("venues").
		Select("id, total_spots, available_spots, status").
		Where("id = ?", uuid.New()).
		Clauses(lockForUpdate).
		Find(&venue).Statement
	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")
}
