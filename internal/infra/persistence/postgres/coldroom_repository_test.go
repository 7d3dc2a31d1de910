package postgres

import (
	"context"
	"encoding/json"
	"testing"

	"coldstore/internal/domain/entity"
	"coldstore/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// newDryRunDB opens a GORM session that builds statements without executing
// them, and registers a callback that captures the generated update SQL.
func newDryRunDB(t *testing.T) (*gorm.DB, *string) {
	t.Helper()

	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	var capturedSQL string
	err = db.Callback().Update().After("gorm:update").Register("capture_update_sql", func(tx *gorm.DB) {
		capturedSQL = tx.Statement.SQL.String()
	})
	require.NoError(t, err)

	return db, &capturedSQL
}

func TestColdRoomRepository_Update_WritesZeroValuedColumns(t *testing.T) {
	db, capturedSQL := newDryRunDB(t)
	repo := NewColdRoomRepository(db)

	// A patch that zeroes temp_min and empties the description must still
	// reach the store; the handler echoes the patched entity back.
	room := &entity.ColdRoom{
		ID:                   uuid.New(),
		OwnerID:              uuid.New(),
		Name:                 "Harbor Cold Store",
		Description:          "",
		Address:              "1 Quay Road",
		Latitude:             0,
		Longitude:            9.98,
		CapacityKg:           5000,
		PricePerKgPerMonth:   1.25,
		Features:             []string{"backup generator"},
		TempMin:              0,
		TempMax:              4,
		TempUnit:             entity.TemperatureCelsius,
		AvailabilitySchedule: json.RawMessage(`{"always":true}`),
	}

	// The dry run touches no rows, so the not-found mapping fires. The
	// statement itself is still built and captured.
	err := repo.Update(context.Background(), room)
	require.ErrorIs(t, err, repository.ErrColdRoomNotFound)

	require.NotEmpty(t, *capturedSQL)
	assert.Contains(t, *capturedSQL, "temp_min")
	assert.Contains(t, *capturedSQL, "description")
	assert.Contains(t, *capturedSQL, "latitude")
	assert.Contains(t, *capturedSQL, "temp_max")
	assert.Contains(t, *capturedSQL, "availability_schedule")
}

func TestColdRoomRepository_Update_LeavesOwnerAndCreationUntouched(t *testing.T) {
	db, capturedSQL := newDryRunDB(t)
	repo := NewColdRoomRepository(db)

	room := &entity.ColdRoom{
		ID:         uuid.New(),
		OwnerID:    uuid.New(),
		Name:       "Harbor Cold Store",
		CapacityKg: 5000,
		TempMin:    -20,
		TempMax:    -5,
		TempUnit:   entity.TemperatureCelsius,
	}

	err := repo.Update(context.Background(), room)
	require.ErrorIs(t, err, repository.ErrColdRoomNotFound)

	require.NotEmpty(t, *capturedSQL)
	assert.NotContains(t, *capturedSQL, "owner_id")
	assert.NotContains(t, *capturedSQL, "created_at")
}
