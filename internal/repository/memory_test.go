package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwise/internal/db"
	apperrors "parkwise/internal/errors"
)

func seedSlots(t *testing.T, m *MemoryStore, n int) {
	t.Helper()
	now := time.Now().UTC()
	for i := 1; i <= n; i++ {
		require.NoError(t, m.CreateSlot(context.Background(), &db.ParkingSlot{
			ID:          fmt.Sprintf("slot-%03d", i),
			SlotNumber:  fmt.Sprintf("A-%03d", i),
			Size:        db.SizeMedium,
			VehicleType: db.VehicleTypeCar,
			Location:    db.LocationNorth,
			Status:      db.SlotAvailable,
			CreatedAt:   now,
			UpdatedAt:   now,
		}))
	}
}

func TestListSlotsPagination(t *testing.T) {
	m := NewMemoryStore()
	seedSlots(t, m, 25)

	slots, total, err := m.ListSlots(context.Background(), SlotFilter{}, Page{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, slots, 5)
	assert.Equal(t, "A-021", slots[0].SlotNumber)

	// past the end is an empty page, not an error
	slots, total, err = m.ListSlots(context.Background(), SlotFilter{}, Page{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Empty(t, slots)
}

func TestPageNormClampsLimit(t *testing.T) {
	p := Page{Page: 0, Limit: 1000}.Norm()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)

	p = Page{Page: 2, Limit: 50}.Norm()
	assert.Equal(t, 50, p.Limit)
	assert.Equal(t, 50, Page{Page: 2, Limit: 50}.Offset())
}

func TestBindSlotIsConditional(t *testing.T) {
	m := NewMemoryStore()
	seedSlots(t, m, 1)

	require.NoError(t, m.BindSlot(context.Background(), "slot-001"))
	err := m.BindSlot(context.Background(), "slot-001")
	assert.Equal(t, apperrors.KindInvalidSlotState, apperrors.KindOf(err))

	require.NoError(t, m.ReleaseSlot(context.Background(), "slot-001"))
	err = m.ReleaseSlot(context.Background(), "slot-001")
	assert.Equal(t, apperrors.KindInvalidSlotState, apperrors.KindOf(err))
}

func TestCreateSlotsRollsBackOnConflict(t *testing.T) {
	m := NewMemoryStore()
	seedSlots(t, m, 1)
	now := time.Now().UTC()

	batch := []*db.ParkingSlot{
		{ID: "new-1", SlotNumber: "B-001", Size: db.SizeMedium, VehicleType: db.VehicleTypeCar, Location: db.LocationNorth, Status: db.SlotAvailable, CreatedAt: now, UpdatedAt: now},
		{ID: "new-2", SlotNumber: "A-001", Size: db.SizeMedium, VehicleType: db.VehicleTypeCar, Location: db.LocationNorth, Status: db.SlotAvailable, CreatedAt: now, UpdatedAt: now},
	}
	err := m.CreateSlots(context.Background(), batch)
	assert.Equal(t, apperrors.KindBulkCreateConflict, apperrors.KindOf(err))

	_, err = m.GetSlot(context.Background(), "new-1")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestFindCompatibleOrdersPreferredFirst(t *testing.T) {
	m := NewMemoryStore()
	now := time.Now().UTC()
	add := func(id, number string, loc db.Location) {
		require.NoError(t, m.CreateSlot(context.Background(), &db.ParkingSlot{
			ID: id, SlotNumber: number, Size: db.SizeMedium, VehicleType: db.VehicleTypeCar,
			Location: loc, Status: db.SlotAvailable, CreatedAt: now, UpdatedAt: now,
		}))
	}
	add("s1", "A-001", db.LocationSouth)
	add("s2", "A-002", db.LocationNorth)
	add("s3", "A-003", db.LocationNorth)

	found, err := m.FindCompatible(context.Background(), db.VehicleTypeCar, db.SizeMedium, db.LocationNorth, 2)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "A-002", found[0].SlotNumber)
	assert.Equal(t, "A-003", found[1].SlotNumber)

	// no preference falls back to slot number order
	found, err = m.FindCompatible(context.Background(), db.VehicleTypeCar, db.SizeMedium, "", 1)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "A-001", found[0].SlotNumber)
}
