package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwise/internal/db"
	apperrors "parkwise/internal/errors"
	"parkwise/internal/repository"
)

func TestCreateSlotRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	_, err := f.slots.Create(context.Background(), f.user, SlotInput{
		SlotNumber:  "A-001",
		Size:        db.SizeMedium,
		VehicleType: db.VehicleTypeCar,
		Location:    db.LocationNorth,
	})
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestCreateSlotDuplicateNumber(t *testing.T) {
	f := newFixture(t)
	f.addSlot(t, "A-001", db.SizeMedium, db.VehicleTypeCar, db.LocationNorth)

	_, err := f.slots.Create(context.Background(), f.admin, SlotInput{
		SlotNumber:  "A-001",
		Size:        db.SizeLarge,
		VehicleType: db.VehicleTypeTruck,
		Location:    db.LocationSouth,
	})
	assert.Equal(t, apperrors.KindDuplicateSlotNumber, apperrors.KindOf(err))
}

func TestCreateBulkNumbersSequentially(t *testing.T) {
	f := newFixture(t)
	slots, err := f.slots.CreateBulk(context.Background(), f.admin, BulkSlotInput{
		Prefix:      "A-",
		StartNumber: 1,
		Count:       5,
		Size:        db.SizeMedium,
		VehicleType: db.VehicleTypeCar,
		Location:    db.LocationNorth,
	})
	require.NoError(t, err)
	require.Len(t, slots, 5)
	assert.Equal(t, "A-001", slots[0].SlotNumber)
	assert.Equal(t, "A-005", slots[4].SlotNumber)
	for _, s := range slots {
		assert.Equal(t, db.SlotAvailable, s.Status)
	}
}

func TestCreateBulkIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	f.addSlot(t, "A-003", db.SizeMedium, db.VehicleTypeCar, db.LocationNorth)

	_, err := f.slots.CreateBulk(context.Background(), f.admin, BulkSlotInput{
		Prefix:      "A-",
		StartNumber: 1,
		Count:       5,
		Size:        db.SizeMedium,
		VehicleType: db.VehicleTypeCar,
		Location:    db.LocationNorth,
	})
	assert.Equal(t, apperrors.KindBulkCreateConflict, apperrors.KindOf(err))

	// nothing from the failed batch may remain
	_, total, err := f.slots.List(context.Background(), repository.SlotFilter{}, repository.Page{Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestUpdateSlotNeverTouchesStatus(t *testing.T) {
	f := newFixture(t)
	s := f.addSlot(t, "A-001", db.SizeMedium, db.VehicleTypeCar, db.LocationNorth)
	require.NoError(t, f.repo.BindSlot(context.Background(), s.ID))

	updated, err := f.slots.Update(context.Background(), f.admin, s.ID, UpdateSlotInput{
		SlotNumber:  "B-001",
		Size:        db.SizeLarge,
		VehicleType: db.VehicleTypeCar,
		Location:    db.LocationSouth,
	})
	require.NoError(t, err)
	assert.Equal(t, "B-001", updated.SlotNumber)
	assert.Equal(t, db.SlotOccupied, updated.Status)
}

func TestSetMaintenance(t *testing.T) {
	f := newFixture(t)
	s := f.addSlot(t, "A-001", db.SizeMedium, db.VehicleTypeCar, db.LocationNorth)

	got, err := f.slots.SetMaintenance(context.Background(), f.admin, s.ID, true)
	require.NoError(t, err)
	assert.Equal(t, db.SlotMaintenance, got.Status)

	// toggling to the state the slot is already in is a no-op
	got, err = f.slots.SetMaintenance(context.Background(), f.admin, s.ID, true)
	require.NoError(t, err)
	assert.Equal(t, db.SlotMaintenance, got.Status)

	got, err = f.slots.SetMaintenance(context.Background(), f.admin, s.ID, false)
	require.NoError(t, err)
	assert.Equal(t, db.SlotAvailable, got.Status)
}

func TestSetMaintenanceOccupiedSlot(t *testing.T) {
	f := newFixture(t)
	s := f.addSlot(t, "A-001", db.SizeMedium, db.VehicleTypeCar, db.LocationNorth)
	require.NoError(t, f.repo.BindSlot(context.Background(), s.ID))

	_, err := f.slots.SetMaintenance(context.Background(), f.admin, s.ID, true)
	assert.Equal(t, apperrors.KindSlotInUse, apperrors.KindOf(err))
}

func TestDeleteSlot(t *testing.T) {
	f := newFixture(t)
	s := f.addSlot(t, "A-001", db.SizeMedium, db.VehicleTypeCar, db.LocationNorth)
	require.NoError(t, f.slots.Delete(context.Background(), f.admin, s.ID))

	_, err := f.slots.Get(context.Background(), s.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestDeleteOccupiedSlot(t *testing.T) {
	f := newFixture(t)
	s := f.addSlot(t, "A-001", db.SizeMedium, db.VehicleTypeCar, db.LocationNorth)
	require.NoError(t, f.repo.BindSlot(context.Background(), s.ID))

	err := f.slots.Delete(context.Background(), f.admin, s.ID)
	assert.Equal(t, apperrors.KindSlotInUse, apperrors.KindOf(err))
}

func TestListSlotsFilters(t *testing.T) {
	f := newFixture(t)
	f.addSlot(t, "A-001", db.SizeSmall, db.VehicleTypeMotorcycle, db.LocationNorth)
	f.addSlot(t, "A-002", db.SizeMedium, db.VehicleTypeCar, db.LocationSouth)
	f.addSlot(t, "A-003", db.SizeLarge, db.VehicleTypeTruck, db.LocationSouth)

	slots, total, err := f.slots.List(context.Background(), repository.SlotFilter{Location: db.LocationSouth}, repository.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, slots, 2)
	assert.Equal(t, "A-002", slots[0].SlotNumber)
}
