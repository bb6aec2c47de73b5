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

func TestCreateVehicleNormalizesPlate(t *testing.T) {
	f := newFixture(t)
	v, err := f.vehicles.Create(context.Background(), f.user, VehicleInput{
		PlateNumber: "  rab 123 a ",
		VehicleType: db.VehicleTypeCar,
		Size:        db.SizeMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, "RAB 123 A", v.PlateNumber)
	assert.Equal(t, f.user.UserID, v.UserID)
}

func TestCreateVehicleDuplicatePlateSameOwner(t *testing.T) {
	f := newFixture(t)
	f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)

	_, err := f.vehicles.Create(context.Background(), f.user, VehicleInput{
		PlateNumber: "RAB 123 A",
		VehicleType: db.VehicleTypeCar,
		Size:        db.SizeMedium,
	})
	assert.Equal(t, apperrors.KindDuplicatePlate, apperrors.KindOf(err))
}

func TestCreateVehicleSamePlateDifferentOwner(t *testing.T) {
	f := newFixture(t)
	other := f.addUser(t, "other@parkwise.test", db.RoleUser)
	f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)

	_, err := f.vehicles.Create(context.Background(), other, VehicleInput{
		PlateNumber: "RAB 123 A",
		VehicleType: db.VehicleTypeCar,
		Size:        db.SizeMedium,
	})
	assert.NoError(t, err)
}

func TestCreateVehicleRejectsBadEnums(t *testing.T) {
	f := newFixture(t)
	_, err := f.vehicles.Create(context.Background(), f.user, VehicleInput{
		PlateNumber: "RAB 123 A",
		VehicleType: "BICYCLE",
		Size:        db.SizeMedium,
	})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestGetVehicleOwnership(t *testing.T) {
	f := newFixture(t)
	other := f.addUser(t, "other@parkwise.test", db.RoleUser)
	v := f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)

	_, err := f.vehicles.Get(context.Background(), other, v.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	got, err := f.vehicles.Get(context.Background(), f.admin, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)
}

func TestDeleteVehicleWithActiveRequest(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)
	f.pendingRequest(t, f.user, v.ID, "")

	err := f.vehicles.Delete(context.Background(), f.user, v.ID)
	assert.Equal(t, apperrors.KindVehicleInUse, apperrors.KindOf(err))
}

func TestDeleteVehicleAfterRejection(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)
	req := f.pendingRequest(t, f.user, v.ID, "")

	_, err := f.alloc.Reject(context.Background(), f.admin, req.ID, "lot closed")
	require.NoError(t, err)

	assert.NoError(t, f.vehicles.Delete(context.Background(), f.user, v.ID))
}

func TestCompatibleAttributes(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeTruck, db.SizeLarge)

	size, vt, err := f.vehicles.CompatibleAttributes(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, db.SizeLarge, size)
	assert.Equal(t, db.VehicleTypeTruck, vt)

	_, _, err = f.vehicles.CompatibleAttributes(context.Background(), "missing")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestListVehiclesScopedToOwner(t *testing.T) {
	f := newFixture(t)
	other := f.addUser(t, "other@parkwise.test", db.RoleUser)
	f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)
	f.addVehicle(t, other, "RAB 456 B", db.VehicleTypeTruck, db.SizeLarge)

	mine, total, err := f.vehicles.List(context.Background(), f.user, repository.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, f.user.UserID, mine[0].UserID)

	all, total, err := f.vehicles.List(context.Background(), f.admin, repository.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 2)
}
