package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwise/internal/db"
	apperrors "parkwise/internal/errors"
	"parkwise/internal/repository"
)

func TestCreateRequestStartsPending(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)

	req := f.pendingRequest(t, f.user, v.ID, db.LocationNorth)
	assert.Equal(t, db.RequestPending, req.Status)
	assert.Equal(t, f.user.UserID, req.UserID)
	assert.Empty(t, req.SlotID)
}

func TestCreateRequestForSomeoneElsesVehicle(t *testing.T) {
	f := newFixture(t)
	other := f.addUser(t, "other@parkwise.test", db.RoleUser)
	v := f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)

	_, err := f.requests.Create(context.Background(), other, RequestInput{VehicleID: v.ID})
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestCreateRequestVehicleAlreadyRequesting(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)
	f.pendingRequest(t, f.user, v.ID, "")

	_, err := f.requests.Create(context.Background(), f.user, RequestInput{VehicleID: v.ID})
	assert.Equal(t, apperrors.KindVehicleAlreadyRequesting, apperrors.KindOf(err))
}

func TestCreateRequestBlockedWhileApproved(t *testing.T) {
	f := newFixture(t)
	f.addSlot(t, "A-001", db.SizeMedium, db.VehicleTypeCar, db.LocationNorth)
	v := f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)
	req := f.pendingRequest(t, f.user, v.ID, "")

	_, err := f.alloc.Approve(context.Background(), f.admin, req.ID, "")
	require.NoError(t, err)

	_, err = f.requests.Create(context.Background(), f.user, RequestInput{VehicleID: v.ID})
	assert.Equal(t, apperrors.KindVehicleAlreadyRequesting, apperrors.KindOf(err))
}

func TestCreateRequestAllowedAfterRejection(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)
	req := f.pendingRequest(t, f.user, v.ID, "")

	_, err := f.alloc.Reject(context.Background(), f.admin, req.ID, "lot closed")
	require.NoError(t, err)

	_, err = f.requests.Create(context.Background(), f.user, RequestInput{VehicleID: v.ID})
	assert.NoError(t, err)
}

func TestCreateRequestInvalidWindow(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)

	start := time.Now().Add(2 * time.Hour)
	end := start.Add(-time.Hour)
	_, err := f.requests.Create(context.Background(), f.user, RequestInput{
		VehicleID: v.ID,
		StartTime: &start,
		EndTime:   &end,
	})
	assert.Equal(t, apperrors.KindInvalidWindow, apperrors.KindOf(err))
}

func TestDeleteRequestOwnerRules(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(t, "A-001", db.SizeMedium, db.VehicleTypeCar, db.LocationNorth)
	v := f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)
	req := f.pendingRequest(t, f.user, v.ID, "")

	_, err := f.alloc.Approve(context.Background(), f.admin, req.ID, "")
	require.NoError(t, err)

	// owner cannot cancel once a decision was made
	err = f.requests.Delete(context.Background(), f.user, req.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	// but an administrator can remove the record
	assert.NoError(t, f.requests.Delete(context.Background(), f.admin, req.ID))

	// deleting the approved record must free its slot, or nothing ever will
	got, err := f.slots.Get(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, db.SlotAvailable, got.Status)
}

func TestDeleteApprovedRequestAfterRelease(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(t, "A-001", db.SizeMedium, db.VehicleTypeCar, db.LocationNorth)
	v := f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)
	req := f.pendingRequest(t, f.user, v.ID, "")

	_, err := f.alloc.Approve(context.Background(), f.admin, req.ID, "")
	require.NoError(t, err)
	require.NoError(t, f.alloc.Release(context.Background(), f.admin, req.ID))

	// the slot was already released out of band; deleting must still work
	require.NoError(t, f.requests.Delete(context.Background(), f.admin, req.ID))

	got, err := f.slots.Get(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, db.SlotAvailable, got.Status)
}

func TestDeleteRequestPendingByOwner(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)
	req := f.pendingRequest(t, f.user, v.ID, "")

	require.NoError(t, f.requests.Delete(context.Background(), f.user, req.ID))

	// the vehicle is free to request again
	_, err := f.requests.Create(context.Background(), f.user, RequestInput{VehicleID: v.ID})
	assert.NoError(t, err)
}

func TestListRequestsScopedToOwner(t *testing.T) {
	f := newFixture(t)
	other := f.addUser(t, "other@parkwise.test", db.RoleUser)
	v1 := f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)
	v2 := f.addVehicle(t, other, "RAB 456 B", db.VehicleTypeCar, db.SizeMedium)
	f.pendingRequest(t, f.user, v1.ID, "")
	f.pendingRequest(t, other, v2.ID, "")

	mine, total, err := f.requests.List(context.Background(), f.user, repository.RequestFilter{}, repository.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, f.user.UserID, mine[0].UserID)

	_, total, err = f.requests.List(context.Background(), f.admin, repository.RequestFilter{}, repository.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestAuditTrailRecordsLifecycle(t *testing.T) {
	f := newFixture(t)
	f.addSlot(t, "A-001", db.SizeMedium, db.VehicleTypeCar, db.LocationNorth)
	v := f.addVehicle(t, f.user, "RAB 123 A", db.VehicleTypeCar, db.SizeMedium)
	req := f.pendingRequest(t, f.user, v.ID, "")

	_, err := f.alloc.Approve(context.Background(), f.admin, req.ID, "")
	require.NoError(t, err)

	logs, total, err := f.requests.ListLogs(context.Background(), f.admin, repository.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	actions := []string{logs[0].Action, logs[1].Action}
	assert.Contains(t, actions, ActionRequestCreated)
	assert.Contains(t, actions, ActionRequestApproved)

	_, _, err = f.requests.ListLogs(context.Background(), f.user, repository.Page{})
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}
