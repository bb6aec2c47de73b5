package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"parkwise/internal/auth"
	"parkwise/internal/db"
	"parkwise/internal/repository"
)

type fixture struct {
	repo     *repository.MemoryStore
	users    *UserService
	vehicles *VehicleService
	slots    *SlotService
	requests *RequestService
	alloc    *AllocationService

	admin auth.Identity
	user  auth.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := repository.NewMemoryStore()
	f := &fixture{
		repo:     repo,
		users:    NewUserService(repo, "test-secret"),
		vehicles: NewVehicleService(repo),
		slots:    NewSlotService(repo),
		requests: NewRequestService(repo, NopNotifier{}),
		alloc:    NewAllocationService(repo, NopNotifier{}),
	}
	f.admin = f.addUser(t, "admin@parkwise.test", db.RoleAdmin)
	f.user = f.addUser(t, "driver@parkwise.test", db.RoleUser)
	return f
}

func (f *fixture) addUser(t *testing.T, email string, role db.Role) auth.Identity {
	t.Helper()
	now := time.Now().UTC()
	u := &db.User{
		ID:           uuid.NewString(),
		Name:         email,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.repo.CreateUser(context.Background(), u))
	return auth.Identity{UserID: u.ID, Role: role}
}

func (f *fixture) addVehicle(t *testing.T, owner auth.Identity, plate string, vt db.VehicleType, size db.SizeClass) *db.Vehicle {
	t.Helper()
	v, err := f.vehicles.Create(context.Background(), owner, VehicleInput{
		PlateNumber: plate,
		VehicleType: vt,
		Size:        size,
	})
	require.NoError(t, err)
	return v
}

func (f *fixture) addSlot(t *testing.T, number string, size db.SizeClass, vt db.VehicleType, loc db.Location) *db.ParkingSlot {
	t.Helper()
	s, err := f.slots.Create(context.Background(), f.admin, SlotInput{
		SlotNumber:  number,
		Size:        size,
		VehicleType: vt,
		Location:    loc,
	})
	require.NoError(t, err)
	return s
}

func pageOne() repository.Page {
	return repository.Page{Page: 1, Limit: 10}
}

func (f *fixture) pendingRequest(t *testing.T, owner auth.Identity, vehicleID string, preferred db.Location) *db.SlotRequest {
	t.Helper()
	req, err := f.requests.Create(context.Background(), owner, RequestInput{
		VehicleID:         vehicleID,
		PreferredLocation: preferred,
	})
	require.NoError(t, err)
	return req
}
