package repository

import (
	"context"
	"time"

	"parkwise/internal/db"
)

// Page carries the common list parameters coming from the API layer.
type Page struct {
	Page   int
	Limit  int
	Search string
}

func (p Page) Offset() int {
	page := p.Page
	if page <= 0 {
		page = 1
	}
	return (page - 1) * p.Norm().Limit
}

// Norm clamps page and limit to sane values.
func (p Page) Norm() Page {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 10
	}
	return p
}

type SlotFilter struct {
	Size        db.SizeClass
	VehicleType db.VehicleType
	Location    db.Location
	Status      db.SlotStatus
}

type RequestFilter struct {
	Status db.RequestStatus
	UserID string
}

type VehicleFilter struct {
	UserID string
}

// ExpiredBinding pairs an approved request with the slot it still occupies
// after its end window has passed.
type ExpiredBinding struct {
	RequestID string
	SlotID    string
}

type UserStore interface {
	CreateUser(ctx context.Context, u *db.User) error
	GetUser(ctx context.Context, id string) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	UpdateUser(ctx context.Context, u *db.User) error
	ListUsers(ctx context.Context, page Page) ([]db.User, int, error)
}

type VehicleStore interface {
	CreateVehicle(ctx context.Context, v *db.Vehicle) error
	GetVehicle(ctx context.Context, id string) (*db.Vehicle, error)
	UpdateVehicle(ctx context.Context, v *db.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
	ListVehicles(ctx context.Context, f VehicleFilter, page Page) ([]db.Vehicle, int, error)
}

type SlotStore interface {
	CreateSlot(ctx context.Context, s *db.ParkingSlot) error
	// CreateSlots inserts all slots or none: any slot number collision
	// rolls the whole batch back.
	CreateSlots(ctx context.Context, slots []*db.ParkingSlot) error
	GetSlot(ctx context.Context, id string) (*db.ParkingSlot, error)
	UpdateSlot(ctx context.Context, s *db.ParkingSlot) error
	DeleteSlot(ctx context.Context, id string) error
	ListSlots(ctx context.Context, f SlotFilter, page Page) ([]db.ParkingSlot, int, error)

	// FindCompatible returns AVAILABLE slots matching the vehicle's type and
	// size, preferred-location matches first, then by slot number.
	FindCompatible(ctx context.Context, vehicleType db.VehicleType, size db.SizeClass, preferred db.Location, limit int) ([]db.ParkingSlot, error)

	// BindSlot transitions AVAILABLE -> OCCUPIED as an atomic check-and-set.
	BindSlot(ctx context.Context, id string) error
	// ReleaseSlot transitions OCCUPIED or RESERVED -> AVAILABLE.
	ReleaseSlot(ctx context.Context, id string) error
	// SetSlotStatus transitions between the two administrator-controlled
	// states, conditionally on the current status.
	SetSlotStatus(ctx context.Context, id string, from, to db.SlotStatus) error
}

type RequestStore interface {
	CreateRequest(ctx context.Context, r *db.SlotRequest) error
	GetRequest(ctx context.Context, id string) (*db.SlotRequest, error)
	DeleteRequest(ctx context.Context, id string) error
	ListRequests(ctx context.Context, f RequestFilter, page Page) ([]db.SlotRequest, int, error)

	// HasActiveRequest reports whether the vehicle already has a PENDING or
	// APPROVED request.
	HasActiveRequest(ctx context.Context, vehicleID string) (bool, error)

	// MarkApproved sets status=APPROVED and the assigned slot, conditionally
	// on the request still being PENDING.
	MarkApproved(ctx context.Context, id, slotID string) error
	// MarkRejected sets status=REJECTED with the reason, conditionally on
	// the request still being PENDING.
	MarkRejected(ctx context.Context, id, reason string) error

	// ListExpiredBindings returns approved requests whose end window passed
	// while their slot is still OCCUPIED.
	ListExpiredBindings(ctx context.Context, now time.Time) ([]ExpiredBinding, error)
}

type LogStore interface {
	AppendLog(ctx context.Context, l *db.Log) error
	ListLogs(ctx context.Context, page Page) ([]db.Log, int, error)
}

// Store is the full persistence surface the services are wired against.
type Store interface {
	UserStore
	VehicleStore
	SlotStore
	RequestStore
	LogStore
}
