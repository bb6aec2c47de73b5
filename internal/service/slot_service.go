package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"parkwise/internal/auth"
	"parkwise/internal/db"
	apperrors "parkwise/internal/errors"
	"parkwise/internal/repository"
)

const maxBulkSlots = 500

type SlotService struct {
	repo repository.Store
}

func NewSlotService(repo repository.Store) *SlotService {
	return &SlotService{repo: repo}
}

type SlotInput struct {
	SlotNumber  string
	Size        db.SizeClass
	VehicleType db.VehicleType
	Location    db.Location
}

func (in SlotInput) validate() error {
	if strings.TrimSpace(in.SlotNumber) == "" {
		return apperrors.New(apperrors.KindInvalidInput, "slot number required")
	}
	if !in.Size.Valid() {
		return apperrors.New(apperrors.KindInvalidInput, "size must be SMALL, MEDIUM or LARGE")
	}
	if !in.VehicleType.Valid() {
		return apperrors.New(apperrors.KindInvalidInput, "vehicle type must be CAR, MOTORCYCLE or TRUCK")
	}
	if !in.Location.Valid() {
		return apperrors.New(apperrors.KindInvalidInput, "location must be NORTH, SOUTH, EAST or WEST")
	}
	return nil
}

func (s *SlotService) Create(ctx context.Context, actor auth.Identity, in SlotInput) (*db.ParkingSlot, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.New(apperrors.KindForbidden, "administrator role required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	slot := &db.ParkingSlot{
		ID:          uuid.NewString(),
		SlotNumber:  strings.TrimSpace(in.SlotNumber),
		Size:        in.Size,
		VehicleType: in.VehicleType,
		Location:    in.Location,
		Status:      db.SlotAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateSlot(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

type BulkSlotInput struct {
	Prefix      string
	StartNumber int
	Count       int
	Size        db.SizeClass
	VehicleType db.VehicleType
	Location    db.Location
}

// CreateBulk generates Count slots numbered prefix + zero-padded sequence.
// The batch is all-or-nothing: one colliding number fails the whole call.
func (s *SlotService) CreateBulk(ctx context.Context, actor auth.Identity, in BulkSlotInput) ([]db.ParkingSlot, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.New(apperrors.KindForbidden, "administrator role required")
	}
	if in.StartNumber < 1 {
		return nil, apperrors.New(apperrors.KindInvalidInput, "start number must be at least 1")
	}
	if in.Count < 1 || in.Count > maxBulkSlots {
		return nil, apperrors.New(apperrors.KindInvalidInput, fmt.Sprintf("count must be between 1 and %d", maxBulkSlots))
	}
	probe := SlotInput{SlotNumber: "probe", Size: in.Size, VehicleType: in.VehicleType, Location: in.Location}
	if err := probe.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	slots := make([]*db.ParkingSlot, 0, in.Count)
	for i := 0; i < in.Count; i++ {
		slots = append(slots, &db.ParkingSlot{
			ID:          uuid.NewString(),
			SlotNumber:  fmt.Sprintf("%s%03d", in.Prefix, in.StartNumber+i),
			Size:        in.Size,
			VehicleType: in.VehicleType,
			Location:    in.Location,
			Status:      db.SlotAvailable,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	if err := s.repo.CreateSlots(ctx, slots); err != nil {
		return nil, err
	}
	out := make([]db.ParkingSlot, len(slots))
	for i, slot := range slots {
		out[i] = *slot
	}
	return out, nil
}

func (s *SlotService) Get(ctx context.Context, id string) (*db.ParkingSlot, error) {
	return s.repo.GetSlot(ctx, id)
}

func (s *SlotService) List(ctx context.Context, f repository.SlotFilter, page repository.Page) ([]db.ParkingSlot, int, error) {
	return s.repo.ListSlots(ctx, f, page)
}

type UpdateSlotInput struct {
	SlotNumber  string
	Size        db.SizeClass
	VehicleType db.VehicleType
	Location    db.Location
}

// Update changes a slot's static attributes. Status is never set here: the
// allocation engine owns bind/release, and SetMaintenance owns the
// administrator toggle.
func (s *SlotService) Update(ctx context.Context, actor auth.Identity, id string, in UpdateSlotInput) (*db.ParkingSlot, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.New(apperrors.KindForbidden, "administrator role required")
	}
	slot, err := s.repo.GetSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	if n := strings.TrimSpace(in.SlotNumber); n != "" {
		slot.SlotNumber = n
	}
	if in.Size != "" {
		if !in.Size.Valid() {
			return nil, apperrors.New(apperrors.KindInvalidInput, "size must be SMALL, MEDIUM or LARGE")
		}
		slot.Size = in.Size
	}
	if in.VehicleType != "" {
		if !in.VehicleType.Valid() {
			return nil, apperrors.New(apperrors.KindInvalidInput, "vehicle type must be CAR, MOTORCYCLE or TRUCK")
		}
		slot.VehicleType = in.VehicleType
	}
	if in.Location != "" {
		if !in.Location.Valid() {
			return nil, apperrors.New(apperrors.KindInvalidInput, "location must be NORTH, SOUTH, EAST or WEST")
		}
		slot.Location = in.Location
	}
	slot.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateSlot(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// SetMaintenance toggles a slot in or out of MAINTENANCE. A slot that is
// OCCUPIED or RESERVED cannot be toggled.
func (s *SlotService) SetMaintenance(ctx context.Context, actor auth.Identity, id string, on bool) (*db.ParkingSlot, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.New(apperrors.KindForbidden, "administrator role required")
	}
	slot, err := s.repo.GetSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot.Status == db.SlotOccupied || slot.Status == db.SlotReserved {
		return nil, apperrors.New(apperrors.KindSlotInUse, "slot is "+string(slot.Status))
	}

	from, to := db.SlotAvailable, db.SlotMaintenance
	if !on {
		from, to = db.SlotMaintenance, db.SlotAvailable
	}
	if slot.Status == to {
		return slot, nil
	}
	if err := s.repo.SetSlotStatus(ctx, id, from, to); err != nil {
		// Lost a race with an approval that grabbed the slot first.
		if apperrors.KindOf(err) == apperrors.KindInvalidSlotState {
			return nil, apperrors.New(apperrors.KindSlotInUse, "slot is no longer available")
		}
		return nil, err
	}
	return s.repo.GetSlot(ctx, id)
}

func (s *SlotService) Delete(ctx context.Context, actor auth.Identity, id string) error {
	if !actor.IsAdmin() {
		return apperrors.New(apperrors.KindForbidden, "administrator role required")
	}
	return s.repo.DeleteSlot(ctx, id)
}
