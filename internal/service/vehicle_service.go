package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"parkwise/internal/auth"
	"parkwise/internal/db"
	apperrors "parkwise/internal/errors"
	"parkwise/internal/repository"
)

// canAccess is the single permission predicate: owners act on their own
// records, administrators on anyone's.
func canAccess(actor auth.Identity, ownerID string) bool {
	return actor.IsAdmin() || actor.UserID == ownerID
}

type VehicleService struct {
	repo repository.Store
}

func NewVehicleService(repo repository.Store) *VehicleService {
	return &VehicleService{repo: repo}
}

type VehicleInput struct {
	PlateNumber string
	VehicleType db.VehicleType
	Size        db.SizeClass
	Color       string
	Model       string
}

func (in VehicleInput) validate() error {
	if strings.TrimSpace(in.PlateNumber) == "" {
		return apperrors.New(apperrors.KindInvalidInput, "plate number required")
	}
	if !in.VehicleType.Valid() {
		return apperrors.New(apperrors.KindInvalidInput, "vehicle type must be CAR, MOTORCYCLE or TRUCK")
	}
	if !in.Size.Valid() {
		return apperrors.New(apperrors.KindInvalidInput, "size must be SMALL, MEDIUM or LARGE")
	}
	return nil
}

func (s *VehicleService) Create(ctx context.Context, actor auth.Identity, in VehicleInput) (*db.Vehicle, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	v := &db.Vehicle{
		ID:          uuid.NewString(),
		UserID:      actor.UserID,
		PlateNumber: strings.ToUpper(strings.TrimSpace(in.PlateNumber)),
		VehicleType: in.VehicleType,
		Size:        in.Size,
		Color:       strings.TrimSpace(in.Color),
		Model:       strings.TrimSpace(in.Model),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateVehicle(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VehicleService) Get(ctx context.Context, actor auth.Identity, id string) (*db.Vehicle, error) {
	v, err := s.repo.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, v.UserID) {
		return nil, apperrors.New(apperrors.KindForbidden, "not your vehicle")
	}
	return v, nil
}

func (s *VehicleService) Update(ctx context.Context, actor auth.Identity, id string, in VehicleInput) (*db.Vehicle, error) {
	v, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	v.PlateNumber = strings.ToUpper(strings.TrimSpace(in.PlateNumber))
	v.VehicleType = in.VehicleType
	v.Size = in.Size
	v.Color = strings.TrimSpace(in.Color)
	v.Model = strings.TrimSpace(in.Model)
	v.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateVehicle(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes a vehicle unless a PENDING or APPROVED request still
// references it.
func (s *VehicleService) Delete(ctx context.Context, actor auth.Identity, id string) error {
	v, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	active, err := s.repo.HasActiveRequest(ctx, v.ID)
	if err != nil {
		return err
	}
	if active {
		return apperrors.New(apperrors.KindVehicleInUse, "vehicle has an active slot request")
	}
	return s.repo.DeleteVehicle(ctx, id)
}

func (s *VehicleService) List(ctx context.Context, actor auth.Identity, page repository.Page) ([]db.Vehicle, int, error) {
	f := repository.VehicleFilter{}
	if !actor.IsAdmin() {
		f.UserID = actor.UserID
	}
	return s.repo.ListVehicles(ctx, f, page)
}

// CompatibleAttributes returns the attributes the allocation engine matches
// slots against.
func (s *VehicleService) CompatibleAttributes(ctx context.Context, vehicleID string) (db.SizeClass, db.VehicleType, error) {
	v, err := s.repo.GetVehicle(ctx, vehicleID)
	if err != nil {
		return "", "", err
	}
	size, vehicleType := v.CompatibleAttributes()
	return size, vehicleType, nil
}
