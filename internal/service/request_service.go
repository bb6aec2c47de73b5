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

// Audit trail actions.
const (
	ActionRequestCreated  = "REQUEST_CREATED"
	ActionRequestApproved = "REQUEST_APPROVED"
	ActionRequestRejected = "REQUEST_REJECTED"
	ActionRequestDeleted  = "REQUEST_DELETED"
	ActionSlotReleased    = "SLOT_RELEASED"
)

type RequestService struct {
	repo     repository.Store
	notifier Notifier
}

func NewRequestService(repo repository.Store, notifier Notifier) *RequestService {
	return &RequestService{repo: repo, notifier: notifier}
}

type RequestInput struct {
	VehicleID         string
	PreferredLocation db.Location
	StartTime         *time.Time
	EndTime           *time.Time
	Notes             string
}

func (s *RequestService) Create(ctx context.Context, actor auth.Identity, in RequestInput) (*db.SlotRequest, error) {
	vehicle, err := s.repo.GetVehicle(ctx, in.VehicleID)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, vehicle.UserID) {
		return nil, apperrors.New(apperrors.KindForbidden, "not your vehicle")
	}
	if in.PreferredLocation != "" && !in.PreferredLocation.Valid() {
		return nil, apperrors.New(apperrors.KindInvalidInput, "location must be NORTH, SOUTH, EAST or WEST")
	}
	if in.StartTime != nil && in.EndTime != nil && !in.EndTime.After(*in.StartTime) {
		return nil, apperrors.New(apperrors.KindInvalidWindow, "end time must be after start time")
	}
	active, err := s.repo.HasActiveRequest(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, apperrors.New(apperrors.KindVehicleAlreadyRequesting, "vehicle already has an active request")
	}

	now := time.Now().UTC()
	req := &db.SlotRequest{
		ID:                uuid.NewString(),
		UserID:            vehicle.UserID,
		VehicleID:         vehicle.ID,
		PreferredLocation: in.PreferredLocation,
		StartTime:         in.StartTime,
		EndTime:           in.EndTime,
		Notes:             strings.TrimSpace(in.Notes),
		Status:            db.RequestPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	s.audit(ctx, actor.UserID, ActionRequestCreated, req.ID, "vehicle "+vehicle.PlateNumber)
	if user, err := s.repo.GetUser(ctx, req.UserID); err == nil {
		s.notifier.RequestCreated(user, req)
	}
	return req, nil
}

func (s *RequestService) Get(ctx context.Context, actor auth.Identity, id string) (*db.SlotRequest, error) {
	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, req.UserID) {
		return nil, apperrors.New(apperrors.KindForbidden, "not your request")
	}
	return req, nil
}

func (s *RequestService) List(ctx context.Context, actor auth.Identity, f repository.RequestFilter, page repository.Page) ([]db.SlotRequest, int, error) {
	if !actor.IsAdmin() {
		f.UserID = actor.UserID
	}
	return s.repo.ListRequests(ctx, f, page)
}

// Delete cancels a request. Owners may only delete while it is still
// PENDING; administrators may delete terminal records too. Deleting an
// APPROVED request frees its slot: the record is the only reference to
// the binding, so removing it without a release would orphan the slot.
func (s *RequestService) Delete(ctx context.Context, actor auth.Identity, id string) error {
	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		if req.UserID != actor.UserID {
			return apperrors.New(apperrors.KindForbidden, "not your request")
		}
		if req.Status != db.RequestPending {
			return apperrors.New(apperrors.KindForbidden, "only pending requests can be cancelled")
		}
	}
	if req.Status == db.RequestApproved && req.SlotID != "" {
		err := s.repo.ReleaseSlot(ctx, req.SlotID)
		// InvalidSlotState means the slot was already released out of band.
		if err != nil && apperrors.KindOf(err) != apperrors.KindInvalidSlotState {
			return err
		}
	}
	if err := s.repo.DeleteRequest(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor.UserID, ActionRequestDeleted, id, string(req.Status))
	return nil
}

// ListLogs exposes the request audit trail to administrators.
func (s *RequestService) ListLogs(ctx context.Context, actor auth.Identity, page repository.Page) ([]db.Log, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, apperrors.New(apperrors.KindForbidden, "administrator role required")
	}
	return s.repo.ListLogs(ctx, page)
}

func (s *RequestService) audit(ctx context.Context, userID, action, requestID, detail string) {
	appendAudit(ctx, s.repo, userID, action, requestID, detail)
}
