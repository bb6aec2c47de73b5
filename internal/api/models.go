package api

import (
	"time"

	"parkwise/internal/db"
)

// Auth

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

func toUserResponse(u *db.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: string(u.Role)}
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Vehicles

type VehicleRequest struct {
	PlateNumber string `json:"plateNumber"`
	VehicleType string `json:"vehicleType"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Model       string `json:"model"`
}

type VehicleResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	PlateNumber string `json:"plateNumber"`
	VehicleType string `json:"vehicleType"`
	Size        string `json:"size"`
	Color       string `json:"color,omitempty"`
	Model       string `json:"model,omitempty"`
}

func toVehicleResponse(v *db.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:          v.ID,
		UserID:      v.UserID,
		PlateNumber: v.PlateNumber,
		VehicleType: string(v.VehicleType),
		Size:        string(v.Size),
		Color:       v.Color,
		Model:       v.Model,
	}
}

// Slots

type SlotRequestBody struct {
	SlotNumber  string `json:"slotNumber"`
	Size        string `json:"size"`
	VehicleType string `json:"vehicleType"`
	Location    string `json:"location"`
}

type BulkSlotRequest struct {
	Prefix      string `json:"prefix"`
	StartNumber int    `json:"startNumber"`
	Count       int    `json:"count"`
	Size        string `json:"size"`
	VehicleType string `json:"vehicleType"`
	Location    string `json:"location"`
}

type MaintenanceRequest struct {
	Maintenance bool `json:"maintenance"`
}

type SlotResponse struct {
	ID          string `json:"id"`
	SlotNumber  string `json:"slotNumber"`
	Size        string `json:"size"`
	VehicleType string `json:"vehicleType"`
	Location    string `json:"location"`
	Status      string `json:"status"`
}

func toSlotResponse(s *db.ParkingSlot) SlotResponse {
	return SlotResponse{
		ID:          s.ID,
		SlotNumber:  s.SlotNumber,
		Size:        string(s.Size),
		VehicleType: string(s.VehicleType),
		Location:    string(s.Location),
		Status:      string(s.Status),
	}
}

// Slot requests

type CreateSlotRequestBody struct {
	VehicleID         string     `json:"vehicleId"`
	PreferredLocation string     `json:"preferredLocation"`
	StartTime         *time.Time `json:"startTime"`
	EndTime           *time.Time `json:"endTime"`
	Notes             string     `json:"notes"`
}

type ApproveRequestBody struct {
	SlotID string `json:"slotId"`
}

type RejectRequestBody struct {
	Reason string `json:"reason"`
}

type SlotRequestResponse struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	VehicleID         string     `json:"vehicleId"`
	PreferredLocation string     `json:"preferredLocation,omitempty"`
	StartTime         *time.Time `json:"startTime,omitempty"`
	EndTime           *time.Time `json:"endTime,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	Status            string     `json:"status"`
	SlotID            string     `json:"slotId,omitempty"`
	RejectionReason   string     `json:"rejectionReason,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func toSlotRequestResponse(r *db.SlotRequest) SlotRequestResponse {
	return SlotRequestResponse{
		ID:                r.ID,
		UserID:            r.UserID,
		VehicleID:         r.VehicleID,
		PreferredLocation: string(r.PreferredLocation),
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		Notes:             r.Notes,
		Status:            string(r.Status),
		SlotID:            r.SlotID,
		RejectionReason:   r.RejectionReason,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// Logs

type LogResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	RequestID string    `json:"requestId,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Pagination

type ListResponse struct {
	Items      any `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func newListResponse(items any, total, page, limit int) ListResponse {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return ListResponse{Items: items, Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}
