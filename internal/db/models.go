package db

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type VehicleType string

const (
	VehicleTypeCar        VehicleType = "CAR"
	VehicleTypeMotorcycle VehicleType = "MOTORCYCLE"
	VehicleTypeTruck      VehicleType = "TRUCK"
)

func (t VehicleType) Valid() bool {
	switch t {
	case VehicleTypeCar, VehicleTypeMotorcycle, VehicleTypeTruck:
		return true
	}
	return false
}

type SizeClass string

const (
	SizeSmall  SizeClass = "SMALL"
	SizeMedium SizeClass = "MEDIUM"
	SizeLarge  SizeClass = "LARGE"
)

func (s SizeClass) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

type Location string

const (
	LocationNorth Location = "NORTH"
	LocationSouth Location = "SOUTH"
	LocationEast  Location = "EAST"
	LocationWest  Location = "WEST"
)

func (l Location) Valid() bool {
	switch l {
	case LocationNorth, LocationSouth, LocationEast, LocationWest:
		return true
	}
	return false
}

type SlotStatus string

const (
	SlotAvailable   SlotStatus = "AVAILABLE"
	SlotOccupied    SlotStatus = "OCCUPIED"
	SlotReserved    SlotStatus = "RESERVED"
	SlotMaintenance SlotStatus = "MAINTENANCE"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// Terminal reports whether no further transitions are permitted.
func (s RequestStatus) Terminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// Active reports whether the request still ties up its vehicle: PENDING
// requests await a decision, APPROVED ones hold a slot.
func (s RequestStatus) Active() bool {
	return s == RequestPending || s == RequestApproved
}

type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Vehicle struct {
	ID          string
	UserID      string
	PlateNumber string
	VehicleType VehicleType
	Size        SizeClass
	Color       string
	Model       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CompatibleAttributes returns the attributes slot matching runs on.
func (v *Vehicle) CompatibleAttributes() (SizeClass, VehicleType) {
	return v.Size, v.VehicleType
}

type ParkingSlot struct {
	ID          string
	SlotNumber  string
	Size        SizeClass
	VehicleType VehicleType
	Location    Location
	Status      SlotStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SlotRequest is a user's ask to be allocated a slot for a vehicle.
// SlotID is set only when APPROVED; RejectionReason only when REJECTED.
type SlotRequest struct {
	ID                string
	UserID            string
	VehicleID         string
	PreferredLocation Location // empty when the user expressed no preference
	StartTime         *time.Time
	EndTime           *time.Time
	Notes             string
	Status            RequestStatus
	SlotID            string
	RejectionReason   string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Log is one entry of the request audit trail: who did what, when, and why.
type Log struct {
	ID        string
	UserID    string
	Action    string
	RequestID string
	Detail    string
	CreatedAt time.Time
}
