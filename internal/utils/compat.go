package utils

import "parkwise/internal/db"

// sizeRank orders size classes: a slot can hold any vehicle whose size
// class ranks at or below the slot's own.
var sizeRank = map[db.SizeClass]int{
	db.SizeSmall:  0,
	db.SizeMedium: 1,
	db.SizeLarge:  2,
}

// SizeRank returns the ordering index of a size class (SMALL < MEDIUM < LARGE).
func SizeRank(s db.SizeClass) int {
	return sizeRank[s]
}

// FitsSize reports whether a slot of slotSize can hold a vehicle of vehicleSize.
func FitsSize(slotSize, vehicleSize db.SizeClass) bool {
	return sizeRank[slotSize] >= sizeRank[vehicleSize]
}

// Compatible reports whether a slot satisfies a vehicle's type and size
// and, when the request named one, the preferred location.
func Compatible(slot *db.ParkingSlot, vehicleType db.VehicleType, vehicleSize db.SizeClass, preferred db.Location) bool {
	if slot.VehicleType != vehicleType {
		return false
	}
	if !FitsSize(slot.Size, vehicleSize) {
		return false
	}
	if preferred != "" && slot.Location != preferred {
		return false
	}
	return true
}
