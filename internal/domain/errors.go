package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrTableNotFound       = errors.New("table not found")
	ErrDinerNotFound       = errors.New("diner not found")
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrTableConflict means the table already has a reservation whose
	// booking window intersects the requested time.
	ErrTableConflict = errors.New("table is not available for the selected time")
)

// DinerConflictError identifies which diner already holds an overlapping
// reservation; the name must survive to the HTTP error message.
type DinerConflictError struct {
	DinerName string
}

func (e *DinerConflictError) Error() string {
	return fmt.Sprintf("%s already has a reservation that overlaps with the selected time", e.DinerName)
}
