package domain

import (
	"fmt"
	"strings"
	"time"
)

// BookingWindow is the span around a reservation's start time within which
// no other reservation may begin, for the same table or the same diner.
const BookingWindow = 2 * time.Hour

type Reservation struct {
	ID             int64
	TableID        int64
	RestaurantName string
	StartsAt       time.Time
	Diners         []Diner
	CreatedAt      time.Time
	RemindedAt     *time.Time
}

// BookingWindowBounds returns the open interval (from, to) in which another
// reservation's start would conflict with one starting at t. Starts exactly
// BookingWindow apart sit on the boundary and do not conflict.
func BookingWindowBounds(t time.Time) (from, to time.Time) {
	return t.Add(-BookingWindow), t.Add(BookingWindow)
}

// String renders the canonical display form used in API responses and
// notifications.
func (r *Reservation) String() string {
	names := make([]string, 0, len(r.Diners))
	for _, d := range r.Diners {
		names = append(names, d.Name)
	}
	return fmt.Sprintf("Reservation ID: %d for %s at %s - Table %d",
		r.ID, strings.Join(names, ", "), r.RestaurantName, r.TableID)
}
