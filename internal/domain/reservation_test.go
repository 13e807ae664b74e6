package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// conflicts applies the same open-interval predicate the SQL conflict
// queries use (from < start < to).
func conflicts(desired, existing time.Time) bool {
	from, to := BookingWindowBounds(desired)
	return existing.After(from) && existing.Before(to)
}

func TestBookingWindowBounds(t *testing.T) {
	base := time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)

	from, to := BookingWindowBounds(base)
	assert.Equal(t, base.Add(-BookingWindow), from)
	assert.Equal(t, base.Add(BookingWindow), to)

	assert.True(t, conflicts(base, base), "identical start times conflict")
	assert.True(t, conflicts(base, base.Add(time.Hour)), "one hour apart conflicts")
	assert.True(t, conflicts(base.Add(time.Hour), base), "the window is symmetric")
	assert.True(t, conflicts(base, base.Add(BookingWindow-time.Second)), "just inside the window conflicts")
	assert.False(t, conflicts(base, base.Add(BookingWindow)), "exactly the booking window apart does not conflict")
	assert.False(t, conflicts(base, base.Add(3*time.Hour)), "well outside the window does not conflict")
}

func TestReservationString(t *testing.T) {
	res := &Reservation{
		ID:             1,
		TableID:        5,
		RestaurantName: "Sample Restaurant",
		Diners: []Diner{
			{ID: 7, Name: "John Doe"},
			{ID: 8, Name: "Jane Doe"},
		},
	}

	assert.Equal(t, "Reservation ID: 1 for John Doe, Jane Doe at Sample Restaurant - Table 5", res.String())
}

func TestReservationString_NoDiners(t *testing.T) {
	res := &Reservation{ID: 2, TableID: 9, RestaurantName: "Sample Restaurant"}

	assert.Equal(t, "Reservation ID: 2 for  at Sample Restaurant - Table 9", res.String())
}
