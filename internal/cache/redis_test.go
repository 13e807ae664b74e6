package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlotLockKey_BucketsByHour(t *testing.T) {
	base := time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)

	assert.Equal(t, slotLockKey(5, base), slotLockKey(5, base.Add(time.Second)),
		"near-simultaneous bookings must contend for the same lock")
	assert.Equal(t, slotLockKey(5, base), slotLockKey(5, base.Add(29*time.Minute)),
		"starts within the same clock hour share a bucket")
	assert.NotEqual(t, slotLockKey(5, base), slotLockKey(5, base.Add(time.Hour)),
		"different hour buckets use different locks")
	assert.NotEqual(t, slotLockKey(5, base), slotLockKey(6, base),
		"different tables never share a lock")
}

func TestSlotLockKey_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	utc := time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)
	local := utc.In(loc)

	assert.Equal(t, slotLockKey(5, utc), slotLockKey(5, local))
}
