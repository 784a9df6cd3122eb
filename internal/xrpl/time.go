package xrpl

import "time"

// rippleEpochOffset is the Unix timestamp of the ledger epoch
// (2000-01-01T00:00:00Z).
const rippleEpochOffset = 946684800

// ToRippleTime converts a wall-clock time to seconds since the ledger
// epoch, the unit offer expirations are expressed in.
func ToRippleTime(t time.Time) uint32 {
	return uint32(t.Unix() - rippleEpochOffset)
}

// FromRippleTime converts seconds since the ledger epoch to wall-clock
// time.
func FromRippleTime(rt uint32) time.Time {
	return time.Unix(int64(rt)+rippleEpochOffset, 0).UTC()
}
