package types

import "time"

// EpochTime converts processor seconds-since-epoch into an absolute UTC time.
func EpochTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// Epoch is the inverse of EpochTime.
func Epoch(t time.Time) int64 {
	return t.Unix()
}

// OptionalTime treats 0 as an absent timestamp.
func OptionalTime(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := EpochTime(sec)
	return &t
}
