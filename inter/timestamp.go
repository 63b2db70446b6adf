package inter

import "time"

// Timestamp is a block/event timestamp with nanosecond precision.
type Timestamp uint64

// FromUnix converts Unix seconds into a Timestamp.
func FromUnix(t int64) Timestamp {
	return Timestamp(t * int64(time.Second))
}

// Unix returns the timestamp truncated to Unix seconds.
func (t Timestamp) Unix() int64 {
	return int64(t / Timestamp(time.Second))
}

// Time converts the timestamp into a time.Time.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t)/int64(time.Second), int64(t)%int64(time.Second))
}
