package playloop

import "time"

// Timestamp models a presentation timestamp (PTS) on the media timeline
// as an explicit "unknown time" option type (spec.md §9 "NOPTS
// sentinel"): every accessor and arithmetic helper preserves an unknown
// value through computation instead of producing a spurious finite one.
type Timestamp struct {
	value time.Duration
	valid bool
}

// NoPTS is the sentinel "unknown time" value.
var NoPTS = Timestamp{}

// PTS constructs a known timestamp at d.
func PTS(d time.Duration) Timestamp {
	return Timestamp{value: d, valid: true}
}

// Valid reports whether t carries a known time.
func (t Timestamp) Valid() bool { return t.valid }

// Duration returns the underlying duration and whether it was valid.
// Callers that only care about the valid case should guard with Valid.
func (t Timestamp) Duration() (time.Duration, bool) { return t.value, t.valid }

// Seconds returns the value in seconds, or 0 if unknown.
func (t Timestamp) Seconds() float64 {
	if !t.valid {
		return 0
	}
	return t.value.Seconds()
}

// Add returns t+d; unknown propagates.
func (t Timestamp) Add(d time.Duration) Timestamp {
	if !t.valid {
		return NoPTS
	}
	return PTS(t.value + d)
}

// Sub returns the duration between two known timestamps. ok is false if
// either side is unknown.
func (t Timestamp) Sub(o Timestamp) (d time.Duration, ok bool) {
	if !t.valid || !o.valid {
		return 0, false
	}
	return t.value - o.value, true
}

// Less reports t < o. Unknown timestamps are never less than anything
// and nothing is less than an unknown timestamp; ok is false whenever
// either side is unknown, signalling "can't compare".
func (t Timestamp) Less(o Timestamp) (less bool, ok bool) {
	if !t.valid || !o.valid {
		return false, false
	}
	return t.value < o.value, true
}

// SecondsOrNOPTS converts a float64 seconds value to a Timestamp, or
// returns NoPTS when known is false. The seconds value itself is not
// inspected (a NaN is converted like any other number).
func SecondsOrNOPTS(seconds float64, known bool) Timestamp {
	if !known {
		return NoPTS
	}
	return PTS(time.Duration(seconds * float64(time.Second)))
}
