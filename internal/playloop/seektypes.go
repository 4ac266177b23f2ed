package playloop

// SeekType enumerates the seek request kinds of spec.md §3.
type SeekType int

const (
	SeekNone SeekType = iota
	SeekRelative
	SeekAbsolute
	SeekFactor
	SeekBackstep
)

// SeekPrecision enumerates the seek exactness levels of spec.md §3,
// ordered from loosest to strictest so "raise to the stricter of the
// two" (spec.md §4.4) is a plain max().
type SeekPrecision int

const (
	SeekKeyframe SeekPrecision = iota
	SeekDefault
	SeekExact
	SeekVeryExact
)

// SeekFlags is the request-level flag bitset of spec.md §3.
type SeekFlags uint8

const (
	SeekFlagDelay SeekFlags = 1 << iota
	SeekFlagNoFlush
)

func (f SeekFlags) Has(bit SeekFlags) bool { return f&bit != 0 }

// SeekRequest is a (possibly coalesced) pending seek, spec.md §3.
type SeekRequest struct {
	Type   SeekType
	Amount float64 // seconds; meaning depends on Type
	Exact  SeekPrecision
	Flags  SeekFlags
}

// StopPlay is the terminal signal consumed by the outer player driver
// (spec.md §3).
type StopPlay int

const (
	KeepPlaying StopPlay = iota
	AtEndOfFile
	PTQuit
)
