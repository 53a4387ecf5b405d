package zeroflash

import "time"

// FatTime is a FAT time/date pair, packed as a single 32-bit value:
// the date in the upper 16 bits, the time in the lower 16 bits.
//
//	date: bits 15-9 year since 1980, bits 8-5 month, bits 4-0 day
//	time: bits 15-11 hour, bits 10-5 minute, bits 4-0 seconds/2
type FatTime uint32

var (
	// MinFatTime is the earliest moment a FatTime can represent.
	MinFatTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)
	// MaxFatTime is the latest moment a FatTime can represent.
	MaxFatTime = time.Date(2107, time.December, 31, 23, 59, 58, 0, time.UTC)
)

// NewFatTime packs a FAT date and time into a FatTime.
func NewFatTime(date, clock uint16) FatTime {
	return FatTime(date)<<16 | FatTime(clock)
}

// Date returns the FAT date part.
func (ft FatTime) Date() uint16 {
	return uint16(ft >> 16)
}

// Clock returns the FAT time part.
func (ft FatTime) Clock() uint16 {
	return uint16(ft)
}

// Time returns the moment this FatTime represents, in UTC.
func (ft FatTime) Time() time.Time {
	date, clock := ft.Date(), ft.Clock()
	return time.Date(
		int(date>>9)+1980,
		time.Month((date>>5)&0xF),
		int(date&0x1F),
		int(clock>>11),
		int((clock>>5)&0x3F),
		int(clock&0x1F)<<1,
		0, time.UTC)
}

// FatTimeToUnix converts a FAT date and time to a UNIX timestamp.
func FatTimeToUnix(date, clock uint16) int64 {
	return NewFatTime(date, clock).Time().Unix()
}

// UnixToFatTime converts a UNIX timestamp to a FAT date and time.
// The timestamp is interpreted in UTC, and clamped to the FAT range.
// Odd seconds are rounded down, as FAT has a 2 second resolution.
func UnixToFatTime(ts int64) (date, clock uint16) {
	ft := FatTimeFromTime(time.Unix(ts, 0))
	return ft.Date(), ft.Clock()
}

// FatTimeFromTime converts a moment to a FatTime.
func FatTimeFromTime(t time.Time) FatTime {
	t = t.UTC()
	if t.Before(MinFatTime) {
		t = MinFatTime
	} else if t.After(MaxFatTime) {
		t = MaxFatTime
	}

	date := uint16(t.Year()-1980)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
	clock := uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()>>1)
	return NewFatTime(date, clock)
}

// FatTimestamp returns the current time as a FatTime,
// as used to stamp files created or modified by the filesystem.
func FatTimestamp() FatTime {
	return FatTimeFromTime(now())
}

// stubbed during testing
var now = time.Now
