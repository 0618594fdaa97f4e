package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Duration is a non-negative elapsed race time with millisecond resolution.
// The zero value is a valid zero-length duration. Values are immutable.
type Duration struct {
	ms int64
}

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

func NewDuration(hours, minutes, seconds, millis int) (Duration, error) {
	switch {
	case hours < 0:
		return Duration{}, fmt.Errorf("%w: hours %d", ErrInvalidDuration, hours)
	case minutes < 0 || minutes >= 60:
		return Duration{}, fmt.Errorf("%w: minutes %d", ErrInvalidDuration, minutes)
	case seconds < 0 || seconds >= 60:
		return Duration{}, fmt.Errorf("%w: seconds %d", ErrInvalidDuration, seconds)
	case millis < 0 || millis >= 1000:
		return Duration{}, fmt.Errorf("%w: milliseconds %d", ErrInvalidDuration, millis)
	}
	return Duration{ms: int64(hours)*msPerHour + int64(minutes)*msPerMinute + int64(seconds)*msPerSecond + int64(millis)}, nil
}

// DurationFromSeconds converts a whole number of seconds.
func DurationFromSeconds(seconds int) (Duration, error) {
	if seconds < 0 {
		return Duration{}, fmt.Errorf("%w: %d seconds", ErrInvalidDuration, seconds)
	}
	return Duration{ms: int64(seconds) * msPerSecond}, nil
}

func (d Duration) Hours() int   { return int(d.ms / msPerHour) }
func (d Duration) Minutes() int { return int(d.ms % msPerHour / msPerMinute) }
func (d Duration) Seconds() int { return int(d.ms % msPerMinute / msPerSecond) }
func (d Duration) Millis() int  { return int(d.ms % msPerSecond) }

// TotalMillis is the full elapsed time in milliseconds.
func (d Duration) TotalMillis() int64 { return d.ms }

// ToSeconds returns whole elapsed seconds. Milliseconds are dropped.
func (d Duration) ToSeconds() int {
	return d.Hours()*3600 + d.Minutes()*60 + d.Seconds()
}

func (d Duration) Add(o Duration) Duration {
	return Duration{ms: d.ms + o.ms}
}

// Sub returns d-o, or ErrNegativeDuration when o is longer than d.
func (d Duration) Sub(o Duration) (Duration, error) {
	if o.ms > d.ms {
		return Duration{}, fmt.Errorf("%w: %s - %s", ErrNegativeDuration, d, o)
	}
	return Duration{ms: d.ms - o.ms}, nil
}

func (d Duration) Equal(o Duration) bool  { return d.ms == o.ms }
func (d Duration) Less(o Duration) bool   { return d.ms < o.ms }
func (d Duration) Compare(o Duration) int { return cmpInt64(d.ms, o.ms) }

// String renders H:MM:SS, or H:MM:SS.mmm when milliseconds are present.
func (d Duration) String() string {
	if d.Millis() == 0 {
		return fmt.Sprintf("%d:%02d:%02d", d.Hours(), d.Minutes(), d.Seconds())
	}
	return fmt.Sprintf("%d:%02d:%02d.%03d", d.Hours(), d.Minutes(), d.Seconds(), d.Millis())
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, ok := ParseDuration(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDuration, text)
	}
	*d = parsed
	return nil
}

// ParseDuration reads a results-table time cell. WinSplits writes
// "H:MM.SS" or "MM.SS" (seconds after the dot); String's own "H:MM:SS[.mmm]"
// output is accepted as well. Empty cells, placeholders and anything that
// does not form a valid Duration report false.
func ParseDuration(text string) (Duration, bool) {
	text = strings.TrimSpace(text)
	parts := strings.Split(text, ":")

	var h, m, s, ms int
	var ok bool
	switch len(parts) {
	case 1:
		minutes, seconds, found := strings.Cut(parts[0], ".")
		if !found {
			return Duration{}, false
		}
		if m, ok = atoi(minutes); !ok {
			return Duration{}, false
		}
		if s, ok = atoi(seconds); !ok {
			return Duration{}, false
		}
	case 2:
		minutes, seconds, found := strings.Cut(parts[1], ".")
		if !found {
			return Duration{}, false
		}
		if h, ok = atoi(parts[0]); !ok {
			return Duration{}, false
		}
		if m, ok = atoi(minutes); !ok {
			return Duration{}, false
		}
		if s, ok = atoi(seconds); !ok {
			return Duration{}, false
		}
	case 3:
		seconds, millis, found := strings.Cut(parts[2], ".")
		if h, ok = atoi(parts[0]); !ok {
			return Duration{}, false
		}
		if m, ok = atoi(parts[1]); !ok {
			return Duration{}, false
		}
		if s, ok = atoi(seconds); !ok {
			return Duration{}, false
		}
		if found {
			if len(millis) != 3 {
				return Duration{}, false
			}
			if ms, ok = atoi(millis); !ok {
				return Duration{}, false
			}
		}
	default:
		return Duration{}, false
	}

	d, err := NewDuration(h, m, s, ms)
	if err != nil {
		return Duration{}, false
	}
	return d, true
}

func atoi(s string) (int, bool) {
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
