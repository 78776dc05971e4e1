// Package tzx resolves user timezones and computes the next occurrence of a
// local wall-clock time. All functions are pure: they take the current
// absolute time as an argument and have no side effects.
package tzx

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/dmitrijs2005/planbot/internal/common"
)

// ClockTime is a local wall-clock time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

var fixedOffsetRe = regexp.MustCompile(`^UTC([+-])(\d{1,2})(?::(\d{2}))?$`)

// Resolve converts a stored timezone value into a *time.Location.
// Accepted forms are IANA names ("America/Los_Angeles") and fixed offsets
// ("UTC-8", "UTC+05:30"). Malformed values yield common.ErrInvalidTimezone.
func Resolve(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", common.ErrInvalidTimezone)
	}
	if m := fixedOffsetRe.FindStringSubmatch(name); m != nil {
		hours, _ := strconv.Atoi(m[2])
		minutes := 0
		if m[3] != "" {
			minutes, _ = strconv.Atoi(m[3])
		}
		if hours > 14 || minutes > 59 {
			return nil, fmt.Errorf("%w: %s", common.ErrInvalidTimezone, name)
		}
		offset := hours*3600 + minutes*60
		if m[1] == "-" {
			offset = -offset
		}
		return time.FixedZone(name, offset), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidTimezone, name)
	}
	return loc, nil
}

// NowIn returns now expressed on the wall clock of loc.
func NowIn(now time.Time, loc *time.Location) time.Time {
	return now.In(loc)
}

// At returns the absolute instant at which the wall clock of loc reads
// target on the given calendar date.
//
// DST policy: a local time that does not exist (spring-forward gap) or
// exists twice (fall-back overlap) resolves to the LATER of the candidate
// instants. time.Date already normalizes gap times past the gap; for the
// overlap it picks the earlier offset, so we probe one hour ahead and take
// the repeat when the wall clock matches again.
func At(d Day, target ClockTime, loc *time.Location) time.Time {
	t := time.Date(d.Year, d.Month, d.Day, target.Hour, target.Minute, 0, 0, loc)
	if matchesWall(t, target) {
		if later := t.Add(time.Hour); matchesWall(later, target) && !later.Equal(t) {
			return later
		}
	}
	return t
}

// NextOccurrence returns the next future instant at which the wall clock of
// loc reads target: today if that moment has not yet passed, otherwise
// tomorrow. The result is always strictly after now.
func NextOccurrence(now time.Time, loc *time.Location, target ClockTime) time.Time {
	local := now.In(loc)
	d := DayOf(local)
	t := At(d, target, loc)
	if !t.After(now) {
		t = At(d.AddDays(1), target, loc)
	}
	return t
}

func matchesWall(t time.Time, target ClockTime) bool {
	return t.Hour() == target.Hour && t.Minute() == target.Minute
}
