// Package datekey derives the canonical per-day key used to index events.
package datekey

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the canonical fixed-width key format.
const Layout = "2006-01-02"

// Key identifies a single calendar day, e.g. "2024-06-15".
type Key string

// New builds a key from date components. Out-of-range components are
// normalized the same way time.Date does (day 0 is the last day of the
// previous month).
func New(year int, month time.Month, day int) Key {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.Local))
}

// FromTime builds a key from the local year/month/day of t.
func FromTime(t time.Time) Key {
	return Key(t.Format(Layout))
}

// Parse accepts canonical keys and the legacy unpadded form ("2024-6-15").
func Parse(s string) (Key, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return "", fmt.Errorf("datekey: invalid date %q", s)
	}

	var nums [3]int
	for i, p := range parts {
		if p == "" || len(p) > 4 {
			return "", fmt.Errorf("datekey: invalid date %q", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return "", fmt.Errorf("datekey: invalid date %q", s)
		}
		nums[i] = n
	}

	year, month, day := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 || day < 1 || day > DaysInMonth(year, time.Month(month)) {
		return "", fmt.Errorf("datekey: date out of range %q", s)
	}
	return New(year, time.Month(month), day), nil
}

// Normalize returns the canonical key for parseable input and the trimmed
// input otherwise, so records with unknown date formats still group together.
func Normalize(s string) Key {
	if k, err := Parse(s); err == nil {
		return k
	}
	return Key(strings.TrimSpace(s))
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Valid reports whether k is in canonical form.
func (k Key) Valid() bool {
	t, err := time.Parse(Layout, string(k))
	return err == nil && t.Format(Layout) == string(k)
}

// Time returns midnight of the day in loc. Invalid keys yield the zero time.
func (k Key) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout, string(k), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (k Key) String() string { return string(k) }
