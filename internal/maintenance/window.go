// Package maintenance decides whether an instant falls inside the weekly
// maintenance window: Friday 01:25–01:35 UK local time, both ends
// inclusive.
package maintenance

import "time"

var london = mustLoadLondon()

func mustLoadLondon() *time.Location {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		panic("maintenance: load Europe/London: " + err.Error())
	}
	return loc
}

// InWindow reports whether t lies inside the maintenance window. A nil
// timestamp is never inside the window.
func InWindow(t *time.Time) bool {
	if t == nil {
		return false
	}
	local := t.In(london)
	if local.Weekday() != time.Friday {
		return false
	}
	h, m, s := local.Clock()
	if h != 1 {
		return false
	}
	switch {
	case m < 25 || m > 35:
		return false
	case m == 35:
		// 01:35:00.000000 is the last instant inside the window.
		return s == 0 && local.Nanosecond() == 0
	default:
		return true
	}
}

// Location returns the civil zone used for the window and for rendering
// log times.
func Location() *time.Location {
	return london
}
