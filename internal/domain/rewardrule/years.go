package rewardrule

import "time"

// wholeYears counts completed years between two instants.
func wholeYears(from, to time.Time) int {
	years := to.Year() - from.Year()
	anniversary := from.AddDate(years, 0, 0)
	if anniversary.After(to) {
		years--
	}

	return years
}
