package application

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// relativeMagnitudes follows the dayjs relativeTime thresholds, shifted where
// needed so that counted units are always plural.
var relativeMagnitudes = []humanize.RelTimeMagnitude{
	{D: 45 * time.Second, Format: "a few seconds", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "a minute", DivBy: time.Minute},
	{D: 45 * time.Minute, Format: "%d minutes", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "an hour", DivBy: time.Hour},
	{D: 22 * time.Hour, Format: "%d hours", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "a day", DivBy: humanize.Day},
	{D: 26 * humanize.Day, Format: "%d days", DivBy: humanize.Day},
	{D: 2 * humanize.Month, Format: "a month", DivBy: humanize.Month},
	{D: humanize.Year, Format: "%d months", DivBy: humanize.Month},
	{D: 2 * humanize.Year, Format: "a year", DivBy: humanize.Year},
	{D: math.MaxInt64, Format: "%d years", DivBy: humanize.Year},
}

// relativeDuration renders the distance between a and b, in either order,
// without a direction suffix (e.g. "3 days").
func relativeDuration(a, b time.Time) string {
	return humanize.CustomRelTime(a, b, "", "", relativeMagnitudes)
}
