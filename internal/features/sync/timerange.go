package sync

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// APITimeLayout is the wallet's timestamp format, YYYYMMDD HH:mm:ss.
const APITimeLayout = "20060102 15:04:05"

var ErrInvalidTimeFormat = errors.New("invalid time format, expected YYYYMMDD HH:mm:ss, e.g. 20250120 00:00:00")

var apiTimePattern = regexp.MustCompile(`^\d{8} \d{2}:\d{2}:\d{2}$`)

// TimeRange is the inclusive window passed to the wallet
type TimeRange struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (t TimeRange) String() string {
	return t.StartTime + " to " + t.EndTime
}

// ResolveTimeRange validates a caller supplied window or, when either bound
// is missing, derives one from now: the 1st of the previous month at
// 00:00:00 through today at 23:59:59.
func ResolveTimeRange(now time.Time, start, end string) (TimeRange, error) {
	if start != "" && end != "" {
		if !apiTimePattern.MatchString(start) || !apiTimePattern.MatchString(end) {
			return TimeRange{}, fmt.Errorf("%w: got %q and %q", ErrInvalidTimeFormat, start, end)
		}
		return TimeRange{StartTime: start, EndTime: end}, nil
	}

	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	// time.Date normalizes month 0 to December of the previous year
	firstOfPrevMonth := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())

	return TimeRange{
		StartTime: firstOfPrevMonth.Format(APITimeLayout),
		EndTime:   endOfToday.Format(APITimeLayout),
	}, nil
}
