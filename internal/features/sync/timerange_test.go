package sync

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveTimeRange(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)

	tests := []struct {
		name      string
		now       time.Time
		start     string
		end       string
		want      TimeRange
		wantError bool
	}{
		{
			name:  "explicit window passes through",
			now:   time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
			start: "20250101 00:00:00",
			end:   "20250131 23:59:59",
			want:  TimeRange{StartTime: "20250101 00:00:00", EndTime: "20250131 23:59:59"},
		},
		{
			name: "default covers previous month through end of today",
			now:  time.Date(2025, 3, 10, 12, 30, 0, 0, shanghai),
			want: TimeRange{StartTime: "20250201 00:00:00", EndTime: "20250310 23:59:59"},
		},
		{
			name: "january rolls back to december of the previous year",
			now:  time.Date(2025, 1, 15, 8, 0, 0, 0, shanghai),
			want: TimeRange{StartTime: "20241201 00:00:00", EndTime: "20250115 23:59:59"},
		},
		{
			name:  "one bound missing falls back to the default",
			now:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			start: "20250101 00:00:00",
			want:  TimeRange{StartTime: "20250201 00:00:00", EndTime: "20250331 23:59:59"},
		},
		{
			name:      "dashed date is rejected",
			now:       time.Now(),
			start:     "2025-01-01 00:00:00",
			end:       "20250131 23:59:59",
			wantError: true,
		},
		{
			name:      "missing seconds is rejected",
			now:       time.Now(),
			start:     "20250101 00:00:00",
			end:       "20250131 23:59",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTimeRange(tt.now, tt.start, tt.end)
			if tt.wantError {
				require.True(t, errors.Is(err, ErrInvalidTimeFormat))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTimeRangeString(t *testing.T) {
	tr := TimeRange{StartTime: "20250101 00:00:00", EndTime: "20250131 23:59:59"}
	require.Equal(t, "20250101 00:00:00 to 20250131 23:59:59", tr.String())
}
