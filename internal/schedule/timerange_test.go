package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"motorpool/internal/schedule"
)

func date(day, hour int) time.Time {
	return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
}

func rng(startDay, startHour, endDay, endHour int) schedule.TimeRange {
	return schedule.TimeRange{Start: date(startDay, startHour), End: date(endDay, endHour)}
}

func TestNewTimeRange(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{
			name:    "valid range",
			start:   date(2, 8),
			end:     date(2, 12),
			wantErr: false,
		},
		{
			name:    "end equals start",
			start:   date(2, 8),
			end:     date(2, 8),
			wantErr: true,
		},
		{
			name:    "end before start",
			start:   date(2, 12),
			end:     date(2, 8),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := schedule.NewTimeRange(tt.start, tt.end)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.start, result.Start)
				assert.Equal(t, tt.end, result.End)
			}
		})
	}
}

func TestTimeRange_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    schedule.TimeRange
		b    schedule.TimeRange
		want bool
	}{
		{
			name: "partial overlap",
			a:    rng(2, 8, 2, 12),
			b:    rng(2, 10, 2, 14),
			want: true,
		},
		{
			name: "contained range",
			a:    rng(2, 8, 2, 17),
			b:    rng(2, 10, 2, 12),
			want: true,
		},
		{
			name: "identical ranges",
			a:    rng(2, 8, 2, 12),
			b:    rng(2, 8, 2, 12),
			want: true,
		},
		{
			name: "touching at endpoint does not overlap",
			a:    rng(2, 8, 2, 12),
			b:    rng(2, 12, 2, 17),
			want: false,
		},
		{
			name: "disjoint ranges",
			a:    rng(2, 8, 2, 12),
			b:    rng(3, 8, 3, 12),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestTimeRange_Contains(t *testing.T) {
	outer := rng(2, 8, 4, 17)

	assert.True(t, outer.Contains(rng(2, 8, 4, 17)))
	assert.True(t, outer.Contains(rng(3, 8, 3, 12)))
	assert.False(t, outer.Contains(rng(2, 7, 2, 12)))
	assert.False(t, outer.Contains(rng(4, 8, 5, 8)))
}

func TestTimeRange_Clip(t *testing.T) {
	bounds := rng(2, 8, 2, 17)

	tests := []struct {
		name string
		r    schedule.TimeRange
		want schedule.TimeRange
	}{
		{
			name: "fully inside",
			r:    rng(2, 9, 2, 12),
			want: rng(2, 9, 2, 12),
		},
		{
			name: "extends on both sides",
			r:    rng(1, 8, 3, 8),
			want: rng(2, 8, 2, 17),
		},
		{
			name: "disjoint yields empty",
			r:    rng(3, 8, 3, 12),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clipped := tt.r.Clip(bounds)

			if tt.want.IsEmpty() {
				assert.True(t, clipped.IsEmpty())
			} else {
				assert.Equal(t, tt.want, clipped)
			}
		})
	}
}

func TestTimeRange_Duration(t *testing.T) {
	assert.Equal(t, 4*time.Hour, rng(2, 8, 2, 12).Duration())
	assert.Equal(t, time.Duration(0), rng(2, 12, 2, 8).Duration())
}

func TestDayWindow(t *testing.T) {
	window := schedule.DayWindow(date(2, 15))

	assert.Equal(t, date(2, 0), window.Start)
	assert.Equal(t, date(3, 0), window.End)
	assert.Equal(t, 24*time.Hour, window.Duration())
}
