package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"motorpool/internal/schedule"
)

func TestSlot_Window(t *testing.T) {
	day := date(5, 0)

	tests := []struct {
		name      string
		slot      schedule.Slot
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "morning",
			slot:      schedule.SlotMorning,
			wantStart: date(5, 8),
			wantEnd:   date(5, 12),
		},
		{
			name:      "afternoon",
			slot:      schedule.SlotAfternoon,
			wantStart: date(5, 13),
			wantEnd:   date(5, 17),
		},
		{
			name:      "full day",
			slot:      schedule.SlotFullDay,
			wantStart: date(5, 8),
			wantEnd:   date(5, 17),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := tt.slot.Window(day)

			assert.Equal(t, tt.wantStart, window.Start)
			assert.Equal(t, tt.wantEnd, window.End)
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		r    schedule.TimeRange
		day  time.Time
		want string
	}{
		{
			name: "single day morning",
			r:    rng(5, 8, 5, 12),
			day:  date(5, 0),
			want: schedule.LabelMorning,
		},
		{
			name: "single day afternoon",
			r:    rng(5, 13, 5, 17),
			day:  date(5, 0),
			want: schedule.LabelAfternoon,
		},
		{
			name: "single day spanning lunch",
			r:    rng(5, 10, 5, 15),
			day:  date(5, 0),
			want: schedule.LabelFullDay,
		},
		{
			name: "first day of multi-day starting in the afternoon",
			r:    rng(5, 14, 7, 12),
			day:  date(5, 0),
			want: schedule.LabelAfternoon,
		},
		{
			name: "first day of multi-day starting in the morning",
			r:    rng(5, 9, 7, 12),
			day:  date(5, 0),
			want: schedule.LabelFullDay,
		},
		{
			name: "last day of multi-day ending before noon",
			r:    rng(5, 14, 7, 11),
			day:  date(7, 0),
			want: schedule.LabelMorning,
		},
		{
			name: "last day of multi-day ending in the afternoon",
			r:    rng(5, 14, 7, 15),
			day:  date(7, 0),
			want: schedule.LabelFullDay,
		},
		{
			name: "middle day of multi-day",
			r:    rng(5, 14, 7, 11),
			day:  date(6, 0),
			want: schedule.LabelFullDay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schedule.Label(tt.r, tt.day))
		})
	}
}

func TestLabel_Totality(t *testing.T) {
	r := rng(5, 14, 7, 11)
	labels := map[string]bool{
		schedule.LabelMorning:   true,
		schedule.LabelAfternoon: true,
		schedule.LabelFullDay:   true,
	}

	// Every day, inside or outside the range, yields one of the three labels.
	for day := 3; day <= 9; day++ {
		assert.True(t, labels[schedule.Label(r, date(day, 0))])
	}
}

func TestDayAssignmentWindow(t *testing.T) {
	tests := []struct {
		name string
		r    schedule.TimeRange
		day  time.Time
		want schedule.TimeRange
	}{
		{
			name: "morning day uses the morning slot window",
			r:    rng(5, 8, 5, 12),
			day:  date(5, 0),
			want: rng(5, 8, 5, 12),
		},
		{
			name: "afternoon start day clipped to the reservation",
			r:    rng(5, 14, 7, 11),
			day:  date(5, 0),
			want: rng(5, 14, 5, 17),
		},
		{
			name: "middle day covers the whole calendar day",
			r:    rng(5, 14, 7, 11),
			day:  date(6, 0),
			want: rng(6, 0, 7, 0),
		},
		{
			name: "last morning clipped to the reservation end",
			r:    rng(5, 14, 7, 11),
			day:  date(7, 0),
			want: rng(7, 8, 7, 11),
		},
		{
			name: "day outside the reservation is empty",
			r:    rng(5, 14, 7, 11),
			day:  date(9, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := schedule.DayAssignmentWindow(tt.r, tt.day)

			if tt.want.IsEmpty() {
				assert.True(t, window.IsEmpty())
			} else {
				assert.Equal(t, tt.want, window)
			}
		})
	}
}
