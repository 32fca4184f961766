package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name  string
		hours domain.DayHours
		step  int
		want  []types.TimeString
	}{
		{
			name:  "half open end excluded",
			hours: domain.DayHours{Start: "09:00", End: "10:00"},
			step:  30,
			want:  []types.TimeString{"09:00", "09:30"},
		},
		{
			name:  "uneven step stops before closing",
			hours: domain.DayHours{Start: "09:00", End: "10:00"},
			step:  45,
			want:  []types.TimeString{"09:00", "09:45"},
		},
		{
			name:  "single slot day",
			hours: domain.DayHours{Start: "09:00", End: "09:30"},
			step:  30,
			want:  []types.TimeString{"09:00"},
		},
		{
			name:  "empty window",
			hours: domain.DayHours{Start: "09:00", End: "09:00"},
			step:  30,
			want:  []types.TimeString{},
		},
		{
			name:  "start after end",
			hours: domain.DayHours{Start: "17:00", End: "09:00"},
			step:  30,
			want:  []types.TimeString{},
		},
		{
			name:  "zero step yields nothing",
			hours: domain.DayHours{Start: "09:00", End: "17:00"},
			step:  0,
			want:  []types.TimeString{},
		},
		{
			name:  "window touching midnight",
			hours: domain.DayHours{Start: "23:00", End: "23:59"},
			step:  30,
			want:  []types.TimeString{"23:00", "23:30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlots(tt.hours, tt.step))
		})
	}
}

func TestSlotTimes_Restartable(t *testing.T) {
	hours := domain.DayHours{Start: "09:00", End: "11:00"}
	seq := SlotTimes(hours, 60)

	first := make([]types.TimeString, 0)
	for ts := range seq {
		first = append(first, ts)
	}
	second := make([]types.TimeString, 0)
	for ts := range seq {
		second = append(second, ts)
	}

	assert.Equal(t, first, second)
	assert.Equal(t, []types.TimeString{"09:00", "10:00"}, first)
}

func TestSlotTimes_EarlyBreak(t *testing.T) {
	hours := domain.DayHours{Start: "09:00", End: "17:00"}

	var got []types.TimeString
	for ts := range SlotTimes(hours, 30) {
		got = append(got, ts)
		if len(got) == 3 {
			break
		}
	}

	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:00"}, got)
}
