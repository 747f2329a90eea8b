package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anchors(ticks []Tick) []time.Time {
	out := make([]time.Time, len(ticks))
	for i, tk := range ticks {
		out[i] = tk.Anchor
	}
	return out
}

func TestGenerateTicks(t *testing.T) {
	tests := []struct {
		name string
		rng  VisibleRange
		g    Granularity
		want []time.Time
	}{
		{
			name: "day",
			rng:  VisibleRange{Min: day(2025, 1, 30), Max: EndOfDay(day(2025, 2, 2))},
			g:    Day,
			want: []time.Time{day(2025, 1, 30), day(2025, 1, 31), day(2025, 2, 1), day(2025, 2, 2)},
		},
		{
			name: "week floors to monday",
			rng:  VisibleRange{Min: day(2025, 1, 19), Max: day(2025, 1, 28)}, // Sunday..Tuesday
			g:    Week,
			want: []time.Time{day(2025, 1, 13), day(2025, 1, 20), day(2025, 1, 27)},
		},
		{
			name: "month includes trailing partial month",
			rng:  VisibleRange{Min: day(2025, 1, 15), Max: day(2025, 3, 10)},
			g:    Month,
			want: []time.Time{day(2025, 1, 1), day(2025, 2, 1), day(2025, 3, 1)},
		},
		{
			name: "month stops before exact boundary",
			rng:  VisibleRange{Min: day(2025, 1, 15), Max: day(2025, 3, 1)},
			g:    Month,
			want: []time.Time{day(2025, 1, 1), day(2025, 2, 1)},
		},
		{
			name: "year across new year",
			rng:  VisibleRange{Min: day(2023, 12, 30), Max: EndOfDay(day(2024, 1, 3))},
			g:    Year,
			want: []time.Time{day(2023, 1, 1), day(2024, 1, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateTicks(tt.rng, tt.g)
			assert.Equal(t, tt.want, anchors(got))
		})
	}
}

func TestGenerateTicks_KeysUniqueWhenLabelsRepeat(t *testing.T) {
	// Jan 1 2018 and Jan 1 2024 are both Mondays: identical day labels.
	rng := VisibleRange{Min: day(2018, 1, 1), Max: day(2024, 1, 2)}
	ticks := GenerateTicks(rng, Day)
	require.NotEmpty(t, ticks)

	keys := make(map[string]bool, len(ticks))
	labels := make(map[string]int, len(ticks))
	for _, tk := range ticks {
		assert.False(t, keys[tk.Key], "duplicate key %s", tk.Key)
		keys[tk.Key] = true
		labels[tk.Label]++
	}
	assert.Equal(t, 2, labels["Mon 01 Jan"])
	assert.Len(t, keys, len(ticks))
}

func TestGenerateTicks_KeyEncodesPeriodStart(t *testing.T) {
	ticks := GenerateTicks(VisibleRange{Min: day(2024, 5, 1), Max: day(2024, 5, 2)}, Day)
	require.Len(t, ticks, 1)
	assert.Equal(t, "day-1714521600000", ticks[0].Key)
}

func TestTickLabel(t *testing.T) {
	monday := day(2024, 2, 26)
	assert.Equal(t, "Mon 26 Feb", TickLabel(monday, Day))
	assert.Equal(t, "W09 · Feb 26", TickLabel(monday, Week))
	assert.Equal(t, "Feb 2024", TickLabel(monday, Month))
	assert.Equal(t, "2024", TickLabel(monday, Year))
}

func TestParseGranularity(t *testing.T) {
	tests := []struct {
		input string
		want  Granularity
	}{
		{"day", Day},
		{"WEEK", Week},
		{" month ", Month},
		{"year", Year},
		{"", Week},
		{"quarter", Week},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseGranularity(tt.input))
		})
	}
}
