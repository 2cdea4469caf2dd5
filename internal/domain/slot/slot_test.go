package slot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_MondayMorning(t *testing.T) {
	slots, err := Generate(9*60, 11*60, DefaultDuration)
	require.NoError(t, err)

	labels := make([]string, 0, len(slots))
	for _, s := range slots {
		labels = append(labels, s.Label())
	}
	assert.Equal(t, []string{
		"09:00 AM - 09:40 AM",
		"09:40 AM - 10:20 AM",
		"10:20 AM - 11:00 AM",
	}, labels)
}

func TestGenerate_DropsTrailingPartialSlot(t *testing.T) {
	slots, err := Generate(9*60, 10*60, DefaultDuration)
	require.NoError(t, err)

	require.Len(t, slots, 1)
	assert.Equal(t, Slot{Start: 540, End: 580}, slots[0])
}

func TestGenerate_Properties(t *testing.T) {
	durations := []time.Duration{15 * time.Minute, 30 * time.Minute, 40 * time.Minute, 55 * time.Minute}

	for start := Minute(0); start < MinutesPerDay; start += 97 {
		for end := start + 1; end <= MinutesPerDay; end += 113 {
			for _, d := range durations {
				slots, err := Generate(start, end, d)
				require.NoError(t, err)

				step := Minute(d / time.Minute)
				assert.Len(t, slots, int((end-start)/step))

				for i, s := range slots {
					assert.Equal(t, d, s.Duration())
					assert.LessOrEqual(t, s.End, end)
					if i == 0 {
						assert.Equal(t, start, s.Start)
						continue
					}
					assert.Equal(t, slots[i-1].End, s.Start, "slots must be contiguous")
					assert.False(t, slots[i-1].Overlaps(s))
				}
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(8*60, 18*60, DefaultDuration)
	require.NoError(t, err)
	b, err := Generate(8*60, 18*60, DefaultDuration)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerate_Rejects(t *testing.T) {
	_, err := Generate(600, 600, DefaultDuration)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = Generate(660, 600, DefaultDuration)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = Generate(540, 600, 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = Generate(540, 600, 90*time.Second)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestParseLabel_RoundTrip(t *testing.T) {
	slots, err := Generate(0, MinutesPerDay, DefaultDuration)
	require.NoError(t, err)

	for _, s := range slots {
		got, err := ParseLabel(s.Label())
		require.NoError(t, err, s.Label())
		assert.Equal(t, s, got)
	}
}

func TestParseLabel_Afternoon(t *testing.T) {
	s, err := ParseLabel("02:00 PM - 02:40 PM")
	require.NoError(t, err)
	assert.Equal(t, Slot{Start: 14 * 60, End: 14*60 + 40}, s)
}

func TestParseLabel_Invalid(t *testing.T) {
	for _, label := range []string{
		"",
		"09:00 - 09:40",
		"09:00 AM-09:40 AM",
		"09:40 AM - 09:00 AM",
		"13:00 PM - 01:40 PM",
	} {
		_, err := ParseLabel(label)
		assert.ErrorIs(t, err, ErrInvalidLabel, label)
	}
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:40")
	require.NoError(t, err)
	assert.Equal(t, Minute(580), m)
	assert.Equal(t, "09:40", m.Clock())
	assert.Equal(t, "09:40 AM", m.Format())

	m, err = ParseClock("24:00")
	require.NoError(t, err)
	assert.Equal(t, Minute(MinutesPerDay), m)

	_, err = ParseClock("9h")
	assert.ErrorIs(t, err, ErrInvalidClock)
}

func TestOverlaps_HalfOpen(t *testing.T) {
	a := Slot{Start: 540, End: 580}
	assert.True(t, a.Overlaps(Slot{Start: 560, End: 600}))
	assert.True(t, a.Overlaps(Slot{Start: 500, End: 541}))
	assert.False(t, a.Overlaps(Slot{Start: 580, End: 620}))
	assert.False(t, a.Overlaps(Slot{Start: 500, End: 540}))
}

func TestMinuteOn(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	got := Minute(9*60 + 40).On(date)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 40, 0, 0, loc), got)
}
