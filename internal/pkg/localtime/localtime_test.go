package localtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	d, err := ParseDay("wednesday")
	require.NoError(t, err)
	assert.Equal(t, Wednesday, d)

	_, err = ParseDay("Wednesday")
	assert.Error(t, err)

	_, err = ParseDay("someday")
	assert.Error(t, err)
}

func TestFromWeekday(t *testing.T) {
	assert.Equal(t, Monday, FromWeekday(time.Monday))
	assert.Equal(t, Saturday, FromWeekday(time.Saturday))
	assert.Equal(t, Sunday, FromWeekday(time.Sunday))
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(9*60+30), tod)
	assert.Equal(t, "09:30", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("9:30am")
	assert.Error(t, err)
}

func TestOverlaps(t *testing.T) {
	nine, ten, eleven := TimeOfDay(9*60), TimeOfDay(10*60), TimeOfDay(11*60)

	assert.True(t, Overlaps(nine, eleven, ten, ten+30))
	assert.True(t, Overlaps(nine, ten, nine+30, eleven))

	// Half-open: touching intervals do not overlap.
	assert.False(t, Overlaps(nine, ten, ten, eleven))
	assert.False(t, Overlaps(ten, eleven, nine, ten))
}

func TestProject(t *testing.T) {
	// 2025-03-05 16:45 UTC is a Wednesday.
	instant := time.Date(2025, time.March, 5, 16, 45, 0, 0, time.UTC)

	day, tod := Project(instant, time.UTC)
	assert.Equal(t, Wednesday, day)
	assert.Equal(t, TimeOfDay(16*60+45), tod)

	// The same instant in Tokyo (UTC+9) is already Thursday morning.
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	day, tod = Project(instant, tokyo)
	assert.Equal(t, Thursday, day)
	assert.Equal(t, TimeOfDay(1*60+45), tod)
}
