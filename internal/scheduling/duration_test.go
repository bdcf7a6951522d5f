package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawsched/pawsched-api/internal/models"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

func TestResolveNamedCodes(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	cases := map[models.DurationCode]time.Time{
		models.DurationDay:       start.Add(8 * time.Hour),
		models.DurationOvernight: start.Add(12 * time.Hour),
		models.DurationWeekday:   time.Date(2024, 3, 9, 9, 0, 0, 0, time.UTC),
		models.DurationWeekend:   time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
	}
	for code, want := range cases {
		got, err := Resolve(code, start, nil)
		require.NoError(t, err, code)
		assert.Equal(t, start, got.Start, code)
		assert.Equal(t, want, got.End, code)
	}
}

func TestResolveIgnoresEndForNamedCodes(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	got, err := Resolve(models.DurationDay, start, &end)
	require.NoError(t, err)
	assert.Equal(t, start.Add(8*time.Hour), got.End)
}

func TestResolveIsDeterministic(t *testing.T) {
	start := time.Date(2024, 12, 30, 22, 15, 0, 0, time.UTC)
	a, errA := Resolve(models.DurationWeekday, start, nil)
	b, errB := Resolve(models.DurationWeekday, start, nil)
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
}

func TestResolveCustom(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	end := start.Add(36 * time.Hour)

	got, err := Resolve(models.DurationCustom, start, &end)
	require.NoError(t, err)
	assert.Equal(t, end, got.End)

	_, err = Resolve(models.DurationCustom, start, &start)
	assert.ErrorIs(t, err, appErrors.ErrInvalidRange)

	before := start.Add(-time.Minute)
	_, err = Resolve(models.DurationCustom, start, &before)
	assert.ErrorIs(t, err, appErrors.ErrInvalidRange)

	_, err = Resolve(models.DurationCustom, start, nil)
	assert.ErrorIs(t, err, appErrors.ErrInvalidRange)
}

func TestResolveUnknownCode(t *testing.T) {
	_, err := Resolve(models.DurationCode("fortnight"), time.Now(), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownDurationCode.Code, appErrors.FromError(err).Code)
}
