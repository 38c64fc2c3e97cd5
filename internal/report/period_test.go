package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonth, p)

	p, err = ParsePeriod("Quarter")
	require.NoError(t, err)
	assert.Equal(t, PeriodQuarter, p)

	_, err = ParsePeriod("week")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestPeriodRange(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	ref := time.Date(2025, time.May, 17, 15, 30, 0, 0, loc)

	tests := []struct {
		period    Period
		from, to  time.Time
		priorFrom time.Time
	}{
		{
			PeriodMonth,
			time.Date(2025, time.May, 1, 0, 0, 0, 0, loc),
			time.Date(2025, time.June, 1, 0, 0, 0, 0, loc),
			time.Date(2025, time.April, 1, 0, 0, 0, 0, loc),
		},
		{
			PeriodQuarter,
			time.Date(2025, time.April, 1, 0, 0, 0, 0, loc),
			time.Date(2025, time.July, 1, 0, 0, 0, 0, loc),
			time.Date(2025, time.January, 1, 0, 0, 0, 0, loc),
		},
		{
			PeriodYear,
			time.Date(2025, time.January, 1, 0, 0, 0, 0, loc),
			time.Date(2026, time.January, 1, 0, 0, 0, 0, loc),
			time.Date(2024, time.January, 1, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			r := tt.period.Range(ref)
			assert.True(t, r.From.Equal(tt.from), r.From.String())
			assert.True(t, r.To.Equal(tt.to), r.To.String())
			assert.True(t, r.Contains(ref))
			assert.False(t, r.Contains(r.To))

			prior := tt.period.Prior(r)
			assert.True(t, prior.From.Equal(tt.priorFrom), prior.From.String())
			assert.True(t, prior.To.Equal(r.From))
		})
	}
}
