package period

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/types"
)

func TestParseInterval(t *testing.T) {
	i, err := ParseInterval("2w")
	require.NoError(t, err)
	assert.Equal(t, Interval{N: 2, Unit: 'w'}, i)

	for _, bad := range []string{"", "0d", "d", "3x", "1.5d"} {
		_, err := ParseInterval(bad)
		assert.True(t, errors.Is(err, errs.ErrConfiguration), bad)
	}
}

func TestGenerateDaily(t *testing.T) {
	spec, err := ParseSpec(types.Params{
		"start":         "2024-01-01",
		"end":           "2024-01-05",
		"interval":      "1d",
		"string_format": "%Y-%m-%d",
	})
	require.NoError(t, err)

	tbl := Generate(spec)
	require.Equal(t, 5, tbl.Len())
	assert.Equal(t, "2024-01-01", tbl.Rows[0]["bop"])
	assert.Equal(t, "2024-01-02", tbl.Rows[0]["eop"])
	assert.Equal(t, "2024-01-05", tbl.Rows[4]["bop"])
}

func TestGenerateMonthlyClosed(t *testing.T) {
	spec := Spec{
		Start:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Interval: Interval{N: 1, Unit: 'm'},
		Closed:   true,
	}
	tbl := Generate(spec)
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), tbl.Rows[0]["eop"])
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), tbl.Rows[1]["eop"])
}

func TestParseSpecErrors(t *testing.T) {
	_, err := ParseSpec(types.Params{"end": "2024-01-01"})
	assert.True(t, errors.Is(err, errs.ErrConfiguration))

	_, err = ParseSpec(types.Params{"start": "2024-02-01", "end": "2024-01-01"})
	assert.True(t, errors.Is(err, errs.ErrConfiguration))

	_, err = ParseSpec(types.Params{"start": "01/02/2024", "end": "2024-01-01"})
	assert.True(t, errors.Is(err, errs.ErrConfiguration))
}

func TestLayout(t *testing.T) {
	assert.Equal(t, "2006/01/02 15:04", Layout("%Y/%m/%d %H:%M"))
	assert.Equal(t, "2006-01-02", Layout("2006-01-02"))
}
