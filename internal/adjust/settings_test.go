package adjust

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
	}{
		{"none", FilterNone},
		{"vintage", FilterVintage},
		{"Cool Tone", FilterCool},
		{"WARM", FilterWarm},
		{"dramatic", FilterDramatic},
	}
	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseFilter("noir")
	assert.Error(t, err)
}

func TestFiltersAreClosed(t *testing.T) {
	all := Filters()
	require.Len(t, all, 5)
	for _, f := range all {
		assert.True(t, f.Valid())
		assert.NotContains(t, f.String(), "filter(")
	}
	assert.False(t, Filter(99).Valid())
}

func TestClampAndValidate(t *testing.T) {
	s := Settings{Brightness: 3, Contrast: -1, Saturation: math.NaN(), HueShift: 400, Filter: Filter(42)}
	require.Error(t, s.Validate())

	c := s.Clamp()
	assert.Equal(t, Settings{Brightness: 2, Contrast: 0, Saturation: 0, HueShift: 180, Filter: FilterNone}, c)
	assert.NoError(t, c.Validate())

	assert.True(t, DefaultSettings().IsIdentity())
	assert.NoError(t, DefaultSettings().Validate())
}
