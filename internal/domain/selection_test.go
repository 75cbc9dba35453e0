package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelection(t *testing.T) {
	t.Run("all", func(t *testing.T) {
		sel, err := NewSelection(MetricDeforestation, []string{AllCountries}, 2010, 2020)
		require.NoError(t, err)
		assert.Equal(t, ModeAll, sel.Mode)
		assert.Empty(t, sel.Countries)
		assert.NoError(t, sel.Validate())
	})

	t.Run("subset dedupes and keeps order", func(t *testing.T) {
		sel, err := NewSelection(MetricWaterPollution, []string{"Spain", " France ", "Spain", ""}, 2012, 2014)
		require.NoError(t, err)
		assert.Equal(t, ModeSubset, sel.Mode)
		assert.Equal(t, []string{"Spain", "France"}, sel.Countries)
		assert.Equal(t, YearRange{Min: 2012, Max: 2014}, sel.Years)
	})

	t.Run("nothing chosen", func(t *testing.T) {
		_, err := NewSelection(MetricWaterPollution, nil, 2010, 2020)
		require.ErrorIs(t, err, ErrNoCountry)
		assert.Equal(t, "Please choose a country.", Warning(err))
	})

	t.Run("all with countries", func(t *testing.T) {
		sel, err := NewSelection(MetricWaterPollution, []string{AllCountries, "Spain"}, 2010, 2020)
		require.ErrorIs(t, err, ErrMixedSelection)
		assert.Equal(t, "Please select either 'All' or individual countries, not both.", Warning(err))
		assert.ErrorIs(t, sel.Validate(), ErrMixedSelection)
	})

	t.Run("range checked by validate", func(t *testing.T) {
		sel, err := NewSelection(MetricWaterPollution, []string{AllCountries}, 2018, 2012)
		require.NoError(t, err)
		err = sel.Validate()
		require.ErrorIs(t, err, ErrInvalidRange)
		assert.Equal(t, "Max year cannot be less than min year.", Warning(err))
	})
}

func TestSelection_ValidateOrder(t *testing.T) {
	// A selection that is wrong in several ways reports the country problem first.
	sel := Selection{Metric: "bogus", Mode: ModeSubset, Years: YearRange{Min: 2020, Max: 2010}}
	assert.ErrorIs(t, sel.Validate(), ErrNoCountry)

	sel.Countries = []string{"Spain"}
	assert.ErrorIs(t, sel.Validate(), ErrInvalidRange)

	sel.Years = YearRange{Min: 2010, Max: 2020}
	assert.ErrorIs(t, sel.Validate(), ErrUnknownMetric)
}

func TestSelection_YearsBetweenValidYears(t *testing.T) {
	sel := AllSelection(MetricWaterPollution, YearRange{Min: 2011, Max: 2013})
	assert.NoError(t, sel.Validate())
}

func TestParseMetric(t *testing.T) {
	cases := map[string]Metric{
		"water_pollution":    MetricWaterPollution,
		"Water Pollution":    MetricWaterPollution,
		"SOIL_CONTAMINATION": MetricSoilContamination,
		" deforestation ":    MetricDeforestation,
	}
	for in, want := range cases {
		got, err := ParseMetric(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMetric("noise")
	require.ErrorIs(t, err, ErrUnknownMetric)
	assert.Contains(t, err.Error(), `"noise"`)
}

func TestMetric_Value(t *testing.T) {
	r := Record{WaterPollution: 1, SoilContamination: 2, Deforestation: 3}
	assert.InDelta(t, 1.0, MetricWaterPollution.Value(r), 0)
	assert.InDelta(t, 2.0, MetricSoilContamination.Value(r), 0)
	assert.InDelta(t, 3.0, MetricDeforestation.Value(r), 0)
	assert.True(t, math.IsNaN(Metric("x").Value(r)))
	assert.Equal(t, "soil contamination", MetricSoilContamination.Phrase())
}

func TestIsExcludedCountry(t *testing.T) {
	assert.True(t, IsExcludedCountry("European Union"))
	assert.True(t, IsExcludedCountry("European Union - 28 countries (2013-2020)"))
	assert.False(t, IsExcludedCountry("Germany"))
}

func TestIsValidYear(t *testing.T) {
	for _, y := range ValidYears {
		assert.True(t, IsValidYear(y))
	}
	assert.False(t, IsValidYear(2011))
}
