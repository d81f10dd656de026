package kmeans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
	}{
		{"random", StrategyRandom},
		{"RANDOM", StrategyRandom},
		{"farthest_first", StrategyFarthestFirst},
		{"farthest-first", StrategyFarthestFirst},
		{"kmeans++", StrategyKMeansPlusPlus},
		{"kmeans_plus_plus", StrategyKMeansPlusPlus},
		{" kmeanspp ", StrategyKMeansPlusPlus},
		{"manual", StrategyManual},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseStrategy("spectral")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestStrategyText(t *testing.T) {
	for _, s := range []Strategy{StrategyRandom, StrategyFarthestFirst, StrategyKMeansPlusPlus, StrategyManual} {
		b, err := s.MarshalText()
		require.NoError(t, err)

		var got Strategy
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, s, got)
	}

	_, err := Strategy(42).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	assert.Equal(t, "Unknown(42)", Strategy(42).String())
	assert.False(t, Strategy(42).Valid())
}
