package roman

import (
	"testing"

	"github.com/jsphweid/chordgen/chord"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeTonicQualities(t *testing.T) {
	s, err := scale.BuildFromName("C", false)
	require.NoError(t, err)
	c := model.PitchClass(0)

	cases := []struct {
		quality  model.Quality
		expected string
	}{
		{model.QualityMajor, "I"},
		{model.QualityMinor, "i"},
		{model.QualityDiminished, "i°"},
		{model.QualitySus2, "Isus2"},
		{model.QualitySus4, "Isus4"},
	}
	for _, tc := range cases {
		t.Run(string(tc.quality), func(t *testing.T) {
			assert.Equal(t, tc.expected, Analyze(s, model.Major, c, tc.quality))
		})
	}
}

func TestAnalyzeDiatonicTriads(t *testing.T) {
	s, err := scale.BuildFromName("C", false)
	require.NoError(t, err)
	triads := chord.BuildTriads(s, chord.DefaultVoicing)

	assert.Equal(t, []string{"I", "ii", "iii", "IV", "V", "vi", "vii°"},
		Numerals(s, model.Major, model.Progression(triads)))
}

func TestAnalyzeMinorModeUsesLowercase(t *testing.T) {
	s, err := scale.BuildFromName("A", true)
	require.NoError(t, err)
	triads := chord.BuildTriads(s, chord.DefaultVoicing)

	assert.Equal(t, "i ii° iii iv v vi vii",
		Symbols(s, model.Minor, model.Progression(triads)))
}

func TestAnalyzeUnknownRoot(t *testing.T) {
	s, err := scale.BuildFromName("C", false)
	require.NoError(t, err)

	assert.Equal(t, Unknown, Analyze(s, model.Major, model.PitchClass(1), model.QualityMajor))
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, "F# minor", KeyName(model.Key{Root: 6, Mode: model.Minor}))
}
