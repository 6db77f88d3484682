package chord

import (
	"fmt"
	"testing"

	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustScale(t *testing.T, root string, isMinor bool) model.Scale {
	s, err := scale.BuildFromName(root, isMinor)
	require.NoError(t, err)
	return s
}

func TestClassicDiatonicQualitiesInCMajor(t *testing.T) {
	s := mustScale(t, "C", false)
	expected := []model.Quality{
		model.QualityMajor, model.QualityMinor, model.QualityMinor, model.QualityMajor,
		model.QualityMajor, model.QualityMinor, model.QualityDiminished,
	}

	assert := assert.New(t)
	for degree, q := range expected {
		assert.Equal(q, Quality(s, degree), "degree %d", degree)
	}
}

func TestClassicDiatonicQualitiesInAMinor(t *testing.T) {
	s := mustScale(t, "A", true)

	assert := assert.New(t)
	assert.Equal(model.QualityMinor, Quality(s, 0))
	assert.Equal(model.QualityDiminished, Quality(s, 1))
	assert.Equal(model.QualityMajor, Quality(s, 2))
	assert.Equal(model.QualityMinor, Quality(s, 4))
}

func TestQualityIsAlwaysATriadQuality(t *testing.T) {
	for _, root := range model.PitchClassNames {
		for _, isMinor := range []bool{false, true} {
			s := mustScale(t, root, isMinor)
			for degree := 0; degree < model.ScaleLength; degree++ {
				assert.Contains(t, []model.Quality{
					model.QualityMajor, model.QualityMinor, model.QualityDiminished,
				}, Quality(s, degree), "%v minor=%v degree %d", root, isMinor, degree)
			}
		}
	}
}

func TestBuildTriads(t *testing.T) {
	s := mustScale(t, "C", false)
	triads := BuildTriads(s, DefaultVoicing)

	assert := assert.New(t)
	assert.Len(triads, 7)

	first := triads[0]
	assert.Equal(model.PitchClass(0), first.Root)
	assert.Equal("C3", first.Notes[0].String())
	assert.Equal("C4", first.Notes[1].String())
	assert.Equal("E4", first.Notes[2].String())
	assert.Equal("G4", first.Notes[3].String())

	for _, c := range triads {
		assert.Len(c.Notes, model.VoiceCount)
		assert.Equal(c.Notes[1].Height()-12, c.Notes[0].Height())
	}
}

func TestBuildSusChords(t *testing.T) {
	s := mustScale(t, "C", false)
	sus := BuildSusChords(s, DefaultVoicing)

	assert := assert.New(t)
	assert.Len(sus, 14)
	assert.Equal(model.QualitySus2, sus[0].Quality)
	assert.Equal("D4", sus[0].Notes[2].String())
	assert.Equal(model.QualitySus4, sus[1].Quality)
	assert.Equal("F4", sus[1].Notes[2].String())
	for _, c := range sus {
		assert.Len(c.Notes, model.VoiceCount)
		assert.Equal(c.Notes[1].Height()-12, c.Notes[0].Height())
	}
}

func TestWithSusExtensionLeavesOriginalAlone(t *testing.T) {
	s := mustScale(t, "G", false)
	triads := BuildTriads(s, DefaultVoicing)
	original := triads[0]

	ext, ok := WithSusExtension(original, s, true)

	assert := assert.New(t)
	assert.True(ok)
	assert.Equal(model.QualitySus4, ext.Quality)
	assert.Equal("C4", ext.Notes[2].String())
	assert.Equal(original.Notes[0], ext.Notes[0])
	assert.Equal(original.Notes[1], ext.Notes[1])
	assert.Equal(original.Notes[3], ext.Notes[3])
	assert.Equal(model.QualityMajor, triads[0].Quality)
	assert.Equal("B4", triads[0].Notes[2].String())
}

func TestWithSusExtensionOutsideScale(t *testing.T) {
	s := mustScale(t, "C", false)
	foreign := BuildTriads(mustScale(t, "C#", false), DefaultVoicing)[0]

	_, ok := WithSusExtension(foreign, s, false)
	assert.False(t, ok)
}

func TestPickerOptionsOrder(t *testing.T) {
	s := mustScale(t, "A", true)
	opts := PickerOptions(s, DefaultVoicing)

	assert := assert.New(t)
	assert.Len(opts, 21)
	assert.Equal("C maj", opts[0].Name())
	assert.Equal("C sus2", opts[1].Name())
	assert.Equal("C sus4", opts[2].Name())
	for i := 1; i < len(opts); i++ {
		assert.LessOrEqual(opts[i-1].Root, opts[i].Root)
	}
}

func TestSignature(t *testing.T) {
	s := mustScale(t, "C", false)
	triads := BuildTriads(s, DefaultVoicing)
	cases := []struct {
		progression model.Progression
		expected    string
	}{
		{model.Progression{triads[0], triads[4], triads[5], triads[3]}, "CmajGmajAminFmaj"},
		{model.Progression{triads[6]}, "Bdim"},
		{nil, ""},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("signature %q", c.expected), func(t *testing.T) {
			assert.Equal(t, c.expected, Signature(c.progression))
		})
	}
}

func TestVoicingValidate(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(DefaultVoicing.Validate())
	assert.Error(Voicing{BassOctave: 4, UpperOctave: 4}.Validate())
	assert.Error(Voicing{BassOctave: 9, UpperOctave: 10}.Validate())
}
