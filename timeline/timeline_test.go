package timeline

import (
	"testing"
	"time"

	"github.com/jsphweid/chordgen/chord"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/rhythm"
	"github.com/jsphweid/chordgen/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func progression(t *testing.T, degrees ...int) (model.Progression, model.Scale) {
	s, err := scale.BuildFromName("C", false)
	require.NoError(t, err)
	triads := chord.BuildTriads(s, chord.DefaultVoicing)
	var p model.Progression
	for _, d := range degrees {
		p = append(p, triads[d])
	}
	return p, s
}

func TestNonePatternOneBarPerChord(t *testing.T) {
	p, _ := progression(t, 0, 4, 5, 3)
	none, err := rhythm.Lookup("none")
	require.NoError(t, err)

	tl, err := Build(p, none)
	require.NoError(t, err)

	for _, layer := range []model.Layer{model.LayerChord, model.LayerBass} {
		events := tl.Layer(layer)
		require.Len(t, events, 4)
		for i, e := range events {
			assert.Equal(t, 16, e.DurationUnits)
			assert.Equal(t, i*16, e.StartUnits)
			assert.Equal(t, i, e.ChordIndex)
			if i > 0 {
				assert.GreaterOrEqual(t, e.StartUnits, events[i-1].EndUnits())
			}
		}
	}
	assert.Equal(t, 64, tl.TotalUnits)
}

func TestRestsAdvanceCursorWithoutEvents(t *testing.T) {
	p, _ := progression(t, 0)
	pattern := model.RhythmPattern{Name: "test", Chords: []int{1, 0, 1, 1, 0, 1}, Bass: []int{6}}

	tl, err := Build(p, pattern)
	require.NoError(t, err)

	events := tl.Layer(model.LayerChord)
	require.Len(t, events, 4)
	starts := []int{}
	for _, e := range events {
		starts = append(starts, e.StartUnits)
		assert.Equal(t, 1, e.DurationUnits)
	}
	assert.Equal(t, []int{0, 2, 3, 5}, starts)
	assert.Equal(t, 6, tl.ChordUnits)
}

func TestEventsOwnTheirNotes(t *testing.T) {
	p, _ := progression(t, 0)
	pattern := model.RhythmPattern{Name: "test", Chords: []int{2, 2}, Bass: []int{2, 2}}

	tl, err := Build(p, pattern)
	require.NoError(t, err)

	for _, layer := range []model.Layer{model.LayerChord, model.LayerBass} {
		events := tl.Layer(layer)
		require.Len(t, events, 2)
		want := events[1].Notes[0]
		events[0].Notes[0] = model.Note{Pitch: 11, Octave: 1}
		assert.Equal(t, want, events[1].Notes[0])
	}
	assert.Equal(t, model.Note{Pitch: 0, Octave: 4}, p[0].Notes[1])
}

func TestCursorRunsAcrossChords(t *testing.T) {
	p, _ := progression(t, 0, 4)
	syncopated, err := rhythm.Lookup("syncopated")
	require.NoError(t, err)

	tl, err := Build(p, syncopated)
	require.NoError(t, err)

	bass := tl.Layer(model.LayerBass)
	starts := []int{}
	for _, e := range bass {
		starts = append(starts, e.StartUnits)
	}
	assert.Equal(t, []int{1, 3, 4, 7, 9, 10}, starts)
	assert.Equal(t, 1, bass[3].ChordIndex)
}

func TestLayersCarryTheirVoices(t *testing.T) {
	p, _ := progression(t, 0)
	none, err := rhythm.Lookup("none")
	require.NoError(t, err)

	tl, err := Build(p, none)
	require.NoError(t, err)

	chordEvent := tl.Layer(model.LayerChord)[0]
	bassEvent := tl.Layer(model.LayerBass)[0]
	assert.Equal(t, p[0].Upper(), chordEvent.Notes)
	assert.Equal(t, []model.Note{p[0].Bass()}, bassEvent.Notes)
}

func TestEqualLayerTotalsShareDuration(t *testing.T) {
	p, _ := progression(t, 0, 3, 4, 0)
	for _, pattern := range rhythm.All() {
		tl, err := Build(p, pattern)
		require.NoError(t, err)
		assert.Equal(t, tl.ChordUnits, tl.BassUnits, pattern.Name)
		assert.Equal(t, tl.ChordUnits, tl.TotalUnits, pattern.Name)
	}
}

func TestMismatchedLayersUseLongerTotal(t *testing.T) {
	p, _ := progression(t, 0, 4)
	pattern := model.RhythmPattern{Name: "uneven", Chords: []int{4, 4}, Bass: []int{16}}

	tl, err := Build(p, pattern)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(16, tl.ChordUnits)
	assert.Equal(32, tl.BassUnits)
	assert.Equal(32, tl.TotalUnits)
	assert.Equal(4*time.Second, tl.Duration(120))
}

func TestEventsAreTimeOrdered(t *testing.T) {
	p, _ := progression(t, 0, 3, 4, 0)
	house, err := rhythm.Lookup("house")
	require.NoError(t, err)

	tl, err := Build(p, house)
	require.NoError(t, err)
	for i := 1; i < len(tl.Events); i++ {
		assert.LessOrEqual(t, tl.Events[i-1].StartUnits, tl.Events[i].StartUnits)
	}
}

func TestEmptyProgressionFails(t *testing.T) {
	none, err := rhythm.Lookup("none")
	require.NoError(t, err)

	_, err = Build(nil, none)
	assert.ErrorIs(t, err, ErrEmptyProgression)
}

func TestInvalidPatternFails(t *testing.T) {
	p, _ := progression(t, 0)
	_, err := Build(p, model.RhythmPattern{Name: "broken", Chords: []int{}, Bass: []int{1}})
	assert.Error(t, err)
}

func TestPositionLookup(t *testing.T) {
	p, _ := progression(t, 0, 4)
	none, err := rhythm.Lookup("none")
	require.NoError(t, err)
	tl, err := Build(p, none)
	require.NoError(t, err)

	assert := assert.New(t)
	sounding := tl.At(20)
	require.Len(t, sounding, 2)
	for _, e := range sounding {
		assert.Equal(1, e.ChordIndex)
	}
	assert.Empty(tl.At(32))
	assert.Equal(0.5, tl.Fraction(16))
	assert.Equal(1.0, tl.Fraction(40))
	assert.Equal(0.0, tl.Fraction(-1))
	assert.InDelta(8.0, UnitsAt(time.Second, 120), 1e-9)
}

func TestSlotRange(t *testing.T) {
	p, _ := progression(t, 0, 4, 5)
	syncopated, err := rhythm.Lookup("syncopated")
	require.NoError(t, err)
	tl, err := Build(p, syncopated)
	require.NoError(t, err)

	start, end, ok := tl.SlotRange(1)
	require.True(t, ok)
	assert.Equal(t, 6, start)
	assert.Equal(t, 12, end)

	_, _, ok = tl.SlotRange(3)
	assert.False(t, ok)
}
