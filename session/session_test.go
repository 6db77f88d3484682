package session

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/jsphweid/chordgen/chord"
	"github.com/jsphweid/chordgen/harmony"
	"github.com/jsphweid/chordgen/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(seed int64) *Session {
	sel := harmony.NewSelector(harmony.ClassicPolicy, rand.New(rand.NewSource(seed)))
	return New("test", sel, Defaults{Pattern: "none", Count: 4, Tempo: 120})
}

func generated(t *testing.T) (*Session, State) {
	s := newSession(7)
	c := model.PitchClass(0)
	st, err := s.Dispatch(Generate{Root: &c, Mode: model.Major})
	require.NoError(t, err)
	return s, st
}

func TestNewAppliesDefaults(t *testing.T) {
	sel := harmony.NewSelector(harmony.ClassicPolicy, rand.New(rand.NewSource(1)))
	st := New("x", sel, Defaults{Pattern: "nope", Count: 5, Tempo: 1000}).Snapshot()

	assert := assert.New(t)
	assert.Equal("none", st.Pattern.Name)
	assert.Equal(4, st.Count)
	assert.Equal(300, st.Tempo)
	assert.False(st.HasProgression())
}

func TestGenerate(t *testing.T) {
	_, st := generated(t)

	assert := assert.New(t)
	assert.Len(st.Progression, 4)
	assert.Equal(model.PitchClass(0), st.Key.Root)
	assert.Equal(chord.Signature(st.Progression), st.Signature)
	assert.Equal("C major", st.KeyName())
	assert.Len(st.Numerals(), 4)
	assert.Contains([]string{"I", "vi"}, st.Numerals()[0])
}

func TestGenerateTwiceDiffers(t *testing.T) {
	s, first := generated(t)
	c := model.PitchClass(0)
	second, err := s.Dispatch(Generate{Root: &c, Mode: model.Major})
	require.NoError(t, err)
	assert.NotEqual(t, first.Signature, second.Signature)
}

func TestSetCountAffectsNextGenerate(t *testing.T) {
	s := newSession(3)
	_, err := s.Dispatch(SetCount{Count: 8})
	require.NoError(t, err)
	st, err := s.Dispatch(Generate{})
	require.NoError(t, err)
	assert.Len(t, st.Progression, 8)

	_, err = s.Dispatch(SetCount{Count: 3})
	assert.ErrorIs(t, err, ErrInvalidCount)
	assert.Equal(t, 8, s.Snapshot().Count)
}

func TestSetExtensionsOnlyAddsSus(t *testing.T) {
	s := newSession(11)
	_, err := s.Dispatch(SetExtensions{Enabled: true})
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		st, err := s.Dispatch(Generate{})
		require.NoError(t, err)
		for _, c := range st.Progression {
			assert.NotEqual(t, model.QualityDiminished, c.Quality)
		}
	}
}

func TestReorderChord(t *testing.T) {
	s, before := generated(t)

	after, err := s.Dispatch(ReorderChord{From: 0, To: 3})
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(before.Progression[0], after.Progression[3])
	assert.Equal(before.Progression[1], after.Progression[0])
	assert.Equal(before.Progression[3], after.Progression[2])

	for _, tc := range []ReorderChord{{From: -1, To: 0}, {From: 0, To: 4}, {From: 4, To: 0}} {
		_, err := s.Dispatch(tc)
		assert.ErrorIs(err, ErrIndexOutOfRange)
	}
	assert.Equal(after.Progression, s.Snapshot().Progression)
}

func TestReplaceChordAt(t *testing.T) {
	s, st := generated(t)
	options := chord.PickerOptions(st.Scale, chord.DefaultVoicing)
	sus := options[1]

	after, err := s.Dispatch(ReplaceChordAt{Index: 2, Chord: sus})
	require.NoError(t, err)
	assert.Equal(t, sus, after.Progression[2])
	assert.Equal(t, st.Progression[1], after.Progression[1])

	_, err = s.Dispatch(ReplaceChordAt{Index: 9, Chord: sus})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestReplaceChordAtRejectsInvalidChord(t *testing.T) {
	s, st := generated(t)

	bad := st.Progression[0]
	bad.Notes[0].Octave = 7
	_, err := s.Dispatch(ReplaceChordAt{Index: 1, Chord: bad})
	assert.ErrorIs(t, err, model.ErrInvalidChord)

	_, err = s.Dispatch(ReplaceChordAt{Index: 1, Chord: model.Chord{}})
	assert.ErrorIs(t, err, model.ErrInvalidChord)

	assert.Equal(t, st.Progression, s.Snapshot().Progression)
}

func TestEditsNeedProgression(t *testing.T) {
	s := newSession(1)
	_, err := s.Dispatch(ReorderChord{From: 0, To: 1})
	assert.ErrorIs(t, err, ErrNoProgression)
	_, err = s.Dispatch(ReplaceChordAt{})
	assert.ErrorIs(t, err, ErrNoProgression)
	_, err = s.Snapshot().Timeline()
	assert.ErrorIs(t, err, ErrNoProgression)
}

func TestSetRhythmPattern(t *testing.T) {
	s, _ := generated(t)

	st, err := s.Dispatch(SetRhythmPattern{Pattern: "house"})
	require.NoError(t, err)
	assert.Equal(t, "house", st.Pattern.Name)

	st, err = s.Dispatch(SetRhythmPattern{Pattern: "polka"})
	require.NoError(t, err)
	assert.Equal(t, "none", st.Pattern.Name)

	tl, err := st.Timeline()
	require.NoError(t, err)
	assert.Equal(t, 64, tl.TotalUnits)
}

func TestSetTempoClamps(t *testing.T) {
	s := newSession(1)
	st, err := s.Dispatch(SetTempo{BPM: 5})
	require.NoError(t, err)
	assert.Equal(t, 20, st.Tempo)
}

func TestSnapshotIsolated(t *testing.T) {
	s, _ := generated(t)
	snap := s.Snapshot()
	snap.Progression[0] = model.Chord{}
	snap.Pattern.Chords[0] = 99
	assert.NotEqual(t, model.Chord{}, s.Snapshot().Progression[0])
	assert.Equal(t, 16, s.Snapshot().Pattern.Chords[0])
}

func TestConcurrentDispatchNeverTearsProgression(t *testing.T) {
	s, _ := generated(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Dispatch(ReorderChord{From: i % 4, To: (i + 1) % 4})
			st := s.Snapshot()
			assert.Len(t, st.Progression, 4)
		}(i)
	}
	wg.Wait()
}

func TestBatchIsAllOrNothing(t *testing.T) {
	s, st := generated(t)

	_, err := s.Dispatch(Batch{
		SetRhythmPattern{Pattern: "house"},
		SetExtensions{Enabled: true},
		SetCount{Count: 5},
		Generate{},
	})
	assert.ErrorIs(t, err, ErrInvalidCount)
	assert.Contains(t, err.Error(), "batch: set count")

	after := s.Snapshot()
	assert.Equal(t, st.Pattern.Name, after.Pattern.Name)
	assert.Equal(t, st.Extensions, after.Extensions)
	assert.Equal(t, st.Progression, after.Progression)

	c := model.PitchClass(7)
	after, err = s.Dispatch(Batch{SetCount{Count: 8}, SetRhythmPattern{Pattern: "house"}, Generate{Root: &c, Mode: model.Major}})
	require.NoError(t, err)
	assert.Len(t, after.Progression, 8)
	assert.Equal(t, "house", after.Pattern.Name)
	assert.Equal(t, c, after.Key.Root)
}
