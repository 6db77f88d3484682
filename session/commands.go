package session

import (
	"fmt"

	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/harmony"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/rhythm"
	"github.com/jsphweid/chordgen/util"
)

type Command interface {
	Name() string
	apply(sel *harmony.Selector, st State) (State, error)
}

// Generate replaces the progression wholesale. A nil Root or empty Mode is
// picked at random.
type Generate struct {
	Root *model.PitchClass
	Mode model.Mode
}

func (Generate) Name() string { return "generate" }

func (c Generate) apply(sel *harmony.Selector, st State) (State, error) {
	res, err := sel.Generate(harmony.Request{
		Root:       c.Root,
		Mode:       c.Mode,
		Count:      st.Count,
		Extensions: st.Extensions,
	}, st.Signature)
	if err != nil {
		return st, err
	}
	st.Key = res.Key
	st.Scale = res.Scale
	st.Progression = res.Progression
	st.Signature = res.Signature
	return st, nil
}

// ReorderChord moves the chord at From so it ends up at To.
type ReorderChord struct {
	From int
	To   int
}

func (ReorderChord) Name() string { return "reorder" }

func (c ReorderChord) apply(_ *harmony.Selector, st State) (State, error) {
	n := len(st.Progression)
	if n == 0 {
		return st, ErrNoProgression
	}
	if c.From < 0 || c.From >= n || c.To < 0 || c.To >= n {
		return st, fmt.Errorf("%w: move %d to %d of %d", ErrIndexOutOfRange, c.From, c.To, n)
	}
	st.Progression = util.Move(st.Progression, c.From, c.To)
	return st, nil
}

type ReplaceChordAt struct {
	Index int
	Chord model.Chord
}

func (ReplaceChordAt) Name() string { return "replace" }

func (c ReplaceChordAt) apply(_ *harmony.Selector, st State) (State, error) {
	n := len(st.Progression)
	if n == 0 {
		return st, ErrNoProgression
	}
	if c.Index < 0 || c.Index >= n {
		return st, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, c.Index, n)
	}
	if err := c.Chord.Validate(); err != nil {
		return st, err
	}
	st.Progression[c.Index] = c.Chord
	return st, nil
}

// SetRhythmPattern never fails; unknown names fall back to the default pattern.
type SetRhythmPattern struct {
	Pattern string
}

func (SetRhythmPattern) Name() string { return "set pattern" }

func (c SetRhythmPattern) apply(_ *harmony.Selector, st State) (State, error) {
	st.Pattern = rhythm.LookupOrDefault(c.Pattern)
	return st, nil
}

// SetCount takes effect on the next Generate.
type SetCount struct {
	Count int
}

func (SetCount) Name() string { return "set count" }

func (c SetCount) apply(_ *harmony.Selector, st State) (State, error) {
	if !validCount(c.Count) {
		return st, fmt.Errorf("%w: got %d", ErrInvalidCount, c.Count)
	}
	st.Count = c.Count
	return st, nil
}

type SetExtensions struct {
	Enabled bool
}

func (SetExtensions) Name() string { return "set extensions" }

func (c SetExtensions) apply(_ *harmony.Selector, st State) (State, error) {
	st.Extensions = c.Enabled
	return st, nil
}

// SetTempo clamps bpm into the supported range.
type SetTempo struct {
	BPM int
}

func (SetTempo) Name() string { return "set tempo" }

func (c SetTempo) apply(_ *harmony.Selector, st State) (State, error) {
	st.Tempo = util.Clamp(c.BPM, constants.MinTempo, constants.MaxTempo)
	return st, nil
}

// Batch applies its commands in order as one step. Either all of them land or
// none do.
type Batch []Command

func (Batch) Name() string { return "batch" }

func (b Batch) apply(sel *harmony.Selector, st State) (State, error) {
	var err error
	for _, c := range b {
		if st, err = c.apply(sel, st); err != nil {
			return st, fmt.Errorf("%s: %w", c.Name(), err)
		}
	}
	return st, nil
}
