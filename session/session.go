package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/harmony"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/rhythm"
	"github.com/jsphweid/chordgen/roman"
	"github.com/jsphweid/chordgen/timeline"
	"github.com/jsphweid/chordgen/util"
)

var (
	ErrIndexOutOfRange = errors.New("chord index out of range")
	ErrNoProgression   = errors.New("no progression generated yet")
	ErrInvalidCount    = errors.New("progression length must be 4 or 8")
)

// State is an immutable snapshot of one editing session. Commands never
// modify a State in place, they return a new one.
type State struct {
	Key         model.Key
	Scale       model.Scale
	Progression model.Progression
	Pattern     model.RhythmPattern
	Count       int
	Extensions  bool
	Tempo       int
	// Signature of the last generated progression, used to avoid repeats.
	Signature string
}

func (s State) clone() State {
	res := s
	res.Progression = s.Progression.Clone()
	res.Pattern = model.RhythmPattern{
		Name:   s.Pattern.Name,
		Chords: append([]int(nil), s.Pattern.Chords...),
		Bass:   append([]int(nil), s.Pattern.Bass...),
	}
	return res
}

func (s State) HasProgression() bool {
	return len(s.Progression) > 0
}

func (s State) Numerals() []string {
	return roman.Numerals(s.Scale, s.Key.Mode, s.Progression)
}

func (s State) Symbols() string {
	return roman.Symbols(s.Scale, s.Key.Mode, s.Progression)
}

func (s State) KeyName() string {
	return roman.KeyName(s.Key)
}

func (s State) Timeline() (timeline.Timeline, error) {
	if !s.HasProgression() {
		return timeline.Timeline{}, ErrNoProgression
	}
	return timeline.Build(s.Progression, s.Pattern)
}

type Defaults struct {
	Pattern    string
	Count      int
	Extensions bool
	Tempo      int
}

// Session serialises commands against a single State.
type Session struct {
	ID string

	mu       sync.RWMutex
	state    State
	selector *harmony.Selector
}

func New(id string, selector *harmony.Selector, d Defaults) *Session {
	count := d.Count
	if !validCount(count) {
		count = constants.ShortProgression
	}
	tempo := d.Tempo
	if tempo == 0 {
		tempo = constants.DefaultTempo
	}
	return &Session{
		ID:       id,
		selector: selector,
		state: State{
			Pattern:    rhythm.LookupOrDefault(d.Pattern),
			Count:      count,
			Extensions: d.Extensions,
			Tempo:      util.Clamp(tempo, constants.MinTempo, constants.MaxTempo),
		},
	}
}

func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Dispatch applies cmd and swaps in the resulting state. A failed command
// leaves the session untouched.
func (s *Session) Dispatch(cmd Command) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := cmd.apply(s.selector, s.state.clone())
	if err != nil {
		return s.state.clone(), fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	s.state = next
	return next.clone(), nil
}

func validCount(n int) bool {
	return n == constants.ShortProgression || n == constants.LongProgression
}
