package rhythm

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/logger"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/util"
)

var ErrUnknownPattern = errors.New("unknown rhythm pattern")

// RestUnits is how far a 0 step advances the cursor.
const RestUnits = 1

// Predefined patterns, applied once per chord.
var patterns = map[string]model.RhythmPattern{
	"none": {
		Name:   "none",
		Chords: []int{constants.UnitsPerBar},
		Bass:   []int{constants.UnitsPerBar},
	},
	"house": {
		Name:   "house",
		Chords: []int{4, 4, 4, 4},
		Bass:   []int{0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1},
	},
	"trance": {
		Name:   "trance",
		Chords: []int{2, 2, 2, 2},
		Bass:   []int{1, 1, 1, 1, 1, 1, 1, 1},
	},
	"syncopated": {
		Name:   "syncopated",
		Chords: []int{1, 0, 1, 1, 0, 1},
		Bass:   []int{0, 1, 0, 1, 1, 0},
	},
}

// Lookup returns a copy of the named pattern.
func Lookup(name string) (model.RhythmPattern, error) {
	p, ok := patterns[name]
	if !ok {
		return model.RhythmPattern{}, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return clone(p), nil
}

// LookupOrDefault falls back to the "none" pattern and logs the substitution.
func LookupOrDefault(name string) model.RhythmPattern {
	p, err := Lookup(name)
	if err != nil {
		logger.Warn("unknown rhythm pattern, using default", logger.Fields{
			"requested": name,
			"fallback":  constants.DefaultPattern,
		})
		return clone(patterns[constants.DefaultPattern])
	}
	return p
}

func Names() []string {
	names := util.GetKeys(patterns)
	sort.Strings(names)
	return names
}

func All() []model.RhythmPattern {
	var res []model.RhythmPattern
	for _, name := range Names() {
		res = append(res, clone(patterns[name]))
	}
	return res
}

func clone(p model.RhythmPattern) model.RhythmPattern {
	return model.RhythmPattern{
		Name:   p.Name,
		Chords: append([]int(nil), p.Chords...),
		Bass:   append([]int(nil), p.Bass...),
	}
}

// StepUnits is the cursor advance of a single step.
func StepUnits(step int) int {
	if step == 0 {
		return RestUnits
	}
	return step
}

// LayerUnits is the length of one pass over a layer's steps.
func LayerUnits(steps []int) int {
	total := 0
	for _, s := range steps {
		total += StepUnits(s)
	}
	return total
}

func Validate(p model.RhythmPattern) error {
	if len(p.Chords) == 0 || len(p.Bass) == 0 {
		return fmt.Errorf("pattern %q has an empty layer", p.Name)
	}
	for _, s := range append(append([]int(nil), p.Chords...), p.Bass...) {
		if s < 0 {
			return fmt.Errorf("pattern %q has negative step %d", p.Name, s)
		}
	}
	return nil
}
