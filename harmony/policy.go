package harmony

import (
	"fmt"

	"github.com/jsphweid/chordgen/model"
)

type Function string

const (
	Tonic       Function = "tonic"
	PreDominant Function = "pre"
	Dominant    Function = "dominant"
)

// Policy lists the scale degrees allowed for each harmonic function.
// The first degree of a group is the fallback when every member is diminished.
type Policy struct {
	Tonic       []int `json:"tonic"`
	PreDominant []int `json:"pre"`
	Dominant    []int `json:"dominant"`
}

var ClassicPolicy = Policy{
	Tonic:       []int{0, 5},
	PreDominant: []int{1, 3},
	Dominant:    []int{4},
}

var WidePolicy = Policy{
	Tonic:       []int{0, 2, 3, 5},
	PreDominant: []int{1, 3},
	Dominant:    []int{4, 6, 2},
}

func PolicyByName(name string) (Policy, bool) {
	switch name {
	case "", "classic":
		return ClassicPolicy, true
	case "wide":
		return WidePolicy, true
	}
	return Policy{}, false
}

func (p Policy) Group(f Function) []int {
	switch f {
	case PreDominant:
		return p.PreDominant
	case Dominant:
		return p.Dominant
	default:
		return p.Tonic
	}
}

func (p Policy) Validate() error {
	for _, f := range []Function{Tonic, PreDominant, Dominant} {
		group := p.Group(f)
		if len(group) == 0 {
			return fmt.Errorf("%v group is empty", f)
		}
		for _, d := range group {
			if d < 0 || d >= model.ScaleLength {
				return fmt.Errorf("%v group has degree %d outside 0-%d", f, d, model.ScaleLength-1)
			}
		}
	}
	return nil
}

// SlotFunction follows a tonic, pre-dominant, dominant, tonic cycle.
func SlotFunction(slot int) Function {
	switch slot % 4 {
	case 1:
		return PreDominant
	case 2:
		return Dominant
	default:
		return Tonic
	}
}
