package scale

import (
	"fmt"
	"math/rand"

	"github.com/jsphweid/chordgen/model"
)

var ErrInvalidPitchClass = model.ErrInvalidPitchClass

var (
	MajorIntervals = [model.ScaleLength]int{2, 2, 1, 2, 2, 2, 1}
	MinorIntervals = [model.ScaleLength]int{2, 1, 2, 2, 1, 2, 2}
)

func Intervals(mode model.Mode) [model.ScaleLength]int {
	if mode.IsMinor() {
		return MinorIntervals
	}
	return MajorIntervals
}

// Build walks the mode's interval pattern from root.
func Build(root model.PitchClass, mode model.Mode) (model.Scale, error) {
	var s model.Scale
	if int(root) >= model.NumPitchClasses {
		return s, fmt.Errorf("%w: %d", ErrInvalidPitchClass, root)
	}
	pc := root
	for i, step := range Intervals(mode) {
		s[i] = pc
		pc = pc.Transpose(step)
	}
	return s, nil
}

// BuildFromName is Build for a root given by name, e.g. "F#".
func BuildFromName(root string, isMinor bool) (model.Scale, error) {
	pc, err := model.ParsePitchClass(root)
	if err != nil {
		return model.Scale{}, err
	}
	return Build(pc, model.ModeFromMinor(isMinor))
}

func ForKey(k model.Key) (model.Scale, error) {
	return Build(k.Root, k.Mode)
}

func RandomKey(r *rand.Rand) model.Key {
	root := model.PitchClass(r.Intn(model.NumPitchClasses))
	return model.Key{Root: root, Mode: model.ModeFromMinor(r.Float64() < 0.5)}
}

// PitchSet returns the pitch classes of the scale as a set, for piano roll row highlighting.
func PitchSet(s model.Scale) map[model.PitchClass]bool {
	res := make(map[model.PitchClass]bool, model.ScaleLength)
	for _, pc := range s {
		res[pc] = true
	}
	return res
}
