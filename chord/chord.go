package chord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/chordgen/model"
)

// Voicing places the bass and the three upper voices.
type Voicing struct {
	BassOctave  uint8
	UpperOctave uint8
}

// DefaultVoicing keeps the bass exactly an octave under the root voice.
var DefaultVoicing = Voicing{BassOctave: 3, UpperOctave: 4}

func (v Voicing) Validate() error {
	if v.UpperOctave > model.MaxOctave {
		return fmt.Errorf("upper octave %d out of range 0-%d", v.UpperOctave, model.MaxOctave)
	}
	if v.BassOctave >= v.UpperOctave {
		return fmt.Errorf("bass octave %d must be below upper octave %d", v.BassOctave, v.UpperOctave)
	}
	return nil
}

func interval(from, to model.PitchClass) int {
	return (int(to) - int(from) + model.NumPitchClasses) % model.NumPitchClasses
}

// Quality classifies the diatonic triad on degree from its third and fifth.
// Only maj/min/dim can come out of a major or natural minor scale.
func Quality(s model.Scale, degree int) model.Quality {
	root := s.At(degree)
	third := interval(root, s.At(degree+2))
	fifth := interval(root, s.At(degree+4))

	switch {
	case third == 3 && fifth == 6:
		return model.QualityDiminished
	case third == 3 && fifth == 7:
		return model.QualityMinor
	default:
		return model.QualityMajor
	}
}

func voice(s model.Scale, v Voicing, degree int, middle model.PitchClass, q model.Quality) model.Chord {
	root := s.At(degree)
	return model.Chord{
		Root:    root,
		Quality: q,
		Notes: [model.VoiceCount]model.Note{
			{Pitch: root, Octave: v.BassOctave},
			{Pitch: root, Octave: v.UpperOctave},
			{Pitch: middle, Octave: v.UpperOctave},
			{Pitch: s.At(degree + 4), Octave: v.UpperOctave},
		},
	}
}

func BuildTriads(s model.Scale, v Voicing) []model.Chord {
	res := make([]model.Chord, 0, model.ScaleLength)
	for i := 0; i < model.ScaleLength; i++ {
		res = append(res, voice(s, v, i, s.At(i+2), Quality(s, i)))
	}
	return res
}

// BuildSusChords returns a sus2 then a sus4 chord for every degree.
func BuildSusChords(s model.Scale, v Voicing) []model.Chord {
	res := make([]model.Chord, 0, 2*model.ScaleLength)
	for i := 0; i < model.ScaleLength; i++ {
		res = append(res,
			voice(s, v, i, s.At(i+1), model.QualitySus2),
			voice(s, v, i, s.At(i+3), model.QualitySus4),
		)
	}
	return res
}

// WithSusExtension returns a copy of c with its third replaced by the scale's
// 2nd (sus2) or 4th (sus4) above the root. ok is false when c's root is not in s.
func WithSusExtension(c model.Chord, s model.Scale, sus4 bool) (model.Chord, bool) {
	degree := s.Degree(c.Root)
	if degree < 0 {
		return c, false
	}
	res := c
	octave := c.Notes[1].Octave
	if sus4 {
		res.Notes[2] = model.Note{Pitch: s.At(degree + 3), Octave: octave}
		res.Quality = model.QualitySus4
	} else {
		res.Notes[2] = model.Note{Pitch: s.At(degree + 1), Octave: octave}
		res.Quality = model.QualitySus2
	}
	return res, true
}

// PickerOptions lists every triad and sus chord of the scale ordered by the
// chromatic index of the root, then by quality name.
func PickerOptions(s model.Scale, v Voicing) []model.Chord {
	res := append(BuildTriads(s, v), BuildSusChords(s, v)...)
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Root != res[j].Root {
			return res[i].Root < res[j].Root
		}
		return res[i].Quality < res[j].Quality
	})
	return res
}

// Signature identifies a progression by root name and quality per slot.
func Signature(p model.Progression) string {
	var sb strings.Builder
	for _, c := range p {
		sb.WriteString(c.Root.String())
		sb.WriteString(string(c.Quality))
	}
	return sb.String()
}
