package roman

import (
	"strings"

	"github.com/jsphweid/chordgen/model"
)

// Unknown is returned for a chord whose root is not in the scale.
const Unknown = "?"

const DiminishedMarker = "°"

var upper = [model.ScaleLength]string{"I", "II", "III", "IV", "V", "VI", "VII"}
var lower = [model.ScaleLength]string{"i", "ii", "iii", "iv", "v", "vi", "vii"}

// Analyze names a chord by its degree in the scale. The numeral case follows
// the mode, then min and dim lowercase it and sus qualities are appended.
func Analyze(s model.Scale, mode model.Mode, root model.PitchClass, q model.Quality) string {
	degree := s.Degree(root)
	if degree < 0 {
		return Unknown
	}

	base := upper[degree]
	if mode.IsMinor() {
		base = lower[degree]
	}

	switch q {
	case model.QualityMinor:
		base = strings.ToLower(base)
	case model.QualityDiminished:
		base = strings.ToLower(base) + DiminishedMarker
	case model.QualitySus2, model.QualitySus4:
		base += string(q)
	}
	return base
}

func Numerals(s model.Scale, mode model.Mode, p model.Progression) []string {
	res := make([]string, 0, len(p))
	for _, c := range p {
		res = append(res, Analyze(s, mode, c.Root, c.Quality))
	}
	return res
}

// Symbols is the space-joined numeral string shown to the user, e.g. "I V vi IV".
func Symbols(s model.Scale, mode model.Mode, p model.Progression) string {
	return strings.Join(Numerals(s, mode, p), " ")
}

// KeyName renders a key the way it is displayed, e.g. "F# minor".
func KeyName(k model.Key) string {
	return k.String()
}
