package model

import "fmt"

type Mode string

const (
	Major Mode = "major"
	Minor Mode = "minor"
)

func (m Mode) IsMinor() bool {
	return m == Minor
}

func ModeFromMinor(isMinor bool) Mode {
	if isMinor {
		return Minor
	}
	return Major
}

type Key struct {
	Root PitchClass `json:"root"`
	Mode Mode       `json:"mode"`
}

func (k Key) String() string {
	return fmt.Sprintf("%v %v", k.Root, k.Mode)
}

const ScaleLength = 7

// Scale holds the pitch classes of a diatonic scale, Scale[0] is the root.
type Scale [ScaleLength]PitchClass

func (s Scale) Root() PitchClass {
	return s[0]
}

// At returns the pitch class at a degree, wrapping modulo 7.
func (s Scale) At(degree int) PitchClass {
	d := degree % ScaleLength
	if d < 0 {
		d += ScaleLength
	}
	return s[d]
}

// Degree returns the 0-based index of pc in the scale or -1.
func (s Scale) Degree(pc PitchClass) int {
	for i, v := range s {
		if v == pc {
			return i
		}
	}
	return -1
}

func (s Scale) Contains(pc PitchClass) bool {
	return s.Degree(pc) >= 0
}
