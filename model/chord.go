package model

import (
	"errors"
	"fmt"
)

var ErrInvalidChord = errors.New("invalid chord")

type Quality string

const (
	QualityMajor      Quality = "maj"
	QualityMinor      Quality = "min"
	QualityDiminished Quality = "dim"
	QualitySus2       Quality = "sus2"
	QualitySus4       Quality = "sus4"
)

func (q Quality) Valid() bool {
	switch q {
	case QualityMajor, QualityMinor, QualityDiminished, QualitySus2, QualitySus4:
		return true
	}
	return false
}

func (q Quality) IsSus() bool {
	return q == QualitySus2 || q == QualitySus4
}

const VoiceCount = 4

// Chord voices are always [bass, root, third-or-substitute, fifth].
type Chord struct {
	Root    PitchClass       `json:"root"`
	Quality Quality          `json:"quality"`
	Notes   [VoiceCount]Note `json:"notes"`
}

// Validate checks the voice layout: root-position bass below a root voice,
// known pitch classes and a parseable octave for every note.
func (c Chord) Validate() error {
	if int(c.Root) >= NumPitchClasses {
		return fmt.Errorf("%w: root %d", ErrInvalidChord, c.Root)
	}
	if !c.Quality.Valid() {
		return fmt.Errorf("%w: quality %q", ErrInvalidChord, c.Quality)
	}
	for i, n := range c.Notes {
		if int(n.Pitch) >= NumPitchClasses || n.Octave > MaxOctave {
			return fmt.Errorf("%w: voice %d is out of range", ErrInvalidChord, i)
		}
	}
	if c.Notes[0].Pitch != c.Root || c.Notes[1].Pitch != c.Root {
		return fmt.Errorf("%w: bass and root voice must be %s", ErrInvalidChord, c.Root)
	}
	if c.Notes[0].Height() >= c.Notes[1].Height() {
		return fmt.Errorf("%w: bass %s is not below %s", ErrInvalidChord, c.Notes[0], c.Notes[1])
	}
	return nil
}

func (c Chord) Bass() Note {
	return c.Notes[0]
}

// Upper returns the three voices above the bass.
func (c Chord) Upper() []Note {
	res := make([]Note, VoiceCount-1)
	copy(res, c.Notes[1:])
	return res
}

func (c Chord) Name() string {
	return c.Root.String() + " " + string(c.Quality)
}

type Progression []Chord

func (p Progression) Clone() Progression {
	if p == nil {
		return nil
	}
	res := make(Progression, len(p))
	copy(res, p)
	return res
}
