package model

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidPitchClass = errors.New("invalid pitch class")

type PitchClass uint8

const NumPitchClasses = 12

var PitchClassNames = [NumPitchClasses]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

func ParsePitchClass(name string) (PitchClass, error) {
	for i, v := range PitchClassNames {
		if v == name {
			return PitchClass(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPitchClass, name)
}

// Transpose moves the pitch class up by semitones, wrapping modulo 12.
func (p PitchClass) Transpose(semitones int) PitchClass {
	v := (int(p) + semitones) % NumPitchClasses
	if v < 0 {
		v += NumPitchClasses
	}
	return PitchClass(v)
}

func (p PitchClass) String() string {
	if int(p) >= NumPitchClasses {
		return "?"
	}
	return PitchClassNames[p]
}

func (p PitchClass) MarshalText() ([]byte, error) {
	if int(p) >= NumPitchClasses {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPitchClass, p)
	}
	return []byte(p.String()), nil
}

func (p *PitchClass) UnmarshalText(b []byte) error {
	pc, err := ParsePitchClass(string(b))
	if err != nil {
		return err
	}
	*p = pc
	return nil
}

// MaxOctave keeps octaves to a single digit so "{name}{octave}" stays parseable.
const MaxOctave = 9

type Note struct {
	Pitch  PitchClass `json:"pitch"`
	Octave uint8      `json:"octave"`
}

// Height is the absolute semitone height, C4 = 60.
func (n Note) Height() int {
	return int(n.Pitch) + (int(n.Octave)+1)*NumPitchClasses
}

// String encodes the note the way audio engines and exporters expect it, e.g. "C#4".
func (n Note) String() string {
	return n.Pitch.String() + strconv.Itoa(int(n.Octave))
}

// NoteFromHeight inverts Height. ok is false below C0 or above the last octave.
func NoteFromHeight(h int) (Note, bool) {
	octave := h/NumPitchClasses - 1
	if h < 0 || octave < 0 || octave > MaxOctave {
		return Note{}, false
	}
	return Note{Pitch: PitchClass(h % NumPitchClasses), Octave: uint8(octave)}, true
}

func ParseNote(s string) (Note, error) {
	if len(s) < 2 {
		return Note{}, fmt.Errorf("note name too short: %q", s)
	}
	octave, err := strconv.Atoi(s[len(s)-1:])
	if err != nil {
		return Note{}, fmt.Errorf("invalid octave in note %q: %w", s, err)
	}
	pc, err := ParsePitchClass(s[:len(s)-1])
	if err != nil {
		return Note{}, err
	}
	return Note{Pitch: pc, Octave: uint8(octave)}, nil
}
