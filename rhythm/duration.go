package rhythm

import (
	"time"

	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/logger"
)

// NoteValue is a symbolic note length. Denominator 16 is a sixteenth, 1 a whole bar.
type NoteValue struct {
	Units       int
	Denominator int
	Name        string
}

// noteValues is shared by playback and export.
var noteValues = map[int]NoteValue{
	1:  {Units: 1, Denominator: 16, Name: "sixteenth"},
	2:  {Units: 2, Denominator: 8, Name: "eighth"},
	4:  {Units: 4, Denominator: 4, Name: "quarter"},
	8:  {Units: 8, Denominator: 2, Name: "half"},
	16: {Units: 16, Denominator: 1, Name: "whole"},
}

// NoteValueFor maps a unit count to its note value. Counts outside the table
// fall back to a sixteenth, ok reports whether the table had an entry.
func NoteValueFor(units int) (NoteValue, bool) {
	v, ok := noteValues[units]
	if !ok {
		logger.Warn("no note value for unit count, using sixteenth", logger.Fields{"units": units})
		return noteValues[1], false
	}
	return v, true
}

// Ticks converts the note value to SMF ticks.
func (v NoteValue) Ticks(ticksPerQuarter int) int {
	return ticksPerQuarter * 4 / v.Denominator
}

// Duration converts the note value to wall-clock time at bpm.
func (v NoteValue) Duration(bpm int) time.Duration {
	return UnitsToDuration(v.Units, bpm)
}

// UnitsToDuration converts a grid position or length to wall-clock time.
func UnitsToDuration(units, bpm int) time.Duration {
	if bpm <= 0 {
		bpm = constants.DefaultTempo
	}
	beat := time.Minute / time.Duration(bpm)
	return time.Duration(units) * beat / constants.UnitsPerBeat
}

// UnitsToTicks converts a grid position to SMF ticks.
func UnitsToTicks(units, ticksPerQuarter int) int {
	return units * ticksPerQuarter / constants.UnitsPerBeat
}
