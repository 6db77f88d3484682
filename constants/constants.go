package constants

// One unit is a sixteenth note; a 4/4 bar is 16 units.
const UnitsPerBeat = 4
const UnitsPerBar = 16

const DefaultTempo = 120
const MinTempo = 20
const MaxTempo = 300

// NOTE: the exporter and playback both resolve unit counts through rhythm.NoteValueFor
const TicksPerQuarter = 960

const ShortProgression = 4
const LongProgression = 8

const DefaultPattern = "none"

const DefaultSusProbability = 0.4

// upper bound on regenerate-until-different attempts before a repeat is accepted
const DefaultMaxGenerateAttempts = 50
