package model

// RhythmPattern steps are unit counts; 0 is a one-unit rest.
type RhythmPattern struct {
	Name   string `json:"name"`
	Chords []int  `json:"chords"`
	Bass   []int  `json:"bass"`
}

type Layer string

const (
	LayerChord Layer = "chord"
	LayerBass  Layer = "bass"
)

type TimelineEvent struct {
	Layer         Layer  `json:"layer"`
	Notes         []Note `json:"notes"`
	ChordIndex    int    `json:"chord_index"`
	StartUnits    int    `json:"start_units"`
	DurationUnits int    `json:"duration_units"`
}

func (e TimelineEvent) EndUnits() int {
	return e.StartUnits + e.DurationUnits
}
