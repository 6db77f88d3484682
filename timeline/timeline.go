package timeline

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/rhythm"
	"github.com/jsphweid/chordgen/util"
)

var ErrEmptyProgression = errors.New("progression has no chords")

// Timeline is the shared time grid read by the renderer, the player and the exporter.
type Timeline struct {
	Events     []model.TimelineEvent
	ChordUnits int
	BassUnits  int
	// TotalUnits is the longer of the two layers.
	TotalUnits int
}

// MapLayer walks steps once per chord with a single cursor for the whole
// progression. Rests advance the cursor without emitting.
func MapLayer(p model.Progression, steps []int, layer model.Layer) ([]model.TimelineEvent, int) {
	var events []model.TimelineEvent
	cursor := 0
	for i, c := range p {
		for _, step := range steps {
			if step > 0 {
				events = append(events, model.TimelineEvent{
					Layer:         layer,
					Notes:         voices(c, layer),
					ChordIndex:    i,
					StartUnits:    cursor,
					DurationUnits: step,
				})
			}
			cursor += rhythm.StepUnits(step)
		}
	}
	return events, cursor
}

// voices returns a fresh slice per event so edits to one event never leak
// into its siblings.
func voices(c model.Chord, layer model.Layer) []model.Note {
	if layer == model.LayerBass {
		return []model.Note{c.Bass()}
	}
	return c.Upper()
}

func Build(p model.Progression, pattern model.RhythmPattern) (Timeline, error) {
	if len(p) == 0 {
		return Timeline{}, ErrEmptyProgression
	}
	if err := rhythm.Validate(pattern); err != nil {
		return Timeline{}, fmt.Errorf("cannot map timeline: %w", err)
	}

	chords, chordUnits := MapLayer(p, pattern.Chords, model.LayerChord)
	bass, bassUnits := MapLayer(p, pattern.Bass, model.LayerBass)

	events := make([]model.TimelineEvent, 0, len(chords)+len(bass))
	events = append(events, chords...)
	events = append(events, bass...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartUnits < events[j].StartUnits
	})

	return Timeline{
		Events:     events,
		ChordUnits: chordUnits,
		BassUnits:  bassUnits,
		TotalUnits: util.Max(chordUnits, bassUnits),
	}, nil
}

func (t Timeline) Layer(l model.Layer) []model.TimelineEvent {
	var res []model.TimelineEvent
	for _, e := range t.Events {
		if e.Layer == l {
			res = append(res, e)
		}
	}
	return res
}

// At returns the events sounding at a unit position.
func (t Timeline) At(units float64) []model.TimelineEvent {
	var res []model.TimelineEvent
	for _, e := range t.Events {
		if float64(e.StartUnits) <= units && units < float64(e.EndUnits()) {
			res = append(res, e)
		}
	}
	return res
}

// Fraction converts a unit position into 0..1 of the total duration.
func (t Timeline) Fraction(units float64) float64 {
	if t.TotalUnits == 0 {
		return 0
	}
	f := units / float64(t.TotalUnits)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func (t Timeline) Duration(bpm int) time.Duration {
	return rhythm.UnitsToDuration(t.TotalUnits, bpm)
}

// UnitsAt converts elapsed playback time into a unit position.
func UnitsAt(elapsed time.Duration, bpm int) float64 {
	unit := rhythm.UnitsToDuration(1, bpm)
	return float64(elapsed) / float64(unit)
}

// SlotRange is the span covered by the chord at index across both layers.
func (t Timeline) SlotRange(index int) (start, end int, ok bool) {
	for _, e := range t.Events {
		if e.ChordIndex != index {
			continue
		}
		if !ok || e.StartUnits < start {
			start = e.StartUnits
		}
		if !ok || e.EndUnits() > end {
			end = e.EndUnits()
		}
		ok = true
	}
	return start, end, ok
}
