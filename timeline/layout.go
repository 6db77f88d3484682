package timeline

import (
	"fmt"

	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/scale"
)

// NoteInset is the pixel padding around every drawn note.
const NoteInset = 2

type Layout struct {
	Width, Height float64
	MinHeight     int
	MaxHeight     int
	RowHeight     float64
	UnitWidth     float64
	Rows          []model.Row
	Rects         []model.Rect
}

// PitchRange is the lowest and highest absolute pitch across every voice.
func PitchRange(p model.Progression) (int, int) {
	lo, hi := 0, 0
	for i, c := range p {
		for j, n := range c.Notes {
			h := n.Height()
			if (i == 0 && j == 0) || h < lo {
				lo = h
			}
			if (i == 0 && j == 0) || h > hi {
				hi = h
			}
		}
	}
	return lo, hi
}

// NewLayout places every timeline event on a width x height pixel grid with
// one row per semitone, the highest pitch at the top.
func NewLayout(t Timeline, p model.Progression, s model.Scale, width, height float64) (Layout, error) {
	if len(p) == 0 || t.TotalUnits == 0 {
		return Layout{}, ErrEmptyProgression
	}
	if width <= 0 || height <= 0 {
		return Layout{}, fmt.Errorf("invalid canvas size %vx%v", width, height)
	}

	lo, hi := PitchRange(p)
	rows := hi - lo + 1
	l := Layout{
		Width:     width,
		Height:    height,
		MinHeight: lo,
		MaxHeight: hi,
		RowHeight: height / float64(rows),
		UnitWidth: width / float64(t.TotalUnits),
	}

	inScale := scale.PitchSet(s)
	for i := 0; i < rows; i++ {
		h := lo + i
		l.Rows = append(l.Rows, model.Row{
			Height:  h,
			Y:       l.y(h),
			H:       l.RowHeight,
			InScale: inScale[model.PitchClass(h%model.NumPitchClasses)],
		})
	}

	for _, e := range t.Events {
		for _, n := range e.Notes {
			l.Rects = append(l.Rects, model.Rect{
				Layer: e.Layer,
				Note:  n.String(),
				X:     float64(e.StartUnits)*l.UnitWidth + NoteInset,
				Y:     l.y(n.Height()) + NoteInset,
				W:     float64(e.DurationUnits)*l.UnitWidth - 2*NoteInset,
				H:     l.RowHeight - 2*NoteInset,
			})
		}
	}
	return l, nil
}

func (l Layout) y(pitchHeight int) float64 {
	return l.Height - float64(pitchHeight-l.MinHeight+1)*l.RowHeight
}

// PlayheadX converts a playback fraction into a pixel column.
func (l Layout) PlayheadX(fraction float64) float64 {
	return fraction * l.Width
}
