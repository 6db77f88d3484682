package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/scale"
	"github.com/jsphweid/chordgen/session"
	"github.com/jsphweid/chordgen/timeline"
)

const (
	ChordCell = '█'
	BassCell  = '▓'
	ScaleCell = '·'
	EmptyCell = ' '
	Playhead  = '│'
)

type Styles struct {
	Chord    lipgloss.Style
	Bass     lipgloss.Style
	InScale  lipgloss.Style
	Label    lipgloss.Style
	Playhead lipgloss.Style
	Header   lipgloss.Style
	Box      lipgloss.Style
}

var DefaultStyles = Styles{
	Chord:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")),
	Bass:     lipgloss.NewStyle().Foreground(lipgloss.Color("#ff875f")),
	InScale:  lipgloss.NewStyle().Foreground(lipgloss.Color("#444")),
	Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("#888")),
	Playhead: lipgloss.NewStyle().Reverse(true),
	Header:   lipgloss.NewStyle().Bold(true),
	Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
}

// PlainStyles renders without any escape codes.
var PlainStyles = Styles{
	Chord:    lipgloss.NewStyle(),
	Bass:     lipgloss.NewStyle(),
	InScale:  lipgloss.NewStyle(),
	Label:    lipgloss.NewStyle(),
	Playhead: lipgloss.NewStyle(),
	Header:   lipgloss.NewStyle(),
	Box:      lipgloss.NewStyle(),
}

// PianoRoll draws one text row per semitone, highest first, one column per
// grid unit. playhead is a 0..1 fraction, negative to hide it.
func PianoRoll(tl timeline.Timeline, p model.Progression, s model.Scale, playhead float64, st Styles) (string, error) {
	if len(p) == 0 || tl.TotalUnits == 0 {
		return "", timeline.ErrEmptyProgression
	}
	lo, hi := timeline.PitchRange(p)
	width := tl.TotalUnits

	// grid[row][col], row 0 is the highest pitch
	grid := make([][]rune, hi-lo+1)
	inScale := scale.PitchSet(s)
	for i := range grid {
		grid[i] = make([]rune, width)
		fill := EmptyCell
		if inScale[model.PitchClass((hi-i)%model.NumPitchClasses)] {
			fill = ScaleCell
		}
		for j := range grid[i] {
			grid[i][j] = fill
		}
	}
	for _, e := range tl.Events {
		cell := ChordCell
		if e.Layer == model.LayerBass {
			cell = BassCell
		}
		for _, n := range e.Notes {
			row := hi - n.Height()
			for u := e.StartUnits; u < e.EndUnits() && u < width; u++ {
				// bass wins where layers overlap
				if grid[row][u] != BassCell {
					grid[row][u] = cell
				}
			}
		}
	}

	playCol := -1
	if playhead >= 0 {
		playCol = int(playhead * float64(width))
		if playCol >= width {
			playCol = width - 1
		}
	}

	var sb strings.Builder
	for i, row := range grid {
		h := hi - i
		label := ""
		if n, ok := model.NoteFromHeight(h); ok {
			label = n.String()
		}
		sb.WriteString(st.Label.Render(fmt.Sprintf("%-4s", label)))
		for j, r := range row {
			sb.WriteString(cellStyle(st, r, j == playCol).Render(string(r)))
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func cellStyle(st Styles, r rune, playhead bool) lipgloss.Style {
	if playhead {
		return st.Playhead
	}
	switch r {
	case ChordCell:
		return st.Chord
	case BassCell:
		return st.Bass
	case ScaleCell:
		return st.InScale
	}
	return lipgloss.NewStyle()
}

// Summary is the key, numerals and chord names of a session in a box.
func Summary(state session.State, st Styles) string {
	names := make([]string, 0, len(state.Progression))
	for _, c := range state.Progression {
		names = append(names, c.Name())
	}
	lines := []string{
		st.Header.Render(state.KeyName()),
		state.Symbols(),
		strings.Join(names, " | "),
		fmt.Sprintf("pattern %s, %d bpm", state.Pattern.Name, state.Tempo),
	}
	return st.Box.Render(strings.Join(lines, "\n"))
}
