package midi

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/logger"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/rhythm"
	"github.com/jsphweid/chordgen/timeline"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrEmptyTimeline = errors.New("timeline has no events")

const (
	ChordChannel = 0
	BassChannel  = 1
	Velocity     = 100
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_\-.]`)
)

// FileName builds "{key} - {numerals}.mid" restricted to letters, digits,
// underscore, hyphen and dot.
func FileName(k model.Key, symbols string) string {
	name := fmt.Sprintf("%s %s - %s.mid", k.Root, k.Mode, symbols)
	name = whitespace.ReplaceAllString(name, "_")
	return unsafeChars.ReplaceAllString(name, "")
}

type tickMessage struct {
	tick uint32
	off  bool
	msg  gomidi.Message
}

// layerTrack places each event at its absolute grid position so the chord and
// bass tracks stay aligned across rests.
func layerTrack(name string, channel uint8, events []model.TimelineEvent, endTick uint32) smf.Track {
	var msgs []tickMessage
	for _, e := range events {
		value, _ := rhythm.NoteValueFor(e.DurationUnits)
		start := uint32(rhythm.UnitsToTicks(e.StartUnits, constants.TicksPerQuarter))
		end := start + uint32(value.Ticks(constants.TicksPerQuarter))
		for _, n := range e.Notes {
			key := uint8(n.Height())
			msgs = append(msgs,
				tickMessage{tick: start, msg: gomidi.NoteOn(channel, key, Velocity)},
				tickMessage{tick: end, off: true, msg: gomidi.NoteOff(channel, key)},
			)
		}
	}
	// note offs go first so repeated pitches retrigger cleanly
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].off && !msgs[j].off
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(name))
	var cursor uint32
	for _, m := range msgs {
		tr.Add(m.tick-cursor, m.msg)
		cursor = m.tick
	}
	if endTick < cursor {
		endTick = cursor
	}
	tr.Close(endTick - cursor)
	return tr
}

// Build renders the timeline as a format 1 file: a tempo track, then the
// chord and bass layers on their own tracks and channels.
func Build(tl timeline.Timeline, bpm int) (*smf.SMF, error) {
	if len(tl.Events) == 0 {
		return nil, ErrEmptyTimeline
	}
	if bpm <= 0 {
		bpm = constants.DefaultTempo
	}

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)
	endTick := uint32(rhythm.UnitsToTicks(tl.TotalUnits, constants.TicksPerQuarter))

	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(4, 4))
	tempo.Add(0, smf.MetaTempo(float64(bpm)))
	tempo.Close(endTick)

	tracks := []smf.Track{
		tempo,
		layerTrack("chords", ChordChannel, tl.Layer(model.LayerChord), endTick),
		layerTrack("bass", BassChannel, tl.Layer(model.LayerBass), endTick),
	}
	for _, tr := range tracks {
		if err := sm.Add(tr); err != nil {
			return nil, fmt.Errorf("could not add track: %w", err)
		}
	}
	return sm, nil
}

func Write(w io.Writer, tl timeline.Timeline, bpm int) error {
	sm, err := Build(tl, bpm)
	if err != nil {
		return err
	}
	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("could not write midi: %w", err)
	}
	return nil
}

// WriteFile writes the timeline into dir under name and returns the full path.
func WriteFile(dir, name string, tl timeline.Timeline, bpm int) (string, error) {
	sm, err := Build(tl, bpm)
	if err != nil {
		return "", err
	}
	return Save(dir, name, sm)
}

// Save writes sm into dir, creating dir when needed.
func Save(dir, name string, sm *smf.SMF) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := sm.WriteTo(f); err != nil {
		return "", fmt.Errorf("could not write midi: %w", err)
	}
	logger.Info("exported midi", logger.Fields{
		"path":   path,
		"tracks": len(sm.Tracks),
	})
	return path, nil
}
