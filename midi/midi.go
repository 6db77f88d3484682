package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Read parses a standard MIDI file from disk.
func Read(path string) (s *smf.SMF, e error) {
	// smf can panic on malformed input
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			s, e = nil, errors.New(r)
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("error parsing midi file: %w", err)
	}
	return res, nil
}

type NoteSpan struct {
	Channel uint8
	Key     uint8
	Start   uint64
	End     uint64
}

type TrackSummary struct {
	Index int
	Name  string
	Notes []NoteSpan
}

type Summary struct {
	TicksPerQuarter uint16
	BPM             float64
	Tracks          []TrackSummary
}

// Summarize pairs note starts with note ends per track, in absolute ticks.
func Summarize(s *smf.SMF) Summary {
	var res Summary
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		res.TicksPerQuarter = uint16(mt)
	}
	for i, tr := range s.Tracks {
		ts := TrackSummary{Index: i}
		open := make(map[[2]uint8]int)
		var abs uint64
		for _, ev := range tr {
			abs += uint64(ev.Delta)
			var bpm float64
			var name string
			var ch, key, vel uint8
			msg := gomidi.Message(ev.Message)
			switch {
			case ev.Message.GetMetaTempo(&bpm):
				if res.BPM == 0 {
					res.BPM = bpm
				}
			case ev.Message.GetMetaTrackName(&name):
				ts.Name = name
			case msg.GetNoteStart(&ch, &key, &vel):
				open[[2]uint8{ch, key}] = len(ts.Notes)
				ts.Notes = append(ts.Notes, NoteSpan{Channel: ch, Key: key, Start: abs, End: abs})
			case msg.GetNoteEnd(&ch, &key):
				if idx, ok := open[[2]uint8{ch, key}]; ok {
					ts.Notes[idx].End = abs
					delete(open, [2]uint8{ch, key})
				}
			}
		}
		res.Tracks = append(res.Tracks, ts)
	}
	return res
}
