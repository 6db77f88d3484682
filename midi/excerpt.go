package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func isEndOfTrack(m smf.Message) bool {
	return len(m) >= 2 && m[0] == 0xFF && m[1] == 0x2F
}

// Excerpt cuts the ticks [from, to) out of every track. Meta events before
// from are kept at the start, notes are kept when they start inside the range
// and are closed by to at the latest.
func Excerpt(sm *smf.SMF, from, to uint64) (*smf.SMF, error) {
	if to <= from {
		return nil, fmt.Errorf("invalid excerpt range %d..%d", from, to)
	}
	res := smf.New()
	res.TimeFormat = sm.TimeFormat

	for _, track := range sm.Tracks {
		var out smf.Track
		var abs, last uint64
		open := make(map[[2]uint8]bool)
		add := func(at uint64, msg []byte) {
			out.Add(uint32(at-last), msg)
			last = at
		}
		for _, ev := range track {
			abs += uint64(ev.Delta)
			if isEndOfTrack(ev.Message) {
				continue
			}
			var ch, key, vel uint8
			msg := gomidi.Message(ev.Message)
			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				if abs >= from && abs < to {
					add(abs-from, ev.Message)
					open[[2]uint8{ch, key}] = true
				}
			case msg.GetNoteEnd(&ch, &key):
				if open[[2]uint8{ch, key}] && abs <= to {
					add(abs-from, ev.Message)
					delete(open, [2]uint8{ch, key})
				}
			default:
				if abs <= from {
					add(0, ev.Message)
				}
			}
		}
		for k := range open {
			add(to-from, gomidi.NoteOff(k[0], k[1]))
		}
		out.Close(uint32(to - from - last))
		if err := res.Add(out); err != nil {
			return nil, fmt.Errorf("could not add excerpt track: %w", err)
		}
	}
	return res, nil
}
