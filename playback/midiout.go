package playback

import (
	"fmt"
	"sync"

	"github.com/jsphweid/chordgen/model"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// MIDIOutput sends notes to a MIDI out port. A driver such as rtmididrv must
// be registered by the caller.
type MIDIOutput struct {
	Channel  uint8
	Velocity uint8

	mu   sync.Mutex
	out  drivers.Out
	send func(msg gomidi.Message) error
}

// OpenMIDIOutput opens the named port, or the first port when name is empty.
func OpenMIDIOutput(name string) (*MIDIOutput, error) {
	var out drivers.Out
	var err error
	if name == "" {
		out, err = gomidi.OutPort(0)
	} else {
		out, err = gomidi.FindOutPort(name)
	}
	if err != nil {
		return nil, fmt.Errorf("can't find midi out port %q: %w", name, err)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("can't open midi out port %q: %w", name, err)
	}
	return newMIDIOutput(out, send), nil
}

func newMIDIOutput(out drivers.Out, send func(msg gomidi.Message) error) *MIDIOutput {
	return &MIDIOutput{Channel: 0, Velocity: 100, out: out, send: send}
}

func (m *MIDIOutput) key(pitch string) (uint8, error) {
	n, err := model.ParseNote(pitch)
	if err != nil {
		return 0, err
	}
	h := n.Height()
	if h < 0 || h > 127 {
		return 0, fmt.Errorf("pitch %s outside midi range", pitch)
	}
	return uint8(h), nil
}

func (m *MIDIOutput) NoteOn(pitch string) error {
	key, err := m.key(pitch)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.send(gomidi.NoteOn(m.Channel, key, m.Velocity))
}

func (m *MIDIOutput) NoteOff(pitch string) error {
	key, err := m.key(pitch)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.send(gomidi.NoteOff(m.Channel, key))
}

func (m *MIDIOutput) Close() error {
	if m.out == nil {
		return nil
	}
	return m.out.Close()
}
