package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestMIDIOutputSendsNotes(t *testing.T) {
	var sent []gomidi.Message
	out := newMIDIOutput(nil, func(msg gomidi.Message) error {
		sent = append(sent, msg)
		return nil
	})

	require.NoError(t, out.NoteOn("C#4"))
	require.NoError(t, out.NoteOff("C#4"))
	require.Len(t, sent, 2)

	var ch, key, vel uint8
	assert.True(t, sent[0].GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, uint8(61), key)
	assert.Equal(t, uint8(100), vel)
	assert.True(t, sent[1].GetNoteEnd(&ch, &key))
	assert.Equal(t, uint8(61), key)

	assert.Error(t, out.NoteOn("H2"))
	assert.NoError(t, out.Close())
}
