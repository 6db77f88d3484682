package playback

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu  sync.Mutex
	on  []string
	off []string
}

func (r *recordingSink) NoteOn(pitch string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.on = append(r.on, pitch)
	return nil
}

func (r *recordingSink) NoteOff(pitch string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.off = append(r.off, pitch)
	return nil
}

func (r *recordingSink) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.on), len(r.off)
}

func TestTransportPlaysSchedule(t *testing.T) {
	sink := &recordingSink{}
	tr := NewTransport(sink)

	for _, at := range []time.Duration{0, 10 * time.Millisecond} {
		tr.ScheduleAt(at, func(at time.Duration) {
			tr.TriggerNote("C4", 5*time.Millisecond, at)
		})
	}
	require.NoError(t, tr.Start(0))

	assert.Eventually(t, func() bool {
		on, off := sink.counts()
		return on == 2 && off == 2
	}, time.Second, 5*time.Millisecond)
	tr.Stop()
}

func TestTransportStopReleasesNotes(t *testing.T) {
	sink := &recordingSink{}
	tr := NewTransport(sink)
	tr.ScheduleAt(0, func(at time.Duration) {
		tr.TriggerNote("E4", time.Hour, at)
	})
	tr.ScheduleAt(time.Hour, func(at time.Duration) {
		tr.TriggerNote("G4", time.Second, at)
	})
	require.NoError(t, tr.Start(0))

	require.Eventually(t, func() bool {
		on, _ := sink.counts()
		return on == 1
	}, time.Second, 5*time.Millisecond)

	tr.Stop()
	on, off := sink.counts()
	assert.Equal(t, 1, on)
	assert.Equal(t, 1, off)
	assert.Equal(t, []string{"E4"}, sink.off)
}

func TestTransportCancelDropsSchedule(t *testing.T) {
	sink := &recordingSink{}
	tr := NewTransport(sink)
	tr.ScheduleAt(0, func(at time.Duration) {
		tr.TriggerNote("C4", time.Millisecond, at)
	})
	tr.Cancel()
	require.NoError(t, tr.Start(0))

	time.Sleep(20 * time.Millisecond)
	on, _ := sink.counts()
	assert.Equal(t, 0, on)
	tr.Stop()
}

func TestTransportLoops(t *testing.T) {
	sink := &recordingSink{}
	tr := NewTransport(sink)
	tr.SetLoop(true, 0, 10*time.Millisecond)
	tr.ScheduleAt(0, func(at time.Duration) {
		tr.TriggerNote("A3", time.Millisecond, at)
	})
	require.NoError(t, tr.Start(0))

	assert.Eventually(t, func() bool {
		on, _ := sink.counts()
		return on >= 3
	}, time.Second, 5*time.Millisecond)
	tr.Stop()
}

func TestTransportTempo(t *testing.T) {
	tr := NewTransport(LogSink{})
	assert.Equal(t, 120, tr.Tempo())
	tr.SetTempo(90)
	assert.Equal(t, 90, tr.Tempo())
}

func TestTransportLoopFromOffsetReturnsToStart(t *testing.T) {
	sink := &recordingSink{}
	tr := NewTransport(sink)
	tr.SetLoop(true, 0, 20*time.Millisecond)
	tr.ScheduleAt(0, func(at time.Duration) {
		tr.TriggerNote("A3", time.Millisecond, at)
	})
	tr.ScheduleAt(15*time.Millisecond, func(at time.Duration) {
		tr.TriggerNote("B3", time.Millisecond, at)
	})
	require.NoError(t, tr.Start(16*time.Millisecond))

	assert.Eventually(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		for _, p := range sink.on {
			if p == "A3" {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
	tr.Stop()
}
