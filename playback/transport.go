package playback

import (
	"sync"
	"time"

	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/logger"
)

type scheduled struct {
	at time.Duration
	fn func(at time.Duration)
}

// Transport is a wall-clock Engine built on timers. Notes go to a NoteSink.
type Transport struct {
	sink NoteSink

	mu        sync.Mutex
	bpm       int
	events    []scheduled
	timers    []*time.Timer
	sounding  map[string]int
	running   bool
	loop      bool
	loopStart time.Duration
	loopEnd   time.Duration
	// epoch invalidates timers that fire after Stop or Cancel.
	epoch uint64
}

func NewTransport(sink NoteSink) *Transport {
	return &Transport{
		sink:     sink,
		bpm:      constants.DefaultTempo,
		sounding: make(map[string]int),
	}
}

func (t *Transport) ScheduleAt(at time.Duration, fn func(at time.Duration)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, scheduled{at: at, fn: fn})
	if t.running {
		t.armLocked(at, t.epoch, scheduled{at: at, fn: fn})
	}
}

func (t *Transport) armLocked(delay time.Duration, epoch uint64, ev scheduled) {
	t.timers = append(t.timers, time.AfterFunc(delay, func() {
		if !t.current(epoch) {
			return
		}
		ev.fn(ev.at)
	}))
}

func (t *Transport) current(epoch uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running && t.epoch == epoch
}

func (t *Transport) Start(offset time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return nil
	}
	if offset < 0 {
		offset = 0
	}
	t.running = true
	t.epoch++
	t.passLocked(offset, t.epoch)
	return nil
}

// passLocked arms one pass over the schedule starting at from. With looping
// on, the pass ends at loopEnd and arms the next one from loopStart.
func (t *Transport) passLocked(from time.Duration, epoch uint64) {
	for _, ev := range t.events {
		if ev.at < from || (t.loop && ev.at >= t.loopEnd) {
			continue
		}
		t.armLocked(ev.at-from, epoch, ev)
	}
	if !t.loop || t.loopEnd <= t.loopStart {
		return
	}
	t.timers = append(t.timers, time.AfterFunc(t.loopEnd-from, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if !t.running || t.epoch != epoch {
			return
		}
		t.timers = nil
		t.passLocked(t.loopStart, epoch)
	}))
}

func (t *Transport) TriggerNote(pitch string, duration, _ time.Duration) {
	t.mu.Lock()
	epoch := t.epoch
	t.sounding[pitch]++
	t.mu.Unlock()

	if err := t.sink.NoteOn(pitch); err != nil {
		logger.Warn("note on failed", logger.Fields{"pitch": pitch, "error": err.Error()})
	}
	time.AfterFunc(duration, func() {
		t.mu.Lock()
		if t.epoch != epoch || t.sounding[pitch] == 0 {
			t.mu.Unlock()
			return
		}
		t.sounding[pitch]--
		t.mu.Unlock()
		if err := t.sink.NoteOff(pitch); err != nil {
			logger.Warn("note off failed", logger.Fields{"pitch": pitch, "error": err.Error()})
		}
	})
}

// Stop halts the clock and releases sounding notes. The schedule is kept.
func (t *Transport) Stop() {
	t.mu.Lock()
	t.running = false
	t.epoch++
	for _, tm := range t.timers {
		tm.Stop()
	}
	t.timers = nil
	sounding := t.sounding
	t.sounding = make(map[string]int)
	t.mu.Unlock()

	for pitch, n := range sounding {
		for i := 0; i < n; i++ {
			_ = t.sink.NoteOff(pitch)
		}
	}
}

func (t *Transport) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
}

func (t *Transport) Tempo() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bpm
}

func (t *Transport) SetTempo(bpm int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bpm = bpm
}

func (t *Transport) SetLoop(enabled bool, start, end time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loop = enabled
	t.loopStart = start
	t.loopEnd = end
}

// LogSink prints notes instead of sounding them.
type LogSink struct{}

func (LogSink) NoteOn(pitch string) error {
	logger.Info("note on", logger.Fields{"pitch": pitch})
	return nil
}

func (LogSink) NoteOff(pitch string) error {
	logger.Debug("note off", logger.Fields{"pitch": pitch})
	return nil
}
