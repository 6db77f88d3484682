package playback

import (
	"errors"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/logger"
	"github.com/jsphweid/chordgen/rhythm"
	"github.com/jsphweid/chordgen/timeline"
	"github.com/jsphweid/chordgen/util"
)

var ErrNothingToPlay = errors.New("nothing to play")

// TempoDebounce is how long RequestTempo waits for the value to settle.
const TempoDebounce = 150 * time.Millisecond

type Position struct {
	Units    float64
	Fraction float64
	Playing  bool
}

// Player keeps at most one playback session alive on its engine.
type Player struct {
	engine Engine

	mu        sync.Mutex
	tl        timeline.Timeline
	bpm       int
	loop      bool
	playing   bool
	startedAt time.Time
	// offset is the grid position playback was (re)started from.
	offset     float64
	generation uint64

	// requested is the tempo a pending RequestTempo will apply, 0 when none.
	requested int

	now       func() time.Time
	debounced func(func())
}

func NewPlayer(engine Engine) *Player {
	return &Player{
		engine:    engine,
		bpm:       constants.DefaultTempo,
		now:       time.Now,
		debounced: debounce.New(TempoDebounce),
	}
}

// Play cancels anything already scheduled and starts tl from the top.
func (p *Player) Play(tl timeline.Timeline, bpm int) error {
	if len(tl.Events) == 0 || tl.TotalUnits == 0 {
		return ErrNothingToPlay
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.tl = tl
	if bpm > 0 {
		p.bpm = util.Clamp(bpm, constants.MinTempo, constants.MaxTempo)
	}
	if err := p.startLocked(0); err != nil {
		return err
	}
	logger.Debug("playback started", logger.Fields{
		"bpm":    p.bpm,
		"units":  tl.TotalUnits,
		"events": len(tl.Events),
		"loop":   p.loop,
	})
	return nil
}

// startLocked schedules the whole timeline and starts the engine at from, so a
// loop always covers [0, total).
func (p *Player) startLocked(from float64) error {
	p.engine.Stop()
	p.engine.Cancel()
	p.generation++
	gen := p.generation

	bpm := p.bpm
	total := rhythm.UnitsToDuration(p.tl.TotalUnits, bpm)

	p.engine.SetTempo(bpm)
	p.engine.SetLoop(p.loop, 0, total)

	for _, e := range p.tl.Events {
		at := rhythm.UnitsToDuration(e.StartUnits, bpm)
		value, _ := rhythm.NoteValueFor(e.DurationUnits)
		dur := value.Duration(bpm)
		notes := e.Notes
		p.engine.ScheduleAt(at, func(at time.Duration) {
			for _, n := range notes {
				p.engine.TriggerNote(n.String(), dur, at)
			}
		})
	}
	if !p.loop {
		p.engine.ScheduleAt(total, func(time.Duration) {
			p.finished(gen)
		})
	}

	if err := p.engine.Start(unitsToDuration(from, bpm)); err != nil {
		p.playing = false
		return err
	}
	p.playing = true
	p.offset = from
	p.startedAt = p.now()
	return nil
}

func (p *Player) finished(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return
	}
	p.playing = false
	p.engine.Stop()
	logger.Debug("playback finished", nil)
}

func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.engine.Stop()
	p.engine.Cancel()
	if p.playing {
		logger.Debug("playback stopped", nil)
	}
	p.playing = false
	p.offset = 0
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// SetLoop toggles looping over the whole timeline and reschedules a running
// session from its current position.
func (p *Player) SetLoop(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loop == enabled {
		return
	}
	pos := p.positionLocked()
	p.loop = enabled
	if pos.Playing {
		_ = p.restartLocked(pos.Units)
	}
}

func (p *Player) Loop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loop
}

func (p *Player) Tempo() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bpm
}

// SetTempo applies bpm right away, keeping the playhead where it is.
func (p *Player) SetTempo(bpm int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	bpm = util.Clamp(bpm, constants.MinTempo, constants.MaxTempo)
	if bpm == p.bpm {
		p.requested = 0
		return
	}
	// the playhead is measured at the old tempo
	pos := p.positionLocked()
	p.bpm = bpm
	p.requested = 0
	if pos.Playing {
		_ = p.restartLocked(pos.Units)
	} else {
		p.engine.SetTempo(bpm)
	}
}

// RequestTempo coalesces bursts of tempo changes, such as a dragged slider.
func (p *Player) RequestTempo(bpm int) {
	bpm = util.Clamp(bpm, constants.MinTempo, constants.MaxTempo)
	p.mu.Lock()
	p.requested = bpm
	p.mu.Unlock()
	p.debounced(func() {
		p.SetTempo(bpm)
	})
}

// PendingTempo is the tempo the player is heading to: the last requested one
// while a request is pending, the current one otherwise.
func (p *Player) PendingTempo() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.requested != 0 {
		return p.requested
	}
	return p.bpm
}

// restartLocked resumes on the grid unit holding units.
func (p *Player) restartLocked(units float64) error {
	from := float64(int(units))
	if err := p.startLocked(from); err != nil {
		logger.Error("could not restart playback", err, logger.Fields{"from": from})
		return err
	}
	return nil
}

// Position reports the playhead for renderers polling during playback.
func (p *Player) Position() Position {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *Player) positionLocked() Position {
	if !p.playing || p.tl.TotalUnits == 0 {
		return Position{}
	}
	total := float64(p.tl.TotalUnits)
	units := p.offset + timeline.UnitsAt(p.now().Sub(p.startedAt), p.bpm)
	if p.loop {
		for units >= total {
			units -= total
		}
	} else if units >= total {
		return Position{Units: total, Fraction: 1}
	}
	return Position{
		Units:    units,
		Fraction: p.tl.Fraction(units),
		Playing:  true,
	}
}

func unitsToDuration(units float64, bpm int) time.Duration {
	return time.Duration(units * float64(rhythm.UnitsToDuration(1, bpm)))
}
