package playback

import "time"

// Engine is the scheduling backend the Player drives. Times are offsets from
// transport start at the engine's current tempo.
type Engine interface {
	ScheduleAt(at time.Duration, fn func(at time.Duration))
	TriggerNote(pitch string, duration, at time.Duration)
	// Start runs the schedule from offset; events before it wait for the next loop pass.
	Start(offset time.Duration) error
	Stop()
	// Cancel drops every scheduled callback.
	Cancel()
	Tempo() int
	SetTempo(bpm int)
	// SetLoop repeats [start, end) while enabled.
	SetLoop(enabled bool, start, end time.Duration)
}

// NoteSink turns pitch names like "C#4" into sound.
type NoteSink interface {
	NoteOn(pitch string) error
	NoteOff(pitch string) error
}
