package cmd

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jsphweid/chordgen/config"
	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/harmony"
	"github.com/jsphweid/chordgen/midi"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/rhythm"
	"github.com/jsphweid/chordgen/session"
	"github.com/jsphweid/chordgen/timeline"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"
)

type generateFlags struct {
	key        string
	minor      bool
	major      bool
	count      int
	extensions bool
	pattern    string
	tempo      int
	seed       int64
}

func addGenerateFlags(cmd *cobra.Command, f *generateFlags) {
	cmd.Flags().StringVarP(&f.key, "key", "k", "random", "root pitch class, e.g. C or F#")
	cmd.Flags().BoolVar(&f.minor, "minor", false, "force a minor key")
	cmd.Flags().BoolVar(&f.major, "major", false, "force a major key")
	cmd.Flags().IntVarP(&f.count, "count", "n", 0, "number of chords, 4 or 8")
	cmd.Flags().BoolVarP(&f.extensions, "ext", "e", false, "allow sus2/sus4 substitutions")
	cmd.Flags().StringVarP(&f.pattern, "pattern", "p", "", "rhythm pattern name")
	cmd.Flags().IntVarP(&f.tempo, "tempo", "t", 0, "tempo in bpm")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed, 0 for time based")
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func newSelector(c *config.Config, r *rand.Rand) (*harmony.Selector, error) {
	policy, ok := harmony.PolicyByName(c.HarmonyPolicy)
	if !ok {
		return nil, fmt.Errorf("unknown harmony policy %q", c.HarmonyPolicy)
	}
	sel := harmony.NewSelector(policy, r)
	sel.SusProbability = c.SusProbability
	sel.MaxAttempts = c.MaxGenerateAttempts
	return sel, nil
}

func newSession(c *config.Config, id string, r *rand.Rand) (*session.Session, error) {
	sel, err := newSelector(c, r)
	if err != nil {
		return nil, err
	}
	return session.New(id, sel, session.Defaults{
		Pattern: c.Pattern,
		Count:   c.ProgressionLength,
		Tempo:   c.Tempo,
	}), nil
}

// parseRoot treats "" and "random" as no preference.
func parseRoot(name string) (*model.PitchClass, error) {
	if name == "" || strings.EqualFold(name, "random") {
		return nil, nil
	}
	pc, err := model.ParsePitchClass(strings.ToUpper(name[:1]) + name[1:])
	if err != nil {
		return nil, err
	}
	return &pc, nil
}

func parseMode(name string) (model.Mode, error) {
	switch strings.ToLower(name) {
	case "", "random":
		return "", nil
	case string(model.Major):
		return model.Major, nil
	case string(model.Minor):
		return model.Minor, nil
	}
	return "", fmt.Errorf("unknown mode %q", name)
}

// generateState runs the flag driven commands through a fresh session.
func generateState(f generateFlags) (session.State, error) {
	if f.major && f.minor {
		return session.State{}, fmt.Errorf("--major and --minor are exclusive")
	}
	sess, err := newSession(cfg, "cli", newRand(f.seed))
	if err != nil {
		return session.State{}, err
	}
	root, err := parseRoot(f.key)
	if err != nil {
		return session.State{}, err
	}
	var mode model.Mode
	switch {
	case f.minor:
		mode = model.Minor
	case f.major:
		mode = model.Major
	}

	batch := session.Batch{session.SetExtensions{Enabled: f.extensions}}
	if f.count != 0 {
		batch = append(batch, session.SetCount{Count: f.count})
	}
	if f.pattern != "" {
		batch = append(batch, session.SetRhythmPattern{Pattern: f.pattern})
	}
	if f.tempo != 0 {
		batch = append(batch, session.SetTempo{BPM: f.tempo})
	}
	batch = append(batch, session.Generate{Root: root, Mode: mode})
	return sess.Dispatch(batch)
}

// slotExcerpt cuts a single chord slot out of a rendered file.
func slotExcerpt(sm *smf.SMF, tl timeline.Timeline, slot int) (*smf.SMF, error) {
	start, end, ok := tl.SlotRange(slot)
	if !ok {
		return nil, fmt.Errorf("%w: slot %d", session.ErrIndexOutOfRange, slot)
	}
	return midi.Excerpt(sm,
		uint64(rhythm.UnitsToTicks(start, constants.TicksPerQuarter)),
		uint64(rhythm.UnitsToTicks(end, constants.TicksPerQuarter)),
	)
}
