package harmony

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/jsphweid/chordgen/chord"
	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/logger"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/scale"
)

var ErrInvalidCount = errors.New("progression length must be positive")

type Selector struct {
	Policy         Policy
	Voicing        chord.Voicing
	SusProbability float64
	MaxAttempts    int

	rand *rand.Rand
}

func NewSelector(policy Policy, r *rand.Rand) *Selector {
	return &Selector{
		Policy:         policy,
		Voicing:        chord.DefaultVoicing,
		SusProbability: constants.DefaultSusProbability,
		MaxAttempts:    constants.DefaultMaxGenerateAttempts,
		rand:           r,
	}
}

// Request describes one generation. A nil Root or empty Mode is chosen at random
// on every attempt.
type Request struct {
	Root       *model.PitchClass
	Mode       model.Mode
	Count      int
	Extensions bool
}

type Result struct {
	Key         model.Key
	Scale       model.Scale
	Progression model.Progression
	Signature   string
	Attempts    int
	// Repeated is set when the attempt bound ran out and the previous signature came back.
	Repeated bool
}

// Pick chooses a chord for a group of degrees, skipping diminished triads.
// When the whole group is diminished the first listed degree is used anyway.
func (s *Selector) Pick(triads []model.Chord, group []int) model.Chord {
	candidates := make([]model.Chord, 0, len(group))
	for _, d := range group {
		if triads[d].Quality != model.QualityDiminished {
			candidates = append(candidates, triads[d])
		}
	}
	if len(candidates) == 0 {
		return triads[group[0]]
	}
	return candidates[s.rand.Intn(len(candidates))]
}

// Progression fills count slots under the functional cycle.
func (s *Selector) Progression(sc model.Scale, count int, extensions bool) model.Progression {
	triads := chord.BuildTriads(sc, s.Voicing)
	res := make(model.Progression, 0, count)
	for i := 0; i < count; i++ {
		res = append(res, s.Pick(triads, s.Policy.Group(SlotFunction(i))))
	}
	if extensions {
		for i, c := range res {
			if s.rand.Float64() < s.SusProbability {
				sus4 := s.rand.Float64() >= 0.5
				if ext, ok := chord.WithSusExtension(c, sc, sus4); ok {
					res[i] = ext
				}
			}
		}
	}
	return res
}

func (s *Selector) key(req Request) model.Key {
	k := scale.RandomKey(s.rand)
	if req.Root != nil {
		k.Root = *req.Root
	}
	if req.Mode != "" {
		k.Mode = req.Mode
	}
	return k
}

// Generate builds progressions until the signature differs from previous,
// accepting a repeat once MaxAttempts is used up.
func (s *Selector) Generate(req Request, previous string) (Result, error) {
	if req.Count <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidCount, req.Count)
	}
	if err := s.Policy.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid harmony policy: %w", err)
	}
	if err := s.Voicing.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid voicing: %w", err)
	}
	maxAttempts := s.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var res Result
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		k := s.key(req)
		sc, err := scale.ForKey(k)
		if err != nil {
			return Result{}, err
		}
		p := s.Progression(sc, req.Count, req.Extensions)
		res = Result{
			Key:         k,
			Scale:       sc,
			Progression: p,
			Signature:   chord.Signature(p),
			Attempts:    attempt,
		}
		if previous == "" || res.Signature != previous {
			return res, nil
		}
	}

	res.Repeated = true
	logger.Warn("accepting repeated progression", logger.Fields{
		"attempts":  res.Attempts,
		"signature": res.Signature,
	})
	return res, nil
}
