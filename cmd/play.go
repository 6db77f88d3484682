package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/jsphweid/chordgen/logger"
	"github.com/jsphweid/chordgen/playback"
	"github.com/jsphweid/chordgen/render"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var playOpts generateFlags
var playPort string
var playLoop bool
var playDry bool

func init() {
	addGenerateFlags(playCmd, &playOpts)
	playCmd.Flags().StringVar(&playPort, "port", "", "MIDI out port name, defaults to MIDI_OUT_PORT or the first port")
	playCmd.Flags().BoolVar(&playLoop, "loop", false, "loop until interrupted")
	playCmd.Flags().BoolVar(&playDry, "dry", false, "log notes instead of sending MIDI")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Generates a progression and plays it on a MIDI out port",
	Long: `Generates a progression and plays it on a MIDI out port. Ctrl+C stops playback.

While playing, type a control and press enter:
  +, -        nudge the tempo by 5 bpm
  t BPM       set the tempo
  l           toggle looping
  q           stop`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := generateState(playOpts)
		if err != nil {
			return err
		}
		tl, err := st.Timeline()
		if err != nil {
			return err
		}

		var sink playback.NoteSink = playback.LogSink{}
		if !playDry {
			defer gomidi.CloseDriver()
			port := playPort
			if port == "" {
				port = cfg.MIDIOutPort
			}
			out, err := playback.OpenMIDIOutput(port)
			if err != nil {
				return err
			}
			defer out.Close()
			sink = out
		}

		player := playback.NewPlayer(playback.NewTransport(sink))
		player.SetLoop(playLoop)
		fmt.Fprintln(cmd.OutOrStdout(), render.Summary(st, render.DefaultStyles))
		if err := player.Play(tl, st.Tempo); err != nil {
			return err
		}
		defer player.Stop()

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		defer signal.Stop(interrupt)

		done := make(chan struct{})
		defer close(done)
		lines := readLines(cmd.InOrStdin(), done)

		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-interrupt:
				logger.Info("playback interrupted", nil)
				return nil
			case line, ok := <-lines:
				if !ok {
					lines = nil
					continue
				}
				quit, err := applyControl(player, line)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					continue
				}
				if quit {
					return nil
				}
			case <-ticker.C:
				if !player.Playing() {
					return nil
				}
			}
		}
	},
}

const tempoStep = 5

var _ controls = (*playback.Player)(nil)

// controls is the part of the player the keyboard can reach.
type controls interface {
	PendingTempo() int
	RequestTempo(bpm int)
	Loop() bool
	SetLoop(enabled bool)
}

// applyControl runs one line of input against the player. Tempo changes go
// through RequestTempo so a burst of nudges restarts playback once.
func applyControl(c controls, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	switch fields[0] {
	case "+":
		c.RequestTempo(c.PendingTempo() + tempoStep)
	case "-":
		c.RequestTempo(c.PendingTempo() - tempoStep)
	case "t", "tempo":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: t BPM")
		}
		bpm, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("invalid tempo %q", fields[1])
		}
		c.RequestTempo(bpm)
	case "l", "loop":
		c.SetLoop(!c.Loop())
		logger.Info("loop toggled", logger.Fields{"loop": c.Loop()})
	case "q", "quit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown control %q", fields[0])
	}
	return false, nil
}

// readLines feeds r line by line until EOF or done closes.
func readLines(r io.Reader, done <-chan struct{}) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case ch <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return ch
}
