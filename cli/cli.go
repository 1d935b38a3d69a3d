// Package cli wires the engine into the go-cycles command tree.
package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"go-cycles/config"
	"go-cycles/debug"
	"go-cycles/midiout"
	"go-cycles/notation"
	"go-cycles/repl"
	"go-cycles/scheduler"
	"go-cycles/session"
	"go-cycles/tui"
)

var cfgPath string

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "go-cycles",
		Short: "Mini-notation pattern engine and cycle scheduler",
		Long:  "go-cycles compiles mini-notation text into queryable patterns and schedules their events against a cycle clock.",
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.config/go-cycles/config.json)")

	cmd.AddCommand(
		newReplCmd(),
		newTuiCmd(),
		newPlayCmd(),
		newCheckCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if cfgPath != "" {
		return config.LoadFrom(cfgPath)
	}
	return config.Load()
}

// buildScheduler assembles a running scheduler (and MIDI output, when
// a port is configured) from the config.
func buildScheduler(cfg *config.Config) (*scheduler.Scheduler, *midiout.Output) {
	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
	}
	sched := scheduler.New(scheduler.Options{
		BPM:           cfg.BPM,
		BeatsPerCycle: cfg.BeatsPerCycle,
		TickInterval:  time.Duration(cfg.TickMs) * time.Millisecond,
		HighlightDur:  time.Duration(cfg.HighlightMs) * time.Millisecond,
	})
	sched.Start()

	var out *midiout.Output
	if cfg.MidiPort != "" {
		out = midiout.New(cfg.MidiPort, cfg.MidiChannel, cfg.GateNotes)
		go out.Run(sched.Events())
	} else {
		// No consumer configured; drain so the engine never backs up.
		go func() {
			for range sched.Events() {
			}
		}()
	}
	return sched, out
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive pattern shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sched, out := buildScheduler(cfg)
			defer sched.Close()
			if out != nil {
				defer out.Stop()
			}
			sched.Play()

			interp := repl.New(sched)
			return runShell(interp)
		},
	}
}

func runShell(interp *repl.Interp) error {
	historyFile := filepath.Join(os.TempDir(), "go-cycles.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "cycles> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("go-cycles shell. d1..d8 $ <pattern>, once $ <cmd>, hush; 'exit' to leave.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println()
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		out, err := interp.Eval(line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}

func newTuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Full-screen live-coding surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sched, out := buildScheduler(cfg)
			defer sched.Close()
			if out != nil {
				defer out.Stop()
			}
			sched.Play()

			interp := repl.New(sched)
			m := tui.NewModel(interp, sched)
			p := tea.NewProgram(m, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

func newPlayCmd() *cobra.Command {
	var sessionPath string
	var midiPort string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run a session file headless until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionPath == "" {
				return fmt.Errorf("--session is required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if midiPort != "" {
				cfg.MidiPort = midiPort
			}
			sess, err := session.Load(sessionPath)
			if err != nil {
				return err
			}

			sched, out := buildScheduler(cfg)
			defer sched.Close()
			if out != nil {
				defer out.Stop()
			}
			if err := sess.Apply(sched); err != nil {
				return err
			}
			sched.Play()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			fmt.Printf("playing %s (%d slots) - ctrl+c to stop\n", sessionPath, len(sess.Slots))
			<-ctx.Done()
			sched.Stop()
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionPath, "session", "", "YAML session file")
	cmd.Flags().StringVar(&midiPort, "midi-port", "", "MIDI output port (overrides config)")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var cycles int
	var kind string
	cmd := &cobra.Command{
		Use:   "check <pattern text>",
		Short: "Parse a pattern and print its first cycles of onsets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			var pat notation.Pat
			var err error
			switch kind {
			case "gates":
				pat, err = notation.ParseGates(text)
			case "sounds":
				pat, err = notation.ParseSounds(text)
			case "notes":
				pat, err = notation.ParseNotes(text)
			case "":
				pat, err = repl.ParsePattern(text)
			default:
				return fmt.Errorf("unknown kind %q (want gates, sounds or notes)", kind)
			}
			if err != nil {
				return err
			}
			fmt.Print(notation.RenderOnsets(pat, cycles))
			return nil
		},
	}
	cmd.Flags().IntVar(&cycles, "cycles", 2, "how many cycles to print")
	cmd.Flags().StringVar(&kind, "kind", "", "parse context: gates, sounds, notes (default: infer like the REPL)")
	return cmd
}
