// Package tui is the live-coding surface: a slot table with trigger
// flashes, a scrollback of REPL results and an input line, on top of
// bubbletea.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-cycles/repl"
	"go-cycles/scheduler"
)

const maxLogLines = 8

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	slotStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	flashStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type Model struct {
	Interp *repl.Interp
	Sched  *scheduler.Scheduler

	input    string
	log      []string
	flashes  map[string]time.Time
	quitting bool
}

type UpdateMsg struct{}

type TriggerMsg scheduler.Trigger

type frameMsg time.Time

func NewModel(interp *repl.Interp, sched *scheduler.Scheduler) Model {
	return Model{
		Interp:  interp,
		Sched:   sched,
		flashes: make(map[string]time.Time),
	}
}

func listenForUpdates(sched *scheduler.Scheduler) tea.Cmd {
	return func() tea.Msg {
		<-sched.UpdateChan
		return UpdateMsg{}
	}
}

func listenForTriggers(sched *scheduler.Scheduler) tea.Cmd {
	return func() tea.Msg {
		return TriggerMsg(<-sched.Triggers())
	}
}

func frame() tea.Cmd {
	return tea.Tick(time.Second/10, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		listenForUpdates(m.Sched),
		listenForTriggers(m.Sched),
		frame(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			m.Sched.Stop()
			return m, tea.Quit

		case "enter":
			line := m.input
			m.input = ""
			if strings.TrimSpace(line) == "" {
				return m, nil
			}
			out, err := m.Interp.Eval(line)
			if err != nil {
				m.pushLog(errStyle.Render("error: " + err.Error()))
			} else if out != "" {
				m.pushLog(out)
			}

		case "backspace":
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}

		case "ctrl+u":
			m.input = ""

		default:
			switch msg.Type {
			case tea.KeyRunes:
				m.input += string(msg.Runes)
			case tea.KeySpace:
				m.input += " "
			}
		}

	case UpdateMsg:
		return m, listenForUpdates(m.Sched)

	case TriggerMsg:
		m.flashes[msg.Slot] = time.Now().Add(msg.Dur)
		return m, listenForTriggers(m.Sched)

	case frameMsg:
		return m, frame()
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Sched.State()
	playState := "STOP"
	if st.Playing {
		playState = "PLAY"
	}
	header := headerStyle.Render(fmt.Sprintf(
		"go-cycles  %s  %gbpm  cycle %d.%02d",
		playState, st.BPM, st.Cycle, int(st.CyclePos*100)))

	texts := m.Interp.Texts()
	names := make([]string, 0, len(texts))
	for name := range texts {
		names = append(names, name)
	}
	sort.Strings(names)

	now := time.Now()
	var slots strings.Builder
	for _, name := range names {
		line := fmt.Sprintf("%-5s %s", name, texts[name])
		if exp, ok := m.flashes[name]; ok && now.Before(exp) {
			slots.WriteString(flashStyle.Render(line))
		} else {
			slots.WriteString(slotStyle.Render(line))
		}
		slots.WriteString("\n")
	}
	if len(names) == 0 {
		slots.WriteString(dimStyle.Render("(no active slots)"))
		slots.WriteString("\n")
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(slots.String())
	out.WriteString("\n")
	for _, line := range m.log {
		out.WriteString(dimStyle.Render(line))
		out.WriteString("\n")
	}
	out.WriteString("\n> ")
	out.WriteString(m.input)
	out.WriteString("█\n\n")
	out.WriteString(dimStyle.Render("d1..d8 $ <pattern>  once $ <cmd>  hush  play/stop  bpm <n>  ctrl+c:quit"))
	return out.String()
}

func (m *Model) pushLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}
