package main

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/sirupsen/logrus"

	"kmon/kern"
)

// Collaborators are the external subsystems the console drives. The
// monitor invokes them and never reaches past these handles.
type Collaborators struct {
	Mem   kern.Memory
	Pages *kern.PageTable
	Syms  *kern.SymTab
	CPU   kern.CPU
	Image kern.Image
}

// Monitor is the kernel console: one instance owns the command registry
// and the collaborators every handler reaches into. A single goroutine
// drives it; nothing here is safe to share.
type Monitor struct {
	cmds  []command
	mem   kern.Memory
	pages *kern.PageTable
	syms  *kern.SymTab
	cpu   kern.CPU
	image kern.Image
	cfg   *Config
	out   io.Writer
	log   *logrus.Entry
}

func NewMonitor(cfg *Config, out io.Writer, c Collaborators) *Monitor {
	return &Monitor{
		cmds:  defaultCommands(),
		mem:   c.Mem,
		pages: c.Pages,
		syms:  c.Syms,
		cpu:   c.CPU,
		image: c.Image,
		cfg:   cfg,
		out:   out,
		log:   monitorLogger(),
	}
}

func (m *Monitor) printf(format string, a ...interface{}) {
	fmt.Fprintf(m.out, format, a...)
}

func (m *Monitor) errorf(format string, a ...interface{}) {
	fmt.Fprintf(m.out, "%s[ERROR]%s %s\n", ColorRed, ColorReset, fmt.Sprintf(format, a...))
}

// runLine tokenizes one console line and dispatches it. The returned
// status is negative only when the matched handler wants the loop gone.
func (m *Monitor) runLine(line string) int {
	argv, err := tokenize(line)
	if err != nil {
		m.errorf("%s", err)
		return 0
	}
	return m.dispatch(argv)
}

// Interactive runs the console loop until a handler asks to leave or
// the console reports EOF.
func (m *Monitor) Interactive() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            m.cfg.Prompt,
		HistoryFile:       m.cfg.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	m.printf("%sWelcome to the kmon kernel monitor!%s\n", ColorGreen, ColorReset)
	m.printf("Type 'help' for a list of commands.\n")

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			m.log.Debugf("read error: %v", err)
			continue
		}
		if m.runLine(line) < 0 {
			return nil
		}
	}
}
