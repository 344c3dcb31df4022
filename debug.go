package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/intcode/intcode"
)

type debugger struct {
	log   *tview.TextView
	watch *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	cmds   chan string
	resets chan *intcode.Machine

	sess *session // owned by loop
}

var debugCommands = []string{
	"step", "continue", "pause", "break", "watch", "in", "reset", "dump", "exit",
}

func newDebugger() *debugger {
	d := &debugger{
		log: tview.NewTextView().
			SetMaxLines(1000),
		watch: tview.NewTextView().
			SetWrap(false).
			SetTextAlign(tview.AlignRight),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),

		cmds:   make(chan string, 16),
		resets: make(chan *intcode.Machine),
		sess:   newSession(log.Printf),
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.watch.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 2, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 4, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if t == "" || strings.Contains(t, " ") {
			return nil
		}
		for _, c := range debugCommands {
			if strings.HasPrefix(c, t) {
				entries = append(entries, c)
			}
		}
		return
	})
	d.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			d.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := strings.TrimSpace(d.input.GetText())
		if cmd == "" {
			return
		}
		d.input.SetText("")
		switch cmd {
		case "exit":
			d.app.Stop()
			return
		case "p", "pause":
			d.sess.pause.Store(true)
			return
		}
		select {
		case d.cmds <- cmd:
		default:
			log.Printf("busy; dropped %q", cmd)
		}
	})
	return d
}

func (d *debugger) Run() error { return d.app.Run() }

// Reset replaces the machine under debug with m. It gives up if ctx is
// done before loop takes m.
func (d *debugger) Reset(ctx context.Context, m *intcode.Machine) {
	d.sess.pause.Store(true)
	select {
	case d.resets <- m:
	case <-ctx.Done():
	}
}

// loop executes debugger commands against the machine until ctx is done.
func (d *debugger) loop(ctx context.Context) {
	for {
		select {
		case cmd := <-d.cmds:
			d.sess.exec(cmd)
		case m := <-d.resets:
			d.sess.load(m)
		case <-ctx.Done():
			return
		}
		d.refresh()
	}
}

func (d *debugger) refresh() {
	var (
		watch  = d.sess.watchContent()
		state  = d.sess.stateMsg()
		status = d.sess.status
	)
	d.app.QueueUpdateDraw(func() {
		switch status {
		case ready, stepped:
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		case atBreak:
			d.state.SetTextColor(tcell.ColorYellow)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case paused, halted:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case faulted:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkRed)
		}
		d.watch.SetText(watch)
		d.state.SetText(state)
	})
}

type status int

const (
	ready status = iota
	stepped
	atBreak
	paused
	halted
	faulted
)

// session holds a machine under debug along with its breakpoint and watched
// memory cells. Only pause may be accessed concurrently with exec.
type session struct {
	m, initial *intcode.Machine
	brk        int
	watches    []int
	status     status
	pause      atomic.Bool

	logf func(format string, args ...any)
}

func newSession(logf func(string, ...any)) *session {
	return &session{brk: -1, logf: logf}
}

// load replaces the machine under debug, keeping a copy so it can be reset.
func (s *session) load(m *intcode.Machine) {
	s.initial = m.Clone()
	s.m = m
	s.status = ready
	s.logf("loaded %d cells", len(m.Mem))
}

func (s *session) exec(line string) {
	if s.m == nil {
		s.logf("no program loaded")
		return
	}
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "s", "step":
		n := 1
		if arg != "" {
			v, err := strconv.Atoi(arg)
			if err != nil || v < 1 {
				s.logf("invalid step count %q", arg)
				return
			}
			n = v
		}
		s.step(n)
	case "c", "continue":
		s.cont()
	case "b", "break":
		if arg == "" {
			s.brk = -1
			s.logf("cleared break")
			return
		}
		addr, ok := s.parseAddr(arg)
		if !ok {
			return
		}
		s.brk = addr
		s.logf("set break %d", addr)
	case "w", "watch":
		if arg == "" {
			s.watches = nil
			s.logf("cleared watches")
			return
		}
		addr, ok := s.parseAddr(arg)
		if !ok {
			return
		}
		s.watches = append(s.watches, addr)
		s.logf("watching %d", addr)
	case "in":
		vs, err := parseInts(arg)
		if err != nil {
			s.logf("input: %v", err)
			return
		}
		s.m.PushInput(vs...)
		s.logf("input queue %v", s.m.Input)
	case "r", "reset":
		s.m = s.initial.Clone()
		s.status = ready
		s.logf("reset")
	case "dump":
		s.logf("%s", spew.Sdump(s.m))
	default:
		s.logf("unknown command %q", cmd)
	}
}

func (s *session) parseAddr(arg string) (int, bool) {
	addr, err := strconv.Atoi(arg)
	if err != nil || addr < 0 {
		s.logf("invalid address %q", arg)
		return 0, false
	}
	return addr, true
}

func (s *session) done() bool {
	if s.status == halted || s.status == faulted {
		s.logf("machine stopped; reset to run again")
		return true
	}
	return false
}

func (s *session) step(n int) {
	if s.done() {
		return
	}
	for i := 0; i < n; i++ {
		if !s.exec1() {
			return
		}
	}
	s.status = stepped
}

func (s *session) cont() {
	if s.done() {
		return
	}
	s.pause.Store(false)
	for i := 0; ; i++ {
		if i > 0 && s.m.IP == s.brk {
			s.status = atBreak
			s.logf("break at ip=%d", s.m.IP)
			return
		}
		if s.pause.Load() {
			s.status = paused
			s.logf("paused at ip=%d", s.m.IP)
			return
		}
		if !s.exec1() {
			return
		}
	}
}

// exec1 executes one instruction and reports whether the machine may
// continue.
func (s *session) exec1() bool {
	switch err := s.m.Step(); err {
	case nil:
		return true
	case intcode.ErrHalt:
		s.status = halted
		s.logf("halted; output %v", s.m.Output)
	default:
		s.status = faulted
		s.logf("fault: %v", err)
	}
	return false
}

func (s *session) stateMsg() string {
	if s.m == nil {
		return ""
	}
	var next string
	if in, err := s.m.Next(); err == nil {
		next = in.String()
	} else {
		next = err.Error()
	}
	kind := "       "
	switch s.status {
	case atBreak:
		kind = "[break]"
	case paused:
		kind = "[pause]"
	case halted:
		kind = "[HALT!]"
	case faulted:
		kind = "[FAULT]"
	}
	return fmt.Sprintf("%5d %-24s %s\nin:  %v\nout: %v\n",
		s.m.IP, next, kind, s.m.Input, s.m.Output)
}

func (s *session) watchContent() string {
	if s.m == nil {
		return ""
	}
	var b strings.Builder
	if s.brk >= 0 {
		fmt.Fprintf(&b, "ip=%d brk!\n", s.brk)
	}
	for _, a := range s.watches {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		if a < len(s.m.Mem) {
			fmt.Fprintf(&b, "[%d] %d", a, s.m.Mem[a])
		} else {
			fmt.Fprintf(&b, "[%d] -", a)
		}
	}
	return b.String()
}
