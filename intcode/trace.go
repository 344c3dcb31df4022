package intcode

import (
	"errors"
	"fmt"
	"io"
)

var ErrDiverged = errors.New("diverged")

// Trace runs m like Run, but writes the machine state to w before each step.
// If limit is positive and the machine has not halted after limit steps,
// Trace returns an error wrapping ErrDiverged.
func (m *Machine) Trace(w io.Writer, limit int) error {
	for n := 0; limit <= 0 || n < limit; n++ {
		in, err := m.Next()
		if err != nil {
			fmt.Fprintf(w, "%5d: %v\n", m.IP, err)
			return err
		}
		fmt.Fprintf(w, "%5d: %-24v in=%v out=%v\n", m.IP, in, m.Input, m.Output)
		switch err := m.Step(); err {
		case nil:
		case ErrHalt:
			fmt.Fprintln(w, "halted")
			return nil
		default:
			fmt.Fprintf(w, "%5d: %v\n", m.IP, err)
			return err
		}
	}
	fmt.Fprintln(w, "diverged")
	return fmt.Errorf("%w after %d steps", ErrDiverged, limit)
}
