// Package intcode provides an implementation of an Intcode computer, called
// Machine, that can be used to execute Intcode programs.
package intcode

import (
	"errors"
	"fmt"
	"slices"
)

// Machine is an implementation of an Intcode computer.
//
// Input is consumed from the front by IN instructions and Output is appended
// to by OUT instructions. Callers fill Input and drain Output directly.
type Machine struct {
	Mem    []int64
	IP     int
	Input  []int64
	Output []int64
}

// NewMachine returns a Machine whose memory is a copy of image,
// with IP 0 and empty input and output queues.
func NewMachine(image []int64) *Machine {
	return &Machine{Mem: slices.Clone(image)}
}

// Clone returns a deep copy of m. Executing the copy has no effect on m.
func (m *Machine) Clone() *Machine {
	return &Machine{
		Mem:    slices.Clone(m.Mem),
		IP:     m.IP,
		Input:  slices.Clone(m.Input),
		Output: slices.Clone(m.Output),
	}
}

// PushInput appends vs to the input queue.
func (m *Machine) PushInput(vs ...int64) {
	m.Input = append(m.Input, vs...)
}

// LastOutput returns the most recently written output value,
// and reports whether there was one.
func (m *Machine) LastOutput() (int64, bool) {
	if len(m.Output) == 0 {
		return 0, false
	}
	return m.Output[len(m.Output)-1], true
}

// Next decodes the instruction at m.IP without executing it.
func (m *Machine) Next() (Instr, error) {
	return Decode(m.Mem, m.IP)
}

var ErrHalt = errors.New("halt")

// Step decodes and executes the instruction at m.IP. It returns ErrHalt if
// that instruction is HLT, leaving IP unchanged, and otherwise only returns
// a non-nil error, a Fault, if the instruction cannot be decoded or executed.
// A faulting instruction leaves memory, IP and the queues unchanged.
func (m *Machine) Step() (err error) {
	in, err := m.Next()
	if err != nil {
		return err
	}
	ip := m.IP
	defer func() {
		if e := recover(); e != nil {
			if f, ok := e.(Fault); ok {
				f.Addr = ip
				f.Word = m.Mem[ip]
				err = f
			} else {
				panic(e)
			}
		}
	}()

	a := in.Args
	switch in.Op {
	case Halt:
		return ErrHalt
	case Add:
		m.store(a[2].Value, m.eval(a[0])+m.eval(a[1]))
	case Mul:
		m.store(a[2].Value, m.eval(a[0])*m.eval(a[1]))
	case LessThan:
		m.store(a[2].Value, boolWord(m.eval(a[0]) < m.eval(a[1])))
	case Equals:
		m.store(a[2].Value, boolWord(m.eval(a[0]) == m.eval(a[1])))
	case In:
		if len(m.Input) == 0 {
			panic(Fault{FaultCode: StarvedInput})
		}
		m.store(a[0].Value, m.Input[0])
		m.Input = m.Input[1:]
	case Out:
		m.Output = append(m.Output, m.eval(a[0]))
	case JumpIfTrue, JumpIfFalse:
		if c := m.eval(a[0]); (c != 0) == (in.Op == JumpIfTrue) {
			m.IP = int(m.eval(a[1]))
			return nil
		}
	default:
		panic(fmt.Errorf("internal error: %v not implemented", in.Op))
	}
	m.IP += in.Op.Size()
	return nil
}

// Run steps m until it halts, returning nil, or faults, returning the Fault.
func (m *Machine) Run() error {
	for {
		if err := m.Step(); err != nil {
			if err == ErrHalt {
				return nil
			}
			return err
		}
	}
}

func (m *Machine) eval(p Param) int64 {
	if p.Mode == Immediate {
		return p.Value
	}
	return m.load(p.Value)
}

func (m *Machine) load(addr int64) int64 {
	if addr < 0 || addr >= int64(len(m.Mem)) {
		panic(Fault{FaultCode: OutOfBounds, Ref: addr})
	}
	return m.Mem[addr]
}

// MaxMem is the largest memory size a store may grow memory to.
const MaxMem = 1 << 24

// store writes v to mem[addr], growing memory with zeros if addr lies beyond
// its end.
func (m *Machine) store(addr, v int64) {
	if addr < 0 || addr >= MaxMem {
		panic(Fault{FaultCode: OutOfBounds, Ref: addr})
	}
	if n := int(addr) + 1; n > len(m.Mem) {
		m.Mem = append(m.Mem, make([]int64, n-len(m.Mem))...)
	}
	m.Mem[addr] = v
}

func boolWord(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Fault is returned by Step and Run if an instruction cannot be decoded or
// executed.
type Fault struct {
	FaultCode
	Addr int   // IP of the faulting instruction
	Word int64 // raw instruction word at Addr
	Ref  int64 // offending address, for OutOfBounds
}

func (f Fault) Error() string {
	if f.FaultCode == OutOfBounds {
		return fmt.Sprintf("%s (address %d) at ip=%d (word %d)", f.FaultCode, f.Ref, f.Addr, f.Word)
	}
	return fmt.Sprintf("%s at ip=%d (word %d)", f.FaultCode, f.Addr, f.Word)
}

// FaultCode signifies the type of condition that stopped execution.
type FaultCode byte

const (
	UnknownOpcode FaultCode = iota + 1
	BadMode
	Truncated
	OutOfBounds
	StarvedInput
)

func (c FaultCode) String() string {
	if s, ok := map[FaultCode]string{
		UnknownOpcode: "unrecognized opcode",
		BadMode:       "invalid parameter mode",
		Truncated:     "truncated instruction",
		OutOfBounds:   "memory access out of bounds",
		StarvedInput:  "input queue empty",
	}[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%.2x)", byte(c))
}
