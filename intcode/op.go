package intcode

import (
	"fmt"
	"strings"
)

// Op represents an Intcode opcode, the two low decimal digits of an
// instruction word.
type Op int64

const (
	Add         Op = 1
	Mul         Op = 2
	In          Op = 3
	Out         Op = 4
	JumpIfTrue  Op = 5
	JumpIfFalse Op = 6
	LessThan    Op = 7
	Equals      Op = 8
	Halt        Op = 99
)

var opStrings = map[Op]string{
	Add:         "ADD",
	Mul:         "MUL",
	In:          "IN",
	Out:         "OUT",
	JumpIfTrue:  "JT",
	JumpIfFalse: "JF",
	LessThan:    "LT",
	Equals:      "EQ",
	Halt:        "HLT",
}

func (o Op) String() string {
	if s, ok := opStrings[o]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", int64(o))
}

// Valid reports whether o is part of the instruction set.
func (o Op) Valid() bool {
	_, ok := opStrings[o]
	return ok
}

// Arity reports the number of parameters that follow the opcode word.
func (o Op) Arity() int {
	switch o {
	case Add, Mul, LessThan, Equals:
		return 3
	case JumpIfTrue, JumpIfFalse:
		return 2
	case In, Out:
		return 1
	}
	return 0
}

// Size reports the number of memory cells the instruction occupies.
func (o Op) Size() int { return o.Arity() + 1 }

// Stores reports whether the last parameter of o is a write target.
func (o Op) Stores() bool {
	switch o {
	case Add, Mul, In, LessThan, Equals:
		return true
	}
	return false
}

// Mode is a parameter mode.
type Mode byte

const (
	Position  Mode = 0
	Immediate Mode = 1
)

func (m Mode) String() string {
	switch m {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	}
	return fmt.Sprintf("Mode(%d)", byte(m))
}

// Param is a decoded instruction parameter.
type Param struct {
	Mode  Mode
	Value int64
}

func (p Param) String() string {
	if p.Mode == Position {
		return fmt.Sprintf("[%d]", p.Value)
	}
	return fmt.Sprintf("#%d", p.Value)
}

// Instr is a decoded instruction. Only the first Op.Arity() elements of Args
// are meaningful. The write target of a storing instruction is always
// decoded with Immediate mode, as its value is the address itself.
type Instr struct {
	Op   Op
	Args [3]Param
}

// Params returns the meaningful parameters of the instruction.
func (in Instr) Params() []Param { return in.Args[:in.Op.Arity()] }

func (in Instr) String() string {
	var b strings.Builder
	b.WriteString(in.Op.String())
	ps := in.Params()
	for i, p := range ps {
		b.WriteByte(' ')
		if i == len(ps)-1 && in.Op.Stores() {
			fmt.Fprintf(&b, "->%d", p.Value)
			continue
		}
		b.WriteString(p.String())
	}
	return b.String()
}

// Decode decodes the instruction at mem[ip].
// The returned error, if any, is a Fault.
func Decode(mem []int64, ip int) (Instr, error) {
	if ip < 0 || ip >= len(mem) {
		return Instr{}, Fault{FaultCode: OutOfBounds, Addr: ip, Ref: int64(ip)}
	}
	var (
		word  = mem[ip]
		op    = Op(word % 100)
		modes = word / 100
	)
	if !op.Valid() {
		return Instr{}, Fault{FaultCode: UnknownOpcode, Addr: ip, Word: word}
	}
	n := op.Arity()
	if ip+n >= len(mem) {
		return Instr{}, Fault{FaultCode: Truncated, Addr: ip, Word: word}
	}
	in := Instr{Op: op}
	for i := 0; i < n; i++ {
		d := modes % 10
		modes /= 10
		p := Param{Value: mem[ip+1+i]}
		switch {
		case i == n-1 && op.Stores():
			p.Mode = Immediate
		case d == 0:
			p.Mode = Position
		case d == 1:
			p.Mode = Immediate
		default:
			return Instr{}, Fault{FaultCode: BadMode, Addr: ip, Word: word}
		}
		in.Args[i] = p
	}
	return in, nil
}
