package intcode

import (
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	pos := func(v int64) Param { return Param{Position, v} }
	imm := func(v int64) Param { return Param{Immediate, v} }
	for _, c := range []struct {
		mem  []int64
		ip   int
		want Instr
	}{
		{[]int64{1002, 4, 3, 4, 33}, 0, Instr{Mul, [3]Param{pos(4), imm(3), imm(4)}}},
		{[]int64{1, 9, 10, 3}, 0, Instr{Add, [3]Param{pos(9), pos(10), imm(3)}}},
		{[]int64{10001, 9, 10, 3}, 0, Instr{Add, [3]Param{pos(9), pos(10), imm(3)}}},
		{[]int64{1101, -1, 2, 3}, 0, Instr{Add, [3]Param{imm(-1), imm(2), imm(3)}}},
		{[]int64{0, 3, 7}, 1, Instr{Op: In, Args: [3]Param{imm(7)}}},
		{[]int64{4, 7}, 0, Instr{Op: Out, Args: [3]Param{pos(7)}}},
		{[]int64{104, 7}, 0, Instr{Op: Out, Args: [3]Param{imm(7)}}},
		{[]int64{1005, 1, 2}, 0, Instr{Op: JumpIfTrue, Args: [3]Param{pos(1), imm(2)}}},
		{[]int64{106, 0, 2}, 0, Instr{Op: JumpIfFalse, Args: [3]Param{imm(0), pos(2)}}},
		{[]int64{1107, 1, 2, 3}, 0, Instr{LessThan, [3]Param{imm(1), imm(2), imm(3)}}},
		{[]int64{8, 1, 2, 3}, 0, Instr{Equals, [3]Param{pos(1), pos(2), imm(3)}}},
		{[]int64{1, 1, 99}, 2, Instr{Op: Halt}},
		{[]int64{10099}, 0, Instr{Op: Halt}},
	} {
		got, err := Decode(c.mem, c.ip)
		if err != nil {
			t.Errorf("Decode(%v, %d): %v", c.mem, c.ip, err)
			continue
		}
		if got != c.want {
			t.Errorf("Decode(%v, %d) = %v, want %v", c.mem, c.ip, got, c.want)
		}
	}
}

func TestDecodeFault(t *testing.T) {
	for _, c := range []struct {
		mem  []int64
		ip   int
		want Fault
	}{
		{[]int64{}, 0, Fault{FaultCode: OutOfBounds}},
		{[]int64{99}, 1, Fault{FaultCode: OutOfBounds, Addr: 1, Ref: 1}},
		{[]int64{12}, 0, Fault{FaultCode: UnknownOpcode, Word: 12}},
		{[]int64{99, 1198}, 1, Fault{FaultCode: UnknownOpcode, Addr: 1, Word: 1198}},
		{[]int64{2, 0, 0}, 0, Fault{FaultCode: Truncated, Word: 2}},
		{[]int64{3}, 0, Fault{FaultCode: Truncated, Word: 3}},
		{[]int64{301, 0, 0, 0}, 0, Fault{FaultCode: BadMode, Word: 301}},
		{[]int64{1901, 0, 0, 0}, 0, Fault{FaultCode: BadMode, Word: 1901}},
		{[]int64{905, 0, 0}, 0, Fault{FaultCode: BadMode, Word: 905}},
	} {
		_, err := Decode(c.mem, c.ip)
		if err != c.want {
			t.Errorf("Decode(%v, %d) returned error %v, want %v", c.mem, c.ip, err, c.want)
		}
	}
}

// Check that there are string versions for every opcode and that
// every opcode occupies its parameters plus the opcode word.
func TestOpString(t *testing.T) {
	for o := Op(0); o < 100; o++ {
		s := o.String()
		if !o.Valid() {
			if !strings.HasPrefix(s, "Op(") {
				t.Errorf("Op(%d).String() returned %q for invalid op", int64(o), s)
			}
			continue
		}
		if s == "" || strings.HasPrefix(s, "Op(") {
			t.Errorf("Op(%d).String() returned %q", int64(o), s)
		}
		if g, w := o.Size(), o.Arity()+1; g != w {
			t.Errorf("%v.Size() = %d, want %d", o, g, w)
		}
		if o.Stores() && o.Arity() == 0 {
			t.Errorf("%v stores but takes no parameters", o)
		}
	}
}

func TestInstrString(t *testing.T) {
	for _, c := range []struct {
		mem  []int64
		want string
	}{
		{[]int64{1002, 4, 3, 4}, "MUL [4] #3 ->4"},
		{[]int64{3, 21}, "IN ->21"},
		{[]int64{104, -9}, "OUT #-9"},
		{[]int64{1105, 1, 46}, "JT #1 #46"},
		{[]int64{99}, "HLT"},
	} {
		in, err := Decode(c.mem, 0)
		if err != nil {
			t.Fatal(err)
		}
		if g := in.String(); g != c.want {
			t.Errorf("%v decoded as %q, want %q", c.mem, g, c.want)
		}
	}
}
