package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nf/intcode/intcode"
)

const diagnostic = "3,21,1008,21,8,20,1005,20,22,107,8,21,20,1006,20,31," +
	"1106,0,36,98,0,0,1002,21,125,20,4,20,1105,1,46,104,999,1105,1,46,1101," +
	"1000,1,20,4,20,1105,1,46,98,99"

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "prog.txt")
	require.NoError(t, os.WriteFile(name, []byte(src), 0644))
	return name
}

func TestRunCommand(t *testing.T) {
	t.Parallel()
	type testCase struct {
		src, in, set, mem string
		last              bool
		want              string
	}
	tcs := []testCase{
		{src: "1,9,10,3,2,3,11,0,99,30,40,50", mem: "0", want: "mem[0] = 3500\n"},
		{src: "1,0,0,0,99", set: "1=4,2=4", mem: "0,9", want: "mem[0] = 198\nmem[9] = undefined\n"},
		{src: "3,0,4,0,99", in: "42", want: "42\n"},
		{src: "104,1,104,2,104,3,99", want: "1\n2\n3\n"},
		{src: "104,1,104,2,104,3,99", last: true, want: "3\n"},
		{src: diagnostic, in: "7", want: "999\n"},
		{src: diagnostic, in: "8", want: "1000\n"},
		{src: diagnostic, in: "9", want: "1001\n"},
	}
	for _, tc := range tcs {
		cfg, err := newConfig(writeProgram(t, tc.src), tc.in, tc.set, tc.mem)
		require.NoError(t, err)
		cfg.last = tc.last
		var buf bytes.Buffer
		require.NoError(t, run(&buf, cfg))
		require.Equal(t, tc.want, buf.String(), tc.src)
	}
}

func TestRunCommandFault(t *testing.T) {
	t.Parallel()
	cfg, err := newConfig(writeProgram(t, "3,0,99"), "", "", "")
	require.NoError(t, err)
	var buf bytes.Buffer
	err = run(&buf, cfg)
	var f intcode.Fault
	require.True(t, errors.As(err, &f), "got %v", err)
	require.Equal(t, intcode.StarvedInput, f.FaultCode)
	require.Contains(t, err.Error(), "ip=0")
	require.Empty(t, buf.String())
}

func TestNewConfig(t *testing.T) {
	t.Parallel()
	for _, args := range [][3]string{
		{"x", "", ""},
		{"", "1", ""},
		{"", "", "-1"},
	} {
		_, err := newConfig("prog.txt", args[0], args[1], args[2])
		require.Error(t, err, "%q", args)
	}
}

func TestSearchNounVerb(t *testing.T) {
	t.Parallel()
	// mem[0] = noun * verb
	m := intcode.NewMachine([]int64{1102, 0, 0, 0, 99})

	v, err := searchNounVerb(context.Background(), m, 91, 4)
	require.NoError(t, err)
	require.Equal(t, int64(191), v)

	v, err = searchNounVerb(context.Background(), m, 99*99, 4)
	require.NoError(t, err)
	require.Equal(t, int64(9999), v)
	require.Equal(t, []int64{1102, 0, 0, 0, 99}, m.Mem)

	_, err = searchNounVerb(context.Background(), m, 101*101, 4)
	require.ErrorContains(t, err, "no noun/verb produces")
}

// Nouns 5 and up fault on their first verb, so a concurrent search sees
// faults before the match at noun 0, verb 4. The result must not depend
// on how many attempts run at once.
func TestSearchNounVerbOrder(t *testing.T) {
	t.Parallel()
	// mem[0] = mem[noun] + mem[verb]
	m := intcode.NewMachine([]int64{1, 0, 0, 0, 99})
	for _, limit := range []int{1, 2, 8, 100} {
		for i := 0; i < 10; i++ {
			v, err := searchNounVerb(context.Background(), m, 100, limit)
			require.NoError(t, err, "limit %d", limit)
			require.Equal(t, int64(4), v, "limit %d", limit)
		}
	}
}

func TestSearchNounVerbFault(t *testing.T) {
	t.Parallel()
	m := intcode.NewMachine([]int64{1, 0, 0, 0, 99})
	for _, limit := range []int{1, 8} {
		_, err := searchNounVerb(context.Background(), m, -1, limit)
		var f intcode.Fault
		require.True(t, errors.As(err, &f), "got %v", err)
		require.Equal(t, intcode.OutOfBounds, f.FaultCode)
		require.ErrorContains(t, err, "noun 0, verb 5:")

		// 99+99 is reached at noun 4, verb 4, after the fault at noun 0, verb 5.
		_, err = searchNounVerb(context.Background(), m, 198, limit)
		require.ErrorContains(t, err, "noun 0, verb 5:", "limit %d", limit)
	}

	_, err := searchNounVerb(context.Background(), intcode.NewMachine([]int64{99}), 0, 4)
	require.ErrorContains(t, err, "too short")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = searchNounVerb(ctx, intcode.NewMachine([]int64{1102, 0, 0, 0, 99}), -1, 4)
	require.ErrorIs(t, err, context.Canceled)
}
