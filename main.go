// Command intcode executes Intcode programs.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"strconv"

	"github.com/nf/intcode/intcode"
)

func main() {
	log.SetPrefix("intcode: ")
	log.SetFlags(0)

	var (
		inFlag     = flag.String("in", "", "comma-separated input `values`")
		setFlag    = flag.String("set", "", "comma-separated `addr=value` memory patches applied before running")
		memFlag    = flag.String("mem", "", "comma-separated memory `addresses` to print after halting")
		lastFlag   = flag.Bool("last", false, "print only the most recent output value")
		traceFlag  = flag.Int("trace", -1, "trace execution to stderr, giving up after `n` steps (0 means no limit)")
		searchFlag = flag.String("search", "", "find the noun and verb that leave `target` at address 0")
		devFlag    = flag.Bool("dev", false, "enable developer mode (re-run the program when it changes)")
		debugFlag  = flag.Bool("debug", false, "enable debugger (implies -dev)")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-in values] [-set patches] [-mem addrs] [-last] <program>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s -search target <program>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s <-dev | -debug> <program>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}

	cfg, err := newConfig(flag.Arg(0), *inFlag, *setFlag, *memFlag)
	if err != nil {
		log.Fatal(err)
	}
	cfg.last = *lastFlag

	if *devFlag || *debugFlag {
		if err := devMode(cfg, *debugFlag); err != nil {
			log.Fatal(err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	switch {
	case *searchFlag != "":
		err = search(cfg, *searchFlag)
	case *traceFlag >= 0:
		err = trace(cfg, *traceFlag)
	default:
		err = run(os.Stdout, cfg)
	}

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

// config describes how to load and report on a program.
type config struct {
	file    string
	in      []int64
	patches []patch
	mem     []int
	last    bool
}

func newConfig(file, in, set, mem string) (*config, error) {
	cfg := &config{file: file}
	var err error
	if cfg.in, err = parseInts(in); err != nil {
		return nil, fmt.Errorf("-in: %v", err)
	}
	if cfg.patches, err = parsePatches(set); err != nil {
		return nil, fmt.Errorf("-set: %v", err)
	}
	addrs, err := parseInts(mem)
	if err != nil {
		return nil, fmt.Errorf("-mem: %v", err)
	}
	for _, a := range addrs {
		if a < 0 {
			return nil, fmt.Errorf("-mem: negative address %d", a)
		}
		cfg.mem = append(cfg.mem, int(a))
	}
	return cfg, nil
}

// load reads the program and returns a machine ready to run it,
// with patches applied and input queued.
func (c *config) load() (*intcode.Machine, error) {
	image, err := readImage(c.file)
	if err != nil {
		return nil, err
	}
	if err := applyPatches(image, c.patches); err != nil {
		return nil, err
	}
	m := intcode.NewMachine(image)
	m.PushInput(c.in...)
	return m, nil
}

// report writes the output of a halted machine and the requested memory
// cells to w.
func (c *config) report(w io.Writer, m *intcode.Machine) {
	if c.last {
		if v, ok := m.LastOutput(); ok {
			fmt.Fprintln(w, v)
		}
	} else {
		for _, v := range m.Output {
			fmt.Fprintln(w, v)
		}
	}
	for _, a := range c.mem {
		v := "undefined"
		if a < len(m.Mem) {
			v = strconv.FormatInt(m.Mem[a], 10)
		}
		fmt.Fprintf(w, "mem[%d] = %s\n", a, v)
	}
}

func run(w io.Writer, cfg *config) error {
	m, err := cfg.load()
	if err != nil {
		return err
	}
	if err := m.Run(); err != nil {
		return err
	}
	cfg.report(w, m)
	return nil
}

func trace(cfg *config, limit int) error {
	m, err := cfg.load()
	if err != nil {
		return err
	}
	if err := m.Trace(os.Stderr, limit); err != nil {
		return err
	}
	cfg.report(os.Stdout, m)
	return nil
}

func search(cfg *config, target string) error {
	t, err := strconv.ParseInt(target, 10, 64)
	if err != nil {
		return fmt.Errorf("-search: invalid target %q", target)
	}
	m, err := cfg.load()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	v, err := searchNounVerb(ctx, m, t, runtime.NumCPU())
	if err != nil {
		return err
	}
	fmt.Println(v)
	return nil
}
