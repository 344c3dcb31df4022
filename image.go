package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// readImage reads a comma-separated program image from the named file,
// or from standard input if name is "-".
func readImage(name string) ([]int64, error) {
	var (
		b   []byte
		err error
	)
	if name == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	image, err := parseInts(string(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%s: empty program", name)
	}
	return image, nil
}

// parseInts parses comma-separated signed decimal integers.
// Surrounding white space and empty fields are ignored.
func parseInts(s string) ([]int64, error) {
	var vs []int64
	for i, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: invalid integer %q", i, f)
		}
		vs = append(vs, v)
	}
	return vs, nil
}

type patch struct {
	addr  int
	value int64
}

// parsePatches parses a list of addr=value pairs, such as "1=12,2=2".
func parsePatches(s string) ([]patch, error) {
	var ps []patch
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		a, v, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid patch %q: want addr=value", f)
		}
		addr, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil || addr < 0 {
			return nil, fmt.Errorf("invalid patch address %q", a)
		}
		value, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid patch value %q", v)
		}
		ps = append(ps, patch{addr, value})
	}
	return ps, nil
}

func applyPatches(image []int64, ps []patch) error {
	for _, p := range ps {
		if p.addr >= len(image) {
			return fmt.Errorf("patch address %d beyond end of program (%d)", p.addr, len(image))
		}
		image[p.addr] = p.value
	}
	return nil
}
