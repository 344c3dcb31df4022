package main

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nf/intcode/intcode"
)

// maxNounVerb bounds the values tried for each of the noun and verb.
const maxNounVerb = 100

// searchNounVerb finds the noun and verb, stored at addresses 1 and 2,
// for which m halts with target at address 0. It returns 100*noun+verb,
// the smallest such value if there are several.
// Attempts are ordered by 100*noun+verb, and the first in that order to
// either match or fault decides the result, however many run at once.
// At most limit attempts run concurrently, each on a clone of m; m itself
// is not modified.
func searchNounVerb(ctx context.Context, m *intcode.Machine, target int64, limit int) (int64, error) {
	if len(m.Mem) < 3 {
		return 0, fmt.Errorf("program too short for noun and verb (%d cells)", len(m.Mem))
	}

	var (
		mu      sync.Mutex
		best    = int64(-1) // key of the first outcome, match or fault
		bestErr error
	)
	record := func(key int64, err error) {
		mu.Lock()
		defer mu.Unlock()
		if best < 0 || key < best {
			best, bestErr = key, err
		}
	}
	// decided reports whether an outcome ordered before every key of noun
	// is known.
	decided := func(noun int64) bool {
		mu.Lock()
		defer mu.Unlock()
		return best >= 0 && best < 100*noun
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for noun := int64(0); noun < maxNounVerb; noun++ {
		noun := noun
		g.Go(func() error {
			for verb := int64(0); verb < maxNounVerb; verb++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if decided(noun) {
					return nil
				}
				c := m.Clone()
				c.Mem[1], c.Mem[2] = noun, verb
				if err := c.Run(); err != nil {
					record(100*noun+verb, fmt.Errorf("noun %d, verb %d: %w", noun, verb, err))
					return nil
				}
				if c.Mem[0] == target {
					record(100*noun+verb, nil)
					return nil
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if bestErr != nil {
		return 0, bestErr
	}
	if best < 0 {
		return 0, fmt.Errorf("no noun/verb produces %d", target)
	}
	return best, nil
}
