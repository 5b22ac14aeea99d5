package strategy

import (
	"math/rand/v2"

	"github.com/angeloszaimis/dns-failover/internal/record"
)

type randomStrategy struct {
	rng *rand.Rand
}

func (r *randomStrategy) Choose(pool []record.PoolEntry, currentType, currentContent string) (record.PoolEntry, bool) {
	eligible := Eligible(pool, currentType, currentContent)
	if len(eligible) == 0 {
		return record.PoolEntry{}, false
	}

	return eligible[r.intN(len(eligible))], true
}

func (r *randomStrategy) intN(n int) int {
	if r.rng == nil {
		return rand.IntN(n)
	}
	return r.rng.IntN(n)
}

// NewRandomStrategy picks uniformly among eligible entries. A nil source
// uses the package-level generator.
func NewRandomStrategy(src rand.Source) Strategy {
	if src == nil {
		return &randomStrategy{}
	}

	return &randomStrategy{
		rng: rand.New(src),
	}
}
