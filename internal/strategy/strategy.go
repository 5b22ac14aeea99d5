package strategy

import (
	"github.com/angeloszaimis/dns-failover/internal/record"
)

// Strategy picks a replacement for the live record from a pool. It returns
// false when every entry is identical to the live record.
type Strategy interface {
	Choose(pool []record.PoolEntry, currentType, currentContent string) (record.PoolEntry, bool)
}

// Eligible returns the pool entries that differ from the live record in
// type or content.
func Eligible(pool []record.PoolEntry, currentType, currentContent string) []record.PoolEntry {
	eligible := make([]record.PoolEntry, 0, len(pool))

	for _, entry := range pool {
		if entry.Matches(currentType, currentContent) {
			continue
		}
		eligible = append(eligible, entry)
	}

	return eligible
}
