package failover

import (
	"context"
	"fmt"

	"github.com/angeloszaimis/dns-failover/internal/record"
)

// Directory is the DNS provider API the controller needs.
type Directory interface {
	// LookupZone returns the zone ID for a domain; found is false when the
	// account has no such zone.
	LookupZone(ctx context.Context, domain string) (zoneID string, found bool, err error)
	ListRecords(ctx context.Context, zoneID, recordType, name string) ([]record.Live, error)
	UpdateRecord(ctx context.Context, zoneID string, update record.Update) error
}

// ProviderError wraps a failed Directory call.
type ProviderError struct {
	Op   string
	Name string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s for %s: %v", e.Op, e.Name, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
