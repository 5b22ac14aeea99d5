package failover

import (
	"context"
	"log/slog"

	"github.com/angeloszaimis/dns-failover/internal/record"
)

// Inventory logs the live record of every configured name. It runs once at
// startup so operators see what the monitor is starting from; it never
// touches the failure counts.
func (c *Controller) Inventory(ctx context.Context, specs []record.Spec) {
	for _, spec := range specs {
		name := spec.Name()

		zoneID, found, err := c.directory.LookupZone(ctx, spec.Zone())
		if err != nil {
			c.logger.Error("Zone lookup failed", slog.String("name", name), slog.Any("err", err))
			continue
		}
		if !found {
			c.logger.Warn("Zone not found", slog.String("name", name), slog.String("zone", spec.Zone()))
			continue
		}

		current, found, err := c.currentRecord(ctx, zoneID, name)
		if err != nil {
			c.logger.Error("Record lookup failed", slog.String("name", name), slog.Any("err", err))
			continue
		}
		if !found {
			c.logger.Warn("No A/AAAA/CNAME DNS records found", slog.String("name", name))
			continue
		}

		c.logger.Info("Current DNS record",
			slog.String("name", name),
			slog.String("record", current.String()),
			slog.Int("pool", len(spec.Pool)))
	}
}
