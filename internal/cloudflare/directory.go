package cloudflare

import (
	"context"
	"fmt"
	"log/slog"

	cf "github.com/cloudflare/cloudflare-go"

	"github.com/angeloszaimis/dns-failover/internal/record"
)

const (
	minRetryDelaySeconds = 1
	maxRetryDelaySeconds = 30
)

// Directory looks up zones and reads and rewrites DNS records.
type Directory struct {
	api    *cf.API
	logger *slog.Logger
}

// New creates a directory authenticated with an API token. retries sets
// how often the client repeats a call that was rate limited or hit a 5xx.
func New(token string, retries int, logger *slog.Logger, opts ...cf.Option) (*Directory, error) {
	opts = append([]cf.Option{cf.UsingRetryPolicy(retries, minRetryDelaySeconds, maxRetryDelaySeconds)}, opts...)

	api, err := cf.NewWithAPIToken(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create cloudflare client: %w", err)
	}

	return &Directory{
		api:    api,
		logger: logger,
	}, nil
}

func (d *Directory) LookupZone(ctx context.Context, domain string) (string, bool, error) {
	zones, err := d.api.ListZones(ctx, domain)
	if err != nil {
		return "", false, err
	}

	if len(zones) == 0 {
		return "", false, nil
	}

	d.logger.Debug("Zone resolved",
		slog.String("zone", domain),
		slog.String("id", zones[0].ID))

	return zones[0].ID, true, nil
}

func (d *Directory) ListRecords(ctx context.Context, zoneID, recordType, name string) ([]record.Live, error) {
	records, _, err := d.api.ListDNSRecords(ctx, cf.ZoneIdentifier(zoneID), cf.ListDNSRecordsParams{
		Type: recordType,
		Name: name,
	})
	if err != nil {
		return nil, err
	}

	live := make([]record.Live, 0, len(records))
	for _, r := range records {
		live = append(live, record.Live{
			ID:      r.ID,
			Type:    r.Type,
			Content: r.Content,
		})
	}

	return live, nil
}

func (d *Directory) UpdateRecord(ctx context.Context, zoneID string, update record.Update) error {
	_, err := d.api.UpdateDNSRecord(ctx, cf.ZoneIdentifier(zoneID), cf.UpdateDNSRecordParams{
		ID:      update.RecordID,
		Type:    update.Type,
		Name:    update.Name,
		Content: update.Content,
		Proxied: cf.BoolPtr(update.Proxied),
		TTL:     update.TTL,
	})
	return err
}
